// SPDX-License-Identifier: Apache-2.0
//
// Copyright 2025 The Predylogic Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"context"
	"sync"

	"github.com/jackc/puddle/v2"

	"github.com/Nagato-Yuzuru/predylogic/handle"
)

// BatchItem is one handle invocation to run as part of a batch.
type BatchItem[C any] struct {
	Handle       *handle.Handle[C]
	Context      C
	ShortCircuit bool
}

// BatchResult is the outcome of one BatchItem.
type BatchResult struct {
	Value bool
	Err   error
}

// BatchEvaluator bounds the concurrency of a batch of handle invocations
// using a puddle resource pool as a plain counting semaphore: the pooled
// resource carries no state, only a slot.
type BatchEvaluator[C any] struct {
	pool *puddle.Pool[struct{}]
}

// NewBatchEvaluator creates a BatchEvaluator that runs at most maxConcurrency
// invocations at a time.
func NewBatchEvaluator[C any](maxConcurrency int32) (*BatchEvaluator[C], error) {
	pool, err := puddle.NewPool(&puddle.Config[struct{}]{
		Constructor: func(context.Context) (struct{}, error) { return struct{}{}, nil },
		Destructor:  func(struct{}) {},
		MaxSize:     maxConcurrency,
	})
	if err != nil {
		return nil, err
	}
	return &BatchEvaluator[C]{pool: pool}, nil
}

// EvalAll evaluates every item, bounded by the evaluator's concurrency limit,
// and returns one BatchResult per item in the same order. It stops acquiring
// new slots (but lets in-flight ones finish) if ctx is canceled.
func (b *BatchEvaluator[C]) EvalAll(ctx context.Context, items []BatchItem[C]) ([]BatchResult, error) {
	results := make([]BatchResult, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		res, err := b.pool.Acquire(ctx)
		if err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int, item BatchItem[C], res *puddle.Resource[struct{}]) {
			defer wg.Done()
			defer res.Release()
			v, err := item.Handle.Eval(ctx, item.Context, item.ShortCircuit)
			results[i] = BatchResult{Value: v, Err: err}
		}(i, item, res)
	}

	wg.Wait()
	return results, nil
}

// Close releases the evaluator's pooled resources. Call once the evaluator
// is no longer needed.
func (b *BatchEvaluator[C]) Close() {
	b.pool.Close()
}
