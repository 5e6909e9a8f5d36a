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

package compiler

import (
	"context"

	"github.com/Nagato-Yuzuru/predylogic/predicate"
)

// evalFrame is one pending And/Or/Not waiting on a child result, kept on an
// explicit heap-allocated stack rather than the Go call stack so evaluation
// depth is bounded only by available memory, not the Go call stack;
// exercised by a 2000-deep chain in tests.
type evalFrame[C any] struct {
	and      bool // true for And, false for Or; meaningless when not==true
	not      bool
	children []predicate.Node[C]
	idx      int
	acc      bool
}

// Eval evaluates the compiled tree in fast mode: no trace is built, and when
// shortCircuit is true an And stops at the first false child and an Or stops
// at the first true one.
func (t *Tree[C]) Eval(ctx context.Context, c C, shortCircuit bool) (bool, error) {
	var stack []*evalFrame[C]
	current := t.root
	var pending bool
	havePending := false

	for {
		if !havePending {
			switch n := current.(type) {
			case *predicate.Leaf[C]:
				v, err := n.Def.Fn(ctx, c, n.Params)
				if err != nil {
					return false, err
				}
				pending, havePending = v, true

			case *predicate.HandleRef[C]:
				v, err := n.Handle.Eval(ctx, c, shortCircuit)
				if err != nil {
					return false, err
				}
				pending, havePending = v, true

			case *predicate.Not[C]:
				stack = append(stack, &evalFrame[C]{not: true})
				current = n.Child
				continue

			case *predicate.And[C]:
				f := &evalFrame[C]{and: true, children: n.Children, acc: true}
				stack = append(stack, f)
				current = f.children[0]
				continue

			case *predicate.Or[C]:
				f := &evalFrame[C]{and: false, children: n.Children, acc: false}
				stack = append(stack, f)
				current = f.children[0]
				continue
			}
		}

		if len(stack) == 0 {
			return pending, nil
		}

		top := stack[len(stack)-1]
		if top.not {
			stack = stack[:len(stack)-1]
			pending, havePending = !pending, true
			continue
		}

		if top.and {
			top.acc = top.acc && pending
		} else {
			top.acc = top.acc || pending
		}
		top.idx++

		if shortCircuit && ((top.and && !top.acc) || (!top.and && top.acc)) {
			stack = stack[:len(stack)-1]
			pending, havePending = top.acc, true
			continue
		}

		if top.idx >= len(top.children) {
			stack = stack[:len(stack)-1]
			pending, havePending = top.acc, true
			continue
		}

		current = top.children[top.idx]
		havePending = false
	}
}
