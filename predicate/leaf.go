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

package predicate

import (
	"context"
	"fmt"

	"github.com/Nagato-Yuzuru/predylogic/param"
)

// Func is an opaque, user-supplied atomic predicate: (context, typed user
// context, bound params) -> bool. The ctx argument is plumbed through purely
// for cancellation/tracing propagation; the engine itself never cancels or
// times out an evaluation.
type Func[C any] func(ctx context.Context, c C, params map[string]any) (bool, error)

// RuleDef is a registered atomic predicate: a stable name, the callable, and
// its declared parameter schema. Immutable once registered.
type RuleDef[C any] struct {
	Name   string
	Fn     Func[C]
	Schema param.Schema
	Doc    string
}

func (d *RuleDef[C]) String() string {
	return d.Name
}

// NewLeaf binds def to concrete params, validating the params against def's
// schema: missing/unknown/mismatched params fail here, at construction time.
func NewLeaf[C any](def *RuleDef[C], params map[string]any) (*Leaf[C], error) {
	bound, err := def.Schema.Bind(def.Name, params)
	if err != nil {
		return nil, err
	}
	return &Leaf[C]{Def: def, Params: bound}, nil
}

// Label renders the leaf as "rule_def_name(params)", the form a Leaf's trace
// label takes in an audit trace.
func (l *Leaf[C]) Label() string {
	return fmt.Sprintf("%s(%v)", l.Def.Name, l.Params)
}

// constLeaf produces a trivial always-true/always-false rule def, used as
// the identity element when AllOf/AnyOf are called with zero children (the
// AND/OR identities: an empty conjunction is true, an empty disjunction is
// false).
func constLeaf[C any](name string, result bool) *Leaf[C] {
	def := &RuleDef[C]{
		Name: name,
		Fn: func(_ context.Context, _ C, _ map[string]any) (bool, error) {
			return result, nil
		},
	}
	return &Leaf[C]{Def: def, Params: map[string]any{}}
}
