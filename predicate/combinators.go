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

// Go has no operator overloading, so the `&`, `|`, `~` combinators other
// embedded predicate languages expose are named constructors here instead:
// NewAnd/NewOr/NewNot, plus AllOf/AnyOf for the direct N-ary form.

// NewAnd builds a binary conjunction: p & q.
func NewAnd[C any](p, q Node[C]) Node[C] {
	return &And[C]{Children: []Node[C]{p, q}}
}

// NewOr builds a binary disjunction: p | q.
func NewOr[C any](p, q Node[C]) Node[C] {
	return &Or[C]{Children: []Node[C]{p, q}}
}

// NewNot negates p: ~p. Double negation is not simplified at construction
// time (only the compiler's simplification pass collapses ~~p to p), so
// NewNot(NewNot(p)) deliberately produces a two-deep tree here.
func NewNot[C any](p Node[C]) Node[C] {
	return &Not[C]{Child: p}
}

// AllOf builds a direct N-ary conjunction over ps, bypassing the cost of
// building it out of nested binary Ands. An empty ps returns the AND
// identity (a trivial always-true leaf); a single element is returned
// unwrapped, since a one-child And would violate the N-ary invariant (at
// least two children) for no semantic gain.
func AllOf[C any](ps ...Node[C]) Node[C] {
	switch len(ps) {
	case 0:
		return constLeaf[C]("all_of/empty", true)
	case 1:
		return ps[0]
	default:
		children := make([]Node[C], len(ps))
		copy(children, ps)
		return &And[C]{Children: children}
	}
}

// AnyOf builds a direct N-ary disjunction over ps, with the dual identity
// and single-element handling of AllOf.
func AnyOf[C any](ps ...Node[C]) Node[C] {
	switch len(ps) {
	case 0:
		return constLeaf[C]("any_of/empty", false)
	case 1:
		return ps[0]
	default:
		children := make([]Node[C], len(ps))
		copy(children, ps)
		return &Or[C]{Children: children}
	}
}
