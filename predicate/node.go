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

// Package predicate is the immutable predicate AST: Leaf, And, Or, Not, and
// HandleRef nodes, plus the combinators that build them. The tree is generic
// over the caller's context type C, so `Registry[C]`, `RuleEngine[C]`, and
// every predicate built against it are checked for context-type agreement at
// compile time rather than via a runtime type tag (see DESIGN.md for this
// design decision).
//
// Combinators are O(1): no validation beyond what Leaf construction already
// does, no slice copying beyond the unavoidable copy of a caller-supplied
// child list. `~~p` is not simplified here; that only happens during
// compilation (package compiler).
package predicate

import (
	"github.com/Nagato-Yuzuru/predylogic/handle"
)

// Node is any node in a predicate tree. The interface is sealed to the five
// concrete node types in this package via the unexported marker method.
type Node[C any] interface {
	isPredicateNode()
}

// Leaf binds a rule definition to concrete, schema-validated parameters.
type Leaf[C any] struct {
	Def    *RuleDef[C]
	Params map[string]any
}

func (*Leaf[C]) isPredicateNode() {}

// And is a conjunction. Binary construction (NewAnd) always has exactly two
// children; AllOf and the compiler's flattening pass may produce wider,
// N-ary And nodes.
type And[C any] struct {
	Children []Node[C]
}

func (*And[C]) isPredicateNode() {}

// Or is a disjunction, with the same binary-vs-N-ary shape as And.
type Or[C any] struct {
	Children []Node[C]
}

func (*Or[C]) isPredicateNode() {}

// Not negates its single child.
type Not[C any] struct {
	Child Node[C]
}

func (*Not[C]) isPredicateNode() {}

// HandleRef is the indirection node: evaluating it means dereferencing a
// live Handle and evaluating whatever compiled runner the engine currently
// has installed there. It is how a manifest `ref` node and a hot-reloaded
// rule both flow through the same AST shape.
type HandleRef[C any] struct {
	Handle *handle.Handle[C]
}

func (*HandleRef[C]) isPredicateNode() {}
