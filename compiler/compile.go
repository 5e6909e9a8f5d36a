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

// Package compiler is the engine's second update pass: it takes the tree a
// linker produced, simplifies it (collapsing double negation), flattens
// homogeneous And/Or chains into single N-ary nodes, and wraps the result in
// a Tree that evaluates iteratively with no recursion-depth limit. Tree
// implements handle.Runner so it can be installed directly onto a Handle by
// the engine.
//
// Flattening never changes semantics, only shape: And(And(a,b),c) and
// And(a,b,c) evaluate identically, but the flattened form costs one fewer
// indirection per evaluation and is the N-ary shape a compiled tree is
// required to have.
package compiler

import (
	"github.com/Nagato-Yuzuru/predylogic/predicate"
)

// Tree is a compiled predicate tree: normalized (simplified + flattened) and
// ready for repeated fast or audit evaluation. It implements handle.Runner.
type Tree[C any] struct {
	root predicate.Node[C]
}

// Compile normalizes root and returns the compiled Tree.
func Compile[C any](root predicate.Node[C]) *Tree[C] {
	return &Tree[C]{root: normalize[C](root)}
}

// Root exposes the normalized tree, mainly for tests and introspection.
func (t *Tree[C]) Root() predicate.Node[C] { return t.root }

// normalize recursively collapses double negation and flattens nested
// And/Or chains of the same operator into one N-ary node.
func normalize[C any](node predicate.Node[C]) predicate.Node[C] {
	switch n := node.(type) {
	case *predicate.Not[C]:
		child := normalize[C](n.Child)
		if inner, ok := child.(*predicate.Not[C]); ok {
			return inner.Child
		}
		return &predicate.Not[C]{Child: child}

	case *predicate.And[C]:
		return &predicate.And[C]{Children: flattenChildren(n.Children, func(c predicate.Node[C]) ([]predicate.Node[C], bool) {
			a, ok := c.(*predicate.And[C])
			if !ok {
				return nil, false
			}
			return a.Children, true
		})}

	case *predicate.Or[C]:
		return &predicate.Or[C]{Children: flattenChildren(n.Children, func(c predicate.Node[C]) ([]predicate.Node[C], bool) {
			o, ok := c.(*predicate.Or[C])
			if !ok {
				return nil, false
			}
			return o.Children, true
		})}

	default:
		// Leaf and HandleRef have no substructure to normalize.
		return node
	}
}

// flattenChildren normalizes each child and, when a normalized child is
// itself the same kind of N-ary node (as reported by sameKind), splices its
// children in rather than nesting it one level deeper.
func flattenChildren[C any](children []predicate.Node[C], sameKind func(predicate.Node[C]) ([]predicate.Node[C], bool)) []predicate.Node[C] {
	out := make([]predicate.Node[C], 0, len(children))
	for _, child := range children {
		normalized := normalize[C](child)
		if grandchildren, ok := sameKind(normalized); ok {
			out = append(out, grandchildren...)
			continue
		}
		out = append(out, normalized)
	}
	return out
}
