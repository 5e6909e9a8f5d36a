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
	"github.com/Nagato-Yuzuru/predylogic/trace"
)

// auditFrame mirrors evalFrame but also accumulates the trace children of
// the node it represents.
type auditFrame[C any] struct {
	and      bool
	not      bool
	children []predicate.Node[C]
	idx      int
	acc      bool
	traced   []*trace.Node
	node     *trace.Node
	done     trace.DoneFn
}

// Audit evaluates the compiled tree in audit mode, producing a trace.Node
// tree alongside the same boolean result Eval would return. A HandleRef's
// inner trace is inlined and relabeled with the referenced rule id.
func (t *Tree[C]) Audit(ctx context.Context, c C, shortCircuit bool) (*trace.Node, error) {
	var stack []*auditFrame[C]
	current := t.root
	var pending *trace.Node
	havePending := false

	for {
		if !havePending {
			switch n := current.(type) {
			case *predicate.Leaf[C]:
				tn, done := trace.New("leaf", n.Label())
				v, err := n.Def.Fn(ctx, c, n.Params)
				done()
				if err != nil {
					tn.SetErr(err)
					return tn, err
				}
				tn.SetSuccess(v)
				pending, havePending = tn, true

			case *predicate.HandleRef[C]:
				inner, err := n.Handle.Audit(ctx, c, shortCircuit)
				if err != nil {
					return inner, err
				}
				inner.Label = n.Handle.RuleID()
				pending, havePending = inner, true

			case *predicate.Not[C]:
				f := &auditFrame[C]{not: true}
				f.node, f.done = trace.New("not", "")
				stack = append(stack, f)
				current = n.Child
				continue

			case *predicate.And[C]:
				f := &auditFrame[C]{and: true, children: n.Children, acc: true}
				f.node, f.done = trace.New("and", "")
				stack = append(stack, f)
				current = f.children[0]
				continue

			case *predicate.Or[C]:
				f := &auditFrame[C]{and: false, children: n.Children, acc: false}
				f.node, f.done = trace.New("or", "")
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
			top.done()
			top.node.Attach(pending)
			top.node.SetSuccess(!pending.BoolResult())
			stack = stack[:len(stack)-1]
			pending, havePending = top.node, true
			continue
		}

		top.traced = append(top.traced, pending)
		result := pending.BoolResult()
		if top.and {
			top.acc = top.acc && result
		} else {
			top.acc = top.acc || result
		}
		top.idx++

		if shortCircuit && ((top.and && !top.acc) || (!top.and && top.acc)) {
			for ; top.idx < len(top.children); top.idx++ {
				top.traced = append(top.traced, skippedNode[C](top.children[top.idx]))
			}
		}

		if top.idx >= len(top.children) {
			top.done()
			top.node.Attach(top.traced...)
			top.node.SetSuccess(top.acc)
			stack = stack[:len(stack)-1]
			pending, havePending = top.node, true
			continue
		}

		current = top.children[top.idx]
		havePending = false
	}
}

// skippedNode builds the placeholder trace.Node for a sibling a
// short-circuiting parent never reached. It introspects the node's shape
// without evaluating it, so a skipped leaf or ref still shows a meaningful
// label in the trace tree.
func skippedNode[C any](n predicate.Node[C]) *trace.Node {
	var operator, label string
	switch v := n.(type) {
	case *predicate.Leaf[C]:
		operator, label = "leaf", v.Label()
	case *predicate.HandleRef[C]:
		operator, label = "ref", v.Handle.RuleID()
	case *predicate.And[C]:
		operator = "and"
	case *predicate.Or[C]:
		operator = "or"
	case *predicate.Not[C]:
		operator = "not"
	}
	tn := &trace.Node{Operator: operator, Label: label}
	return tn.SetSkipped()
}
