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

// Package linker turns a manifest.Manifest into a predicate tree per rule id,
// resolving "rule_def_name" against a registry.Registry and "ref_id" against
// a HandleProvider. It is the first of the engine's two update passes (link,
// then compile); the second pass lives in package compiler.
//
// Refs are intra-registry only: a manifest may reference a rule id defined
// elsewhere in the same manifest, or one already linked for this registry by
// an earlier manifest generation, but never a rule id belonging to another
// registry. predylogic disallows cross-registry refs so a Handle's identity
// (and the cycle-detection graph below) never has to cross a registry
// boundary. See DESIGN.md.
//
// Cycle detection is built on package dag's rule-id graph, with ref edges as
// the graph's edges.
package linker

import (
	"fmt"

	"github.com/Nagato-Yuzuru/predylogic/dag"
	"github.com/Nagato-Yuzuru/predylogic/handle"
	"github.com/Nagato-Yuzuru/predylogic/manifest"
	"github.com/Nagato-Yuzuru/predylogic/predicate"
	"github.com/Nagato-Yuzuru/predylogic/registry"
	"github.com/Nagato-Yuzuru/predylogic/xerr"
)

// HandleProvider resolves a ref_id to the persistent Handle for that rule id
// within one registry, creating a tombstoned one on first reference. The
// engine supplies this, backed by its own (registry, ruleID) -> *Handle map,
// so a Handle's identity survives across manifest generations.
type HandleProvider[C any] interface {
	GetOrCreate(ruleID string) *handle.Handle[C]
}

// Link resolves every rule in m against reg and handles, returning the
// resulting predicate tree per rule id. It fails fast on the first unknown
// rule definition, unresolvable structural invariant, or reference cycle;
// partial results are never returned.
func Link[C any](m manifest.Manifest, reg *registry.Registry[C], handles HandleProvider[C]) (map[string]predicate.Node[C], error) {
	if err := detectCycles(m); err != nil {
		return nil, err
	}

	out := make(map[string]predicate.Node[C], len(m.Rules))
	for ruleID, node := range m.Rules {
		tree, err := linkNode(node, reg, handles)
		if err != nil {
			return nil, err
		}
		out[ruleID] = tree
	}
	return out, nil
}

// detectCycles builds a graph over the rule ids defined in m, with an edge
// ruleID -> refID for every ref reachable from ruleID's tree whose target is
// also defined in m. Refs resolving outside the manifest (a rule id linked by
// a prior generation, or one not linked yet) are not added as edges, and the
// refs of rules linked by earlier generations are not consulted, so a cycle
// that closes only through a rule outside m is not detected here.
func detectCycles(m manifest.Manifest) error {
	g := dag.New()
	for ruleID := range m.Rules {
		g.AddRule(ruleID)
	}
	for ruleID, node := range m.Rules {
		for _, refID := range collectRefs(node) {
			if _, ok := m.Rules[refID]; !ok {
				continue
			}
			if err := g.AddRef(ruleID, refID); err != nil {
				return xerr.ErrRuleCycle([]string{ruleID, refID})
			}
		}
	}
	if cycle := g.Cycle(); len(cycle) > 0 {
		return xerr.ErrRuleCycle(cycle)
	}
	return nil
}

// collectRefs walks node's tree and returns every ref_id it directly or
// transitively contains, in traversal order, duplicates allowed.
func collectRefs(node manifest.LogicNode) []string {
	var refs []string
	switch node.NodeType {
	case manifest.NodeRef:
		refs = append(refs, node.RefID)
	case manifest.NodeNot:
		if node.Child != nil {
			refs = append(refs, collectRefs(*node.Child)...)
		}
	case manifest.NodeAnd, manifest.NodeOr:
		for _, child := range node.Rules {
			refs = append(refs, collectRefs(child)...)
		}
	}
	return refs
}

// linkNode translates one manifest LogicNode into a predicate tree,
// resolving rule definitions against reg and refs against handles.
func linkNode[C any](node manifest.LogicNode, reg *registry.Registry[C], handles HandleProvider[C]) (predicate.Node[C], error) {
	switch node.NodeType {
	case manifest.NodeLeaf:
		if node.Rule == nil {
			return nil, xerr.ErrManifestValidation("leaf node missing rule")
		}
		def, err := reg.Get(node.Rule.RuleDefName)
		if err != nil {
			return nil, err
		}
		return predicate.NewLeaf(def, node.Rule.Params)

	case manifest.NodeAnd:
		children, err := linkChildren(node.Rules, reg, handles)
		if err != nil {
			return nil, err
		}
		return predicate.AllOf(children...), nil

	case manifest.NodeOr:
		children, err := linkChildren(node.Rules, reg, handles)
		if err != nil {
			return nil, err
		}
		return predicate.AnyOf(children...), nil

	case manifest.NodeNot:
		if node.Child == nil {
			return nil, xerr.ErrManifestValidation("not node missing rule")
		}
		child, err := linkNode(*node.Child, reg, handles)
		if err != nil {
			return nil, err
		}
		return predicate.NewNot[C](child), nil

	case manifest.NodeRef:
		if node.RefID == "" {
			return nil, xerr.ErrManifestValidation("ref node missing ref_id")
		}
		return &predicate.HandleRef[C]{Handle: handles.GetOrCreate(node.RefID)}, nil

	default:
		return nil, xerr.ErrManifestValidation(fmt.Sprintf("unknown node_type: %s", node.NodeType))
	}
}

func linkChildren[C any](nodes []manifest.LogicNode, reg *registry.Registry[C], handles HandleProvider[C]) ([]predicate.Node[C], error) {
	out := make([]predicate.Node[C], 0, len(nodes))
	for _, n := range nodes {
		child, err := linkNode(n, reg, handles)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}
