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

// Package manifest models the declarative, already-validated wire format: a
// mapping from rule id to a LogicNode tree, scoped to one named registry.
// Manifests arrive as already-parsed tree structures whose validation has
// ensured the rule_def_name discriminator is legal; this package supplies
// the Go types for that already-valid structure and the JSON decoding for
// the wire format. Beyond decoding the discriminated union it checks only
// per-node structure (and/or with at least two rules, leaf/not with their
// "rule" payload, ref with a ref_id); fuller schema validation is an
// out-of-scope collaborator's job.
package manifest

// NodeType discriminates a LogicNode.
type NodeType string

const (
	NodeLeaf NodeType = "leaf"
	NodeAnd  NodeType = "and"
	NodeOr   NodeType = "or"
	NodeNot  NodeType = "not"
	NodeRef  NodeType = "ref"
)

// RuleConfig is a leaf's rule invocation: which rule definition, bound to
// which concrete parameter values. Wire format discriminates on
// rule_def_name; unknown/missing params are a construction-time ParamError
// raised when the linker binds the Leaf, not here.
type RuleConfig struct {
	RuleDefName string
	Params      map[string]any
}

// LogicNode mirrors the predicate tree shape but with Ref{ref_id} instead of
// HandleRef, and named (unbound) RuleConfig instead of a resolved RuleDef.
type LogicNode struct {
	NodeType NodeType

	// Rule is set for NodeLeaf.
	Rule *RuleConfig

	// Rules holds the (>= 2) children of an "and" or "or" node.
	Rules []LogicNode

	// Child is set for NodeNot.
	Child *LogicNode

	// RefID is set for NodeRef.
	RefID string
}

// Manifest is one registry's declarative rule set: registry name plus a
// rule-id -> LogicNode map. It is an ephemeral input to the engine; only the
// resulting linked trees and compiled runners are retained.
type Manifest struct {
	Registry string
	Rules    map[string]LogicNode
}
