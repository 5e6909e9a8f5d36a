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

package manifest

import "github.com/google/uuid"

// Builder assembles a Manifest programmatically, for callers that construct
// LogicNode trees in Go rather than decoding them off the wire. It is a thin
// convenience over the Manifest/Rules map; Link never sees a Builder, only
// the Manifest it produces.
type Builder struct {
	registry string
	rules    map[string]LogicNode
}

// NewBuilder starts a Builder for the named registry.
func NewBuilder(registry string) *Builder {
	return &Builder{registry: registry, rules: make(map[string]LogicNode)}
}

// Add assigns node to ruleID, overwriting any prior node at that id.
func (b *Builder) Add(ruleID string, node LogicNode) *Builder {
	b.rules[ruleID] = node
	return b
}

// AddAnonymous assigns node to a synthesized rule id, for a tree with no
// caller-meaningful name of its own: a subexpression built in Go and handed
// straight to the engine, never referenced by a manifest Ref. The synthesized
// id is returned so the caller can still look the resulting Handle up later.
func (b *Builder) AddAnonymous(node LogicNode) string {
	id := "anon-" + uuid.NewString()
	b.rules[id] = node
	return id
}

// Build returns the assembled Manifest. The Builder remains usable
// afterwards; further Add/AddAnonymous calls affect the same backing map, so
// a later Manifest from the same Builder observes prior additions too.
func (b *Builder) Build() Manifest {
	return Manifest{Registry: b.registry, Rules: b.rules}
}
