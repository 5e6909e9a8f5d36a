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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderAddAssignsGivenID(t *testing.T) {
	b := NewBuilder("payments")
	b.Add("eligible", LogicNode{NodeType: NodeLeaf, Rule: &RuleConfig{RuleDefName: "amount_under"}})

	m := b.Build()
	require.Equal(t, "payments", m.Registry)
	require.Contains(t, m.Rules, "eligible")
}

func TestBuilderAddAnonymousSynthesizesUniqueIDs(t *testing.T) {
	b := NewBuilder("payments")
	node := LogicNode{NodeType: NodeLeaf, Rule: &RuleConfig{RuleDefName: "amount_under"}}

	id1 := b.AddAnonymous(node)
	id2 := b.AddAnonymous(node)
	require.NotEqual(t, id1, id2)

	m := b.Build()
	require.Contains(t, m.Rules, id1)
	require.Contains(t, m.Rules, id2)
	require.Len(t, m.Rules, 2)
}
