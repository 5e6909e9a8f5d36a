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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManifestRoundTrip(t *testing.T) {
	m := Manifest{
		Registry: "payments",
		Rules: map[string]LogicNode{
			"eligible": {
				NodeType: NodeAnd,
				Rules: []LogicNode{
					{NodeType: NodeLeaf, Rule: &RuleConfig{RuleDefName: "amount_under", Params: map[string]any{"limit": float64(500)}}},
					{NodeType: NodeNot, Child: &LogicNode{NodeType: NodeRef, RefID: "blocked"}},
				},
			},
			"blocked": {
				NodeType: NodeOr,
				Rules: []LogicNode{
					{NodeType: NodeLeaf, Rule: &RuleConfig{RuleDefName: "is_sanctioned"}},
					{NodeType: NodeLeaf, Rule: &RuleConfig{RuleDefName: "is_flagged"}},
				},
			},
		},
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var got Manifest
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, m, got)
}

func TestLeafNodeRequiresRule(t *testing.T) {
	var n LogicNode
	err := json.Unmarshal([]byte(`{"node_type":"leaf"}`), &n)
	require.Error(t, err)
}

func TestAndOrNodeRequiresAtLeastTwoRules(t *testing.T) {
	var n LogicNode
	err := json.Unmarshal([]byte(`{"node_type":"and","rules":[{"node_type":"leaf","rule":{"rule_def_name":"x"}}]}`), &n)
	require.Error(t, err)
}

func TestRefNodeRequiresRefID(t *testing.T) {
	var n LogicNode
	err := json.Unmarshal([]byte(`{"node_type":"ref"}`), &n)
	require.Error(t, err)
}

func TestRuleConfigExtraParamsRoundTrip(t *testing.T) {
	rc := RuleConfig{RuleDefName: "amount_under", Params: map[string]any{"limit": float64(10), "currency": "usd"}}
	data, err := json.Marshal(rc)
	require.NoError(t, err)

	var got RuleConfig
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, rc, got)
}

func TestRuleConfigMissingNameRejected(t *testing.T) {
	var rc RuleConfig
	err := json.Unmarshal([]byte(`{"limit": 5}`), &rc)
	require.Error(t, err)
}
