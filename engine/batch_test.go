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

package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Nagato-Yuzuru/predylogic/manifest"
)

func TestBatchEvaluatorRunsAllItems(t *testing.T) {
	e := New[fixtureCtx](newFixtureManager(t), 16, time.Minute)
	m := manifest.Manifest{
		Registry: "checks",
		Rules: map[string]manifest.LogicNode{
			"rule-true":  {NodeType: manifest.NodeLeaf, Rule: &manifest.RuleConfig{RuleDefName: "always_true"}},
			"rule-false": {NodeType: manifest.NodeLeaf, Rule: &manifest.RuleConfig{RuleDefName: "always_false"}},
		},
	}
	require.NoError(t, e.UpdateManifests(context.Background(), m))

	batch, err := NewBatchEvaluator[fixtureCtx](4)
	require.NoError(t, err)
	defer batch.Close()

	items := []BatchItem[fixtureCtx]{
		{Handle: e.GetPredicateHandle("checks", "rule-true"), ShortCircuit: true},
		{Handle: e.GetPredicateHandle("checks", "rule-false"), ShortCircuit: true},
	}

	results, err := batch.EvalAll(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.True(t, results[0].Value)
	require.NoError(t, results[1].Err)
	require.False(t, results[1].Value)
}
