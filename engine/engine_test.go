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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Nagato-Yuzuru/predylogic/manifest"
	"github.com/Nagato-Yuzuru/predylogic/param"
	"github.com/Nagato-Yuzuru/predylogic/registry"
)

type fixtureCtx struct{}

func newFixtureManager(t *testing.T) *registry.Manager[fixtureCtx] {
	t.Helper()
	mgr := registry.NewManager[fixtureCtx]()

	r, err := registry.New[fixtureCtx]("checks")
	require.NoError(t, err)
	_, err = r.Register("always_true", func(context.Context, fixtureCtx, map[string]any) (bool, error) {
		return true, nil
	}, nil, "")
	require.NoError(t, err)
	_, err = r.Register("always_false", func(context.Context, fixtureCtx, map[string]any) (bool, error) {
		return false, nil
	}, nil, "")
	require.NoError(t, err)

	require.NoError(t, mgr.Add(r))
	return mgr
}

func TestGetPredicateHandleIsStableAcrossCalls(t *testing.T) {
	e := New[fixtureCtx](newFixtureManager(t), 16, time.Minute)

	h1 := e.GetPredicateHandle("checks", "rule-1")
	h2 := e.GetPredicateHandle("checks", "rule-1")
	require.Same(t, h1, h2)
	require.True(t, h1.Tombstoned())
}

func TestUpdateManifestsSwapsHandleAndKeepsItsIdentity(t *testing.T) {
	e := New[fixtureCtx](newFixtureManager(t), 16, time.Minute)

	h := e.GetPredicateHandle("checks", "rule-1")
	require.True(t, h.Tombstoned())

	m := manifest.Manifest{
		Registry: "checks",
		Rules: map[string]manifest.LogicNode{
			"rule-1": {NodeType: manifest.NodeLeaf, Rule: &manifest.RuleConfig{RuleDefName: "always_true"}},
		},
	}
	require.NoError(t, e.UpdateManifests(context.Background(), m))

	require.False(t, h.Tombstoned(), "the handle obtained before linking must be the one that gets resolved")
	v, err := h.Eval(context.Background(), fixtureCtx{}, true)
	require.NoError(t, err)
	require.True(t, v)

	// A second, distinct manifest generation swaps the same Handle again.
	m2 := manifest.Manifest{
		Registry: "checks",
		Rules: map[string]manifest.LogicNode{
			"rule-1": {NodeType: manifest.NodeLeaf, Rule: &manifest.RuleConfig{RuleDefName: "always_false"}},
		},
	}
	require.NoError(t, e.UpdateManifests(context.Background(), m2))
	v, err = h.Eval(context.Background(), fixtureCtx{}, true)
	require.NoError(t, err)
	require.False(t, v)
}

func TestUpdateManifestsRejectsUnknownRegistryWithoutPartialCommit(t *testing.T) {
	e := New[fixtureCtx](newFixtureManager(t), 16, time.Minute)

	good := manifest.Manifest{
		Registry: "checks",
		Rules: map[string]manifest.LogicNode{
			"rule-1": {NodeType: manifest.NodeLeaf, Rule: &manifest.RuleConfig{RuleDefName: "always_true"}},
		},
	}
	bad := manifest.Manifest{
		Registry: "does-not-exist",
		Rules: map[string]manifest.LogicNode{
			"rule-2": {NodeType: manifest.NodeLeaf, Rule: &manifest.RuleConfig{RuleDefName: "always_true"}},
		},
	}

	err := e.UpdateManifests(context.Background(), good, bad)
	require.Error(t, err)

	h := e.GetPredicateHandle("checks", "rule-1")
	require.True(t, h.Tombstoned(), "no handle should be swapped when any manifest in the batch fails to link")
}

func TestRegistriesAreIsolated(t *testing.T) {
	mgr := newFixtureManager(t)
	other, err := registry.New[fixtureCtx]("other")
	require.NoError(t, err)
	require.NoError(t, mgr.Add(other))

	e := New[fixtureCtx](mgr, 16, time.Minute)

	m := manifest.Manifest{
		Registry: "checks",
		Rules: map[string]manifest.LogicNode{
			"rule-1": {NodeType: manifest.NodeLeaf, Rule: &manifest.RuleConfig{RuleDefName: "always_true"}},
		},
	}
	require.NoError(t, e.UpdateManifests(context.Background(), m))

	// The same rule id in a different registry must remain unresolved: refs
	// and handles never cross a registry boundary.
	h := e.GetPredicateHandle("other", "rule-1")
	require.True(t, h.Tombstoned())
}

func TestStatsReportsLiveAndTombstonedHandles(t *testing.T) {
	e := New[fixtureCtx](newFixtureManager(t), 16, time.Minute)

	_ = e.GetPredicateHandle("checks", "rule-1")
	_ = e.GetPredicateHandle("checks", "rule-2")

	m := manifest.Manifest{
		Registry: "checks",
		Rules: map[string]manifest.LogicNode{
			"rule-1": {NodeType: manifest.NodeLeaf, Rule: &manifest.RuleConfig{RuleDefName: "always_true"}},
		},
	}
	require.NoError(t, e.UpdateManifests(context.Background(), m))

	stats := e.Stats()
	require.Len(t, stats, 1)
	require.Equal(t, "checks", stats[0].Registry)
	require.Equal(t, 1, stats[0].Live)
	require.Equal(t, 1, stats[0].Tombstone)
	require.Len(t, e.Handles("checks"), 2)
}

func TestConcurrentGetPredicateHandleReturnsSameInstance(t *testing.T) {
	e := New[fixtureCtx](newFixtureManager(t), 16, time.Minute)

	const goroutines = 32
	var wg sync.WaitGroup
	handles := make([]interface{}, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = e.GetPredicateHandle("checks", "shared-rule")
		}(i)
	}
	wg.Wait()

	first := handles[0]
	for _, h := range handles {
		require.Same(t, first, h)
	}
}

func TestRefRedefinitionFlowsThroughDependentRules(t *testing.T) {
	mgr := registry.NewManager[fixtureCtx]()
	r, err := registry.New[fixtureCtx]("checks")
	require.NoError(t, err)
	threshold := 22
	_, err = r.Register("age_at_least", func(_ context.Context, _ fixtureCtx, params map[string]any) (bool, error) {
		return threshold >= params["min_age"].(int), nil
	}, param.Schema{{Name: "min_age", Type: param.Int}}, "")
	require.NoError(t, err)
	require.NoError(t, mgr.Add(r))

	e := New[fixtureCtx](mgr, 16, time.Minute)

	leaf := func(minAge int) manifest.LogicNode {
		return manifest.LogicNode{
			NodeType: manifest.NodeLeaf,
			Rule:     &manifest.RuleConfig{RuleDefName: "age_at_least", Params: map[string]any{"min_age": minAge}},
		}
	}
	m := manifest.Manifest{
		Registry: "checks",
		Rules: map[string]manifest.LogicNode{
			"a": leaf(21),
			"b": {NodeType: manifest.NodeRef, RefID: "a"},
			"c": {NodeType: manifest.NodeAnd, Rules: []manifest.LogicNode{
				{NodeType: manifest.NodeRef, RefID: "a"},
				{NodeType: manifest.NodeRef, RefID: "b"},
			}},
		},
	}
	require.NoError(t, e.UpdateManifests(context.Background(), m))

	hc := e.GetPredicateHandle("checks", "c")
	v, err := hc.Eval(context.Background(), fixtureCtx{}, true)
	require.NoError(t, err)
	require.True(t, v)

	// Redefine only "a"; "b" and "c" must observe the new definition through
	// the shared handle without themselves being relinked.
	m2 := manifest.Manifest{
		Registry: "checks",
		Rules:    map[string]manifest.LogicNode{"a": leaf(25)},
	}
	require.NoError(t, e.UpdateManifests(context.Background(), m2))

	require.Same(t, hc, e.GetPredicateHandle("checks", "c"))
	v, err = hc.Eval(context.Background(), fixtureCtx{}, true)
	require.NoError(t, err)
	require.False(t, v)
}

func TestTombstoneHandleResolvesAfterLaterUpdate(t *testing.T) {
	e := New[fixtureCtx](newFixtureManager(t), 16, time.Minute)

	h := e.GetPredicateHandle("checks", "missing")
	_, err := h.Eval(context.Background(), fixtureCtx{}, true)
	require.Error(t, err)

	m := manifest.Manifest{
		Registry: "checks",
		Rules: map[string]manifest.LogicNode{
			"missing": {NodeType: manifest.NodeLeaf, Rule: &manifest.RuleConfig{RuleDefName: "always_true"}},
		},
	}
	require.NoError(t, e.UpdateManifests(context.Background(), m))

	v, err := h.Eval(context.Background(), fixtureCtx{}, true)
	require.NoError(t, err)
	require.True(t, v, "the handle obtained while tombstoned must resolve after the update, without being re-fetched")
}
