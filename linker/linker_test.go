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

package linker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Nagato-Yuzuru/predylogic/handle"
	"github.com/Nagato-Yuzuru/predylogic/manifest"
	"github.com/Nagato-Yuzuru/predylogic/predicate"
	"github.com/Nagato-Yuzuru/predylogic/registry"
	"github.com/Nagato-Yuzuru/predylogic/xerr"
)

type fixtureCtx struct{}

type fakeProvider[C any] struct {
	registry string
	handles  map[string]*handle.Handle[C]
}

func newFakeProvider[C any](registryName string) *fakeProvider[C] {
	return &fakeProvider[C]{registry: registryName, handles: make(map[string]*handle.Handle[C])}
}

func (p *fakeProvider[C]) GetOrCreate(ruleID string) *handle.Handle[C] {
	if h, ok := p.handles[ruleID]; ok {
		return h
	}
	h := handle.New[C](p.registry, ruleID)
	p.handles[ruleID] = h
	return h
}

func newFixtureRegistry(t *testing.T) *registry.Registry[fixtureCtx] {
	t.Helper()
	r, err := registry.New[fixtureCtx]("fixtures")
	require.NoError(t, err)
	_, err = r.Register("always_true", func(context.Context, fixtureCtx, map[string]any) (bool, error) {
		return true, nil
	}, nil, "")
	require.NoError(t, err)
	_, err = r.Register("always_false", func(context.Context, fixtureCtx, map[string]any) (bool, error) {
		return false, nil
	}, nil, "")
	require.NoError(t, err)
	return r
}

func TestLinkLeafAndAndOrNot(t *testing.T) {
	r := newFixtureRegistry(t)
	m := manifest.Manifest{
		Registry: "fixtures",
		Rules: map[string]manifest.LogicNode{
			"root": {
				NodeType: manifest.NodeAnd,
				Rules: []manifest.LogicNode{
					{NodeType: manifest.NodeLeaf, Rule: &manifest.RuleConfig{RuleDefName: "always_true"}},
					{NodeType: manifest.NodeNot, Child: &manifest.LogicNode{
						NodeType: manifest.NodeLeaf,
						Rule:     &manifest.RuleConfig{RuleDefName: "always_false"},
					}},
				},
			},
		},
	}

	out, err := Link(m, r, newFakeProvider[fixtureCtx]("fixtures"))
	require.NoError(t, err)
	require.Contains(t, out, "root")

	and, ok := out["root"].(*predicate.And[fixtureCtx])
	require.True(t, ok)
	require.Len(t, and.Children, 2)
	_, ok = and.Children[1].(*predicate.Not[fixtureCtx])
	require.True(t, ok)
}

func TestLinkUnknownRuleDef(t *testing.T) {
	r := newFixtureRegistry(t)
	m := manifest.Manifest{
		Registry: "fixtures",
		Rules: map[string]manifest.LogicNode{
			"root": {NodeType: manifest.NodeLeaf, Rule: &manifest.RuleConfig{RuleDefName: "no_such_rule"}},
		},
	}

	_, err := Link(m, r, newFakeProvider[fixtureCtx]("fixtures"))
	require.Error(t, err)
	require.ErrorAs(t, err, &xerr.UnknownRuleError{})
}

func TestLinkRefResolvesToSharedHandle(t *testing.T) {
	r := newFixtureRegistry(t)
	provider := newFakeProvider[fixtureCtx]("fixtures")
	m := manifest.Manifest{
		Registry: "fixtures",
		Rules: map[string]manifest.LogicNode{
			"a": {NodeType: manifest.NodeRef, RefID: "b"},
			"b": {NodeType: manifest.NodeLeaf, Rule: &manifest.RuleConfig{RuleDefName: "always_true"}},
		},
	}

	out, err := Link(m, r, provider)
	require.NoError(t, err)

	ref, ok := out["a"].(*predicate.HandleRef[fixtureCtx])
	require.True(t, ok)
	require.Equal(t, "b", ref.Handle.RuleID())
	require.Same(t, provider.handles["b"], ref.Handle)
}

func TestLinkDetectsDirectCycle(t *testing.T) {
	r := newFixtureRegistry(t)
	m := manifest.Manifest{
		Registry: "fixtures",
		Rules: map[string]manifest.LogicNode{
			"a": {NodeType: manifest.NodeRef, RefID: "b"},
			"b": {NodeType: manifest.NodeRef, RefID: "a"},
		},
	}

	_, err := Link(m, r, newFakeProvider[fixtureCtx]("fixtures"))
	require.Error(t, err)
	require.ErrorAs(t, err, &xerr.RuleCycleError{})
}

func TestLinkDetectsSelfReference(t *testing.T) {
	r := newFixtureRegistry(t)
	m := manifest.Manifest{
		Registry: "fixtures",
		Rules: map[string]manifest.LogicNode{
			"a": {NodeType: manifest.NodeRef, RefID: "a"},
		},
	}

	_, err := Link(m, r, newFakeProvider[fixtureCtx]("fixtures"))
	require.Error(t, err)
	require.ErrorAs(t, err, &xerr.RuleCycleError{})
}

func TestLinkAllowsRefToRuleOutsideManifest(t *testing.T) {
	r := newFixtureRegistry(t)
	provider := newFakeProvider[fixtureCtx]("fixtures")
	// "legacy" already has a handle from an earlier manifest generation, but
	// is not part of this manifest's Rules: this must not be treated as a
	// cycle candidate, and must resolve to the same persistent Handle.
	legacy := provider.GetOrCreate("legacy")

	m := manifest.Manifest{
		Registry: "fixtures",
		Rules: map[string]manifest.LogicNode{
			"a": {NodeType: manifest.NodeRef, RefID: "legacy"},
		},
	}

	out, err := Link(m, r, provider)
	require.NoError(t, err)
	ref, ok := out["a"].(*predicate.HandleRef[fixtureCtx])
	require.True(t, ok)
	require.Same(t, legacy, ref.Handle)
}
