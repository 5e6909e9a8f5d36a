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

// Package engine is the RuleEngine: the top-level object embedding a
// registry.Manager and the live Handle table, and the only thing in
// predylogic that mutates Handles. Updates are link-all-then-compile-all-
// then-swap-all, guarded by a single mutex so two concurrent
// UpdateManifests calls never interleave partial updates; readers never take
// that lock, since a Handle's own Eval/Audit is a single atomic-pointer
// load.
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/binaek/perch"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/Nagato-Yuzuru/predylogic/compiler"
	"github.com/Nagato-Yuzuru/predylogic/handle"
	"github.com/Nagato-Yuzuru/predylogic/linker"
	"github.com/Nagato-Yuzuru/predylogic/manifest"
	"github.com/Nagato-Yuzuru/predylogic/registry"
)

// compiledSet is one registry generation's compiled trees, keyed by rule id.
type compiledSet[C any] map[string]*compiler.Tree[C]

// RuleEngine ties a registry.Manager to the live Handle table and drives
// manifest updates against it.
type RuleEngine[C any] struct {
	manager *registry.Manager[C]

	updateMu sync.Mutex

	handlesMu sync.RWMutex
	handles   map[string]map[string]*handle.Handle[C] // registry -> rule id -> handle

	// cache memoizes the (link, compile) result for a (registry, manifest
	// fingerprint) pair, so re-submitting an unchanged manifest within ttl
	// skips redundant relinking. Fingerprinting uses hashstructure so the
	// cache key reflects the manifest's structural content, not its
	// allocation identity.
	cache    *perch.Perch[compiledSet[C]]
	cacheTTL time.Duration
}

// New creates a RuleEngine over manager. cacheCapacity bounds the number of
// distinct (registry, fingerprint) link results retained; cacheTTL bounds how
// long a memoized result is reused before a resubmission is relinked anyway.
func New[C any](manager *registry.Manager[C], cacheCapacity int, cacheTTL time.Duration) *RuleEngine[C] {
	return &RuleEngine[C]{
		manager:  manager,
		handles:  make(map[string]map[string]*handle.Handle[C]),
		cache:    perch.New[compiledSet[C]](cacheCapacity),
		cacheTTL: cacheTTL,
	}
}

// GetPredicateHandle returns the persistent Handle for (registryName,
// ruleID), creating a tombstoned one on first reference. The same *Handle is
// returned for the life of the engine, double-checked against the read lock
// so the common (already-created) case never takes the write lock.
func (e *RuleEngine[C]) GetPredicateHandle(registryName, ruleID string) *handle.Handle[C] {
	e.handlesMu.RLock()
	if reg, ok := e.handles[registryName]; ok {
		if h, ok := reg[ruleID]; ok {
			e.handlesMu.RUnlock()
			return h
		}
	}
	e.handlesMu.RUnlock()

	e.handlesMu.Lock()
	defer e.handlesMu.Unlock()
	reg, ok := e.handles[registryName]
	if !ok {
		reg = make(map[string]*handle.Handle[C])
		e.handles[registryName] = reg
	}
	if h, ok := reg[ruleID]; ok {
		return h
	}
	h := handle.New[C](registryName, ruleID)
	reg[ruleID] = h
	return h
}

// Handles returns every handle known for registryName, for introspection.
func (e *RuleEngine[C]) Handles(registryName string) []*handle.Handle[C] {
	e.handlesMu.RLock()
	defer e.handlesMu.RUnlock()
	reg := e.handles[registryName]
	out := make([]*handle.Handle[C], 0, len(reg))
	for _, h := range reg {
		out = append(out, h)
	}
	return out
}

// RegistryStats is one registry's handle-table snapshot: how many of its
// handles currently resolve to a compiled runner versus sit tombstoned.
type RegistryStats struct {
	Registry  string
	Live      int
	Tombstone int
}

// Stats reports a handle-table snapshot per registry the engine has ever
// seen a handle requested for, sorted by registry name. It is read-only and
// takes the same read lock GetPredicateHandle's fast path does; any
// production embedding wants this for a health check without reaching into
// the engine's internals.
func (e *RuleEngine[C]) Stats() []RegistryStats {
	e.handlesMu.RLock()
	defer e.handlesMu.RUnlock()

	out := make([]RegistryStats, 0, len(e.handles))
	for name, reg := range e.handles {
		s := RegistryStats{Registry: name}
		for _, h := range reg {
			if h.Tombstoned() {
				s.Tombstone++
			} else {
				s.Live++
			}
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Registry < out[j].Registry })
	return out
}

// handleProviderFor adapts the engine's handle table to linker.HandleProvider
// for a single registry.
type handleProviderFor[C any] struct {
	engine   *RuleEngine[C]
	registry string
}

func (p handleProviderFor[C]) GetOrCreate(ruleID string) *handle.Handle[C] {
	return p.engine.GetPredicateHandle(p.registry, ruleID)
}

// UpdateManifests links and compiles every manifest, then installs the
// results onto the corresponding Handles. Linking and compiling happen for
// all manifests before any Handle is swapped: a failure linking the third
// manifest leaves the first two handles exactly as they were, never
// partially updated.
func (e *RuleEngine[C]) UpdateManifests(ctx context.Context, manifests ...manifest.Manifest) error {
	e.updateMu.Lock()
	defer e.updateMu.Unlock()

	type plan struct {
		registryName string
		trees        compiledSet[C]
	}
	plans := make([]plan, 0, len(manifests))

	for _, m := range manifests {
		reg, err := e.manager.Get(m.Registry)
		if err != nil {
			return err
		}

		fingerprint, err := hashstructure.Hash(m, hashstructure.FormatV2, nil)
		if err != nil {
			return err
		}
		key := fmt.Sprintf("%s:%x", m.Registry, fingerprint)
		provider := handleProviderFor[C]{engine: e, registry: m.Registry}

		trees, _, err := e.cache.Get(ctx, key, e.cacheTTL, func(ctx context.Context, _ string) (compiledSet[C], error) {
			linked, err := linker.Link(m, reg, provider)
			if err != nil {
				return nil, err
			}
			out := make(compiledSet[C], len(linked))
			for ruleID, node := range linked {
				out[ruleID] = compiler.Compile[C](node)
			}
			return out, nil
		})
		if err != nil {
			return err
		}
		plans = append(plans, plan{registryName: m.Registry, trees: trees})
	}

	// All manifests linked and compiled successfully: swap handles in
	// deterministic (registry, then sorted rule id) order.
	for _, p := range plans {
		ids := make([]string, 0, len(p.trees))
		for id := range p.trees {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			e.GetPredicateHandle(p.registryName, id).Swap(p.trees[id])
		}
	}
	return nil
}
