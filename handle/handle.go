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

// Package handle implements the stable indirection layer that gives callers
// a hot-reloadable reference to a rule: a Handle's identity never changes for
// the life of the engine, but the compiled Runner it points at is swapped
// atomically whenever the owning registry is updated. This is the engine's
// only supported hot-reload mechanism (see DESIGN.md).
//
// Package handle intentionally has no dependency on the predicate or
// compiler packages: Runner is a small interface defined here, implemented
// by compiler.Tree, so both predicate.HandleRef and compiler can depend on
// handle without a dependency cycle.
package handle

import (
	"context"
	"sync/atomic"

	"github.com/Nagato-Yuzuru/predylogic/trace"
	"github.com/Nagato-Yuzuru/predylogic/xerr"
)

// Runner is the compiled, executable form of a predicate tree, as produced
// by the compiler. A Handle's inner pointer is always either nil (tombstone)
// or a Runner.
type Runner[C any] interface {
	Eval(ctx context.Context, c C, shortCircuit bool) (bool, error)
	Audit(ctx context.Context, c C, shortCircuit bool) (*trace.Node, error)
}

// Handle is a stable, mutable indirection whose inner value is the currently
// installed compiled Runner for one (registry, rule id) pair. Invoking a
// tombstoned Handle (inner == nil) fails with UnresolvedRule. Once a Runner
// is installed the Handle stays live: later Swaps replace the Runner, and
// nothing returns a Handle to the tombstoned state.
type Handle[C any] struct {
	registry string
	ruleID   string
	inner    atomic.Pointer[Runner[C]]
}

// New creates a tombstoned handle for (registry, ruleID). Engines should
// call this at most once per (registry, ruleID) pair; see
// engine.RuleEngine.GetPredicateHandle for the double-checked-locking
// discipline that enforces that.
func New[C any](registry, ruleID string) *Handle[C] {
	return &Handle[C]{registry: registry, ruleID: ruleID}
}

// Registry returns the owning registry name.
func (h *Handle[C]) Registry() string { return h.registry }

// RuleID returns the rule id this handle was created for.
func (h *Handle[C]) RuleID() string { return h.ruleID }

// Tombstoned reports whether the handle currently has no compiled runner
// installed.
func (h *Handle[C]) Tombstoned() bool {
	return h.inner.Load() == nil
}

// Swap installs a new compiled Runner as this handle's current target. It is
// the only mutator of a Handle's inner pointer and is meant to be called by
// the engine under its update lock; readers never take a lock to observe the
// result (single atomic-pointer load).
func (h *Handle[C]) Swap(r Runner[C]) {
	h.inner.Store(&r)
}

// Eval evaluates the handle's current compiled runner in fast mode.
func (h *Handle[C]) Eval(ctx context.Context, c C, shortCircuit bool) (bool, error) {
	r := h.inner.Load()
	if r == nil {
		return false, xerr.ErrUnresolvedRule(h.registry, h.ruleID)
	}
	return (*r).Eval(ctx, c, shortCircuit)
}

// Audit evaluates the handle's current compiled runner in audit mode,
// producing a trace tree alongside the boolean result captured in the
// tree's Success field.
func (h *Handle[C]) Audit(ctx context.Context, c C, shortCircuit bool) (*trace.Node, error) {
	r := h.inner.Load()
	if r == nil {
		return nil, xerr.ErrUnresolvedRule(h.registry, h.ruleID)
	}
	return (*r).Audit(ctx, c, shortCircuit)
}
