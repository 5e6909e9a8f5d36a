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

// Package registry holds the named collections of rule definitions the
// linker resolves manifests against: an ordered, append-only map guarded by
// a mutex, duplicate names rejected at registration rather than silently
// overwritten.
package registry

import (
	"sync"

	"github.com/Nagato-Yuzuru/predylogic/param"
	"github.com/Nagato-Yuzuru/predylogic/predicate"
	"github.com/Nagato-Yuzuru/predylogic/xerr"
)

// Registry is a named collection of rule definitions for one context type C.
// It monotonically accumulates definitions: there is no removal once the
// engine built on top of it is live.
type Registry[C any] struct {
	name string

	mu    sync.RWMutex
	defs  map[string]*predicate.RuleDef[C]
	order []string
}

// New creates an empty registry. name must be non-empty.
func New[C any](name string) (*Registry[C], error) {
	if name == "" {
		return nil, xerr.ErrInvalidName(name, "registry name must not be empty")
	}
	return &Registry[C]{
		name: name,
		defs: make(map[string]*predicate.RuleDef[C]),
	}, nil
}

// Name returns the registry's name.
func (r *Registry[C]) Name() string { return r.name }

// Producer builds a Leaf bound to a rule definition for concrete params.
type Producer[C any] func(params map[string]any) (*predicate.Leaf[C], error)

// reserved holds the rule-def names the engine synthesizes for itself
// (predicate.AllOf/AnyOf's identity leaves for a zero-child call); a real
// registration under one of these names would be indistinguishable from the
// engine's own internal constant in an audit trace.
var reserved = map[string]struct{}{
	"all_of/empty": {},
	"any_of/empty": {},
}

// Register records fn under name with the given parameter schema, and
// returns a Producer that, when called with concrete params, returns a Leaf
// bound to this rule def. Duplicate, empty, and reserved names are rejected.
func (r *Registry[C]) Register(name string, fn predicate.Func[C], schema param.Schema, doc string) (Producer[C], error) {
	if name == "" {
		return nil, xerr.ErrInvalidName(name, "rule name must not be empty")
	}
	if _, ok := reserved[name]; ok {
		return nil, xerr.ErrInvalidName(name, "rule name is reserved")
	}

	r.mu.Lock()
	if _, exists := r.defs[name]; exists {
		r.mu.Unlock()
		return nil, xerr.ErrDuplicateRule(r.name, name)
	}
	def := &predicate.RuleDef[C]{Name: name, Fn: fn, Schema: schema, Doc: doc}
	r.defs[name] = def
	r.order = append(r.order, name)
	r.mu.Unlock()

	return func(params map[string]any) (*predicate.Leaf[C], error) {
		return predicate.NewLeaf(def, params)
	}, nil
}

// Get returns the named rule definition, or UnknownRule.
func (r *Registry[C]) Get(name string) (*predicate.RuleDef[C], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	if !ok {
		return nil, xerr.ErrUnknownRule(r.name, name)
	}
	return def, nil
}

// Contains reports whether name is registered.
func (r *Registry[C]) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[name]
	return ok
}

// All iterates registered rule definitions in stable registration order.
func (r *Registry[C]) All() []*predicate.RuleDef[C] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*predicate.RuleDef[C], 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}
