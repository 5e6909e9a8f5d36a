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

package registry

import (
	"sync"

	"github.com/Nagato-Yuzuru/predylogic/xerr"
)

// Manager maps registry name to Registry: the sole resolution surface the
// engine uses to look up a named registry before linking a manifest.
type Manager[C any] struct {
	mu         sync.RWMutex
	registries map[string]*Registry[C]
}

// NewManager creates an empty RegistryManager.
func NewManager[C any]() *Manager[C] {
	return &Manager[C]{registries: make(map[string]*Registry[C])}
}

// Add registers r under its own name. Fails with DuplicateRegistry if a
// registry of that name already exists.
func (m *Manager[C]) Add(r *Registry[C]) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.registries[r.Name()]; exists {
		return xerr.ErrDuplicateRegistry(r.Name())
	}
	m.registries[r.Name()] = r
	return nil
}

// Get returns the named registry, or UnknownRegistry.
func (m *Manager[C]) Get(name string) (*Registry[C], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.registries[name]
	if !ok {
		return nil, xerr.ErrUnknownRegistry(name)
	}
	return r, nil
}

// Names returns the registered registry names, unordered.
func (m *Manager[C]) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.registries))
	for name := range m.registries {
		out = append(out, name)
	}
	return out
}
