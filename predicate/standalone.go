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

package predicate

import (
	"github.com/Nagato-Yuzuru/predylogic/param"
)

// Producer binds concrete params into a Leaf for one rule definition. It is
// the return shape of both Registry.Register and New: the latter builds a
// rule definition that no Registry ever indexes, for callers who just want a
// composable predicate over a raw Go callable without standing up a
// registry at all.
type Producer[C any] func(params map[string]any) (*Leaf[C], error)

// New builds a standalone rule definition, not owned by any Registry and never
// resolvable by name via a manifest ref, and returns a Producer for binding
// it to concrete params. The resulting Leaf composes with NewAnd, NewOr,
// NewNot, AllOf, and AnyOf exactly like a registry-backed one; only
// manifest-driven linking requires a Registry.
func New[C any](fn Func[C], name string, schema param.Schema) Producer[C] {
	def := &RuleDef[C]{Name: name, Fn: fn, Schema: schema}
	return func(params map[string]any) (*Leaf[C], error) {
		return NewLeaf(def, params)
	}
}
