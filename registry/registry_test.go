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
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Nagato-Yuzuru/predylogic/param"
	"github.com/Nagato-Yuzuru/predylogic/xerr"
)

type fixtureCtx struct{}

func alwaysTrue(_ context.Context, _ fixtureCtx, _ map[string]any) (bool, error) {
	return true, nil
}

func TestNewRejectsEmptyName(t *testing.T) {
	_, err := New[fixtureCtx]("")
	require.Error(t, err)
	require.IsType(t, xerr.InvalidNameError{}, errorsCause(err))
}

func TestRegisterAndGet(t *testing.T) {
	r, err := New[fixtureCtx]("checks")
	require.NoError(t, err)

	produce, err := r.Register("always_true", alwaysTrue, nil, "")
	require.NoError(t, err)
	require.True(t, r.Contains("always_true"))

	leaf, err := produce(nil)
	require.NoError(t, err)
	require.NotNil(t, leaf)

	def, err := r.Get("always_true")
	require.NoError(t, err)
	require.Equal(t, "always_true", def.Name)
}

func TestRegisterRejectsDuplicateAndEmptyName(t *testing.T) {
	r, err := New[fixtureCtx]("checks")
	require.NoError(t, err)

	_, err = r.Register("dup", alwaysTrue, nil, "")
	require.NoError(t, err)

	_, err = r.Register("dup", alwaysTrue, nil, "")
	require.Error(t, err)
	require.IsType(t, xerr.DuplicateRuleError{}, errorsCause(err))

	_, err = r.Register("", alwaysTrue, nil, "")
	require.Error(t, err)
}

func TestGetUnknownRule(t *testing.T) {
	r, err := New[fixtureCtx]("checks")
	require.NoError(t, err)

	_, err = r.Get("missing")
	require.Error(t, err)
	require.IsType(t, xerr.UnknownRuleError{}, errorsCause(err))
}

func TestAllPreservesRegistrationOrder(t *testing.T) {
	r, err := New[fixtureCtx]("checks")
	require.NoError(t, err)

	for _, name := range []string{"c", "a", "b"} {
		_, err := r.Register(name, alwaysTrue, param.Schema{}, "")
		require.NoError(t, err)
	}

	all := r.All()
	require.Len(t, all, 3)
	require.Equal(t, []string{"c", "a", "b"}, []string{all[0].Name, all[1].Name, all[2].Name})
}

func TestManagerAddGetNames(t *testing.T) {
	m := NewManager[fixtureCtx]()

	r, err := New[fixtureCtx]("checks")
	require.NoError(t, err)
	require.NoError(t, m.Add(r))

	err = m.Add(r)
	require.Error(t, err)
	require.IsType(t, xerr.DuplicateRegistryError{}, errorsCause(err))

	got, err := m.Get("checks")
	require.NoError(t, err)
	require.Same(t, r, got)

	_, err = m.Get("missing")
	require.Error(t, err)
	require.IsType(t, xerr.UnknownRegistryError{}, errorsCause(err))

	require.Equal(t, []string{"checks"}, m.Names())
}

// errorsCause unwraps the github.com/pkg/errors stack frame xerr attaches at
// construction time so tests can assert on the underlying typed error value.
func errorsCause(err error) error {
	type causer interface{ Cause() error }
	for {
		c, ok := err.(causer)
		if !ok {
			return err
		}
		err = c.Cause()
	}
}
