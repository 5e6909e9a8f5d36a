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

package param

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Nagato-Yuzuru/predylogic/xerr"
)

func TestBindFillsDefaults(t *testing.T) {
	s := Schema{
		{Name: "limit", Type: Int, HasDefault: true, Default: 100},
	}
	bound, err := s.Bind("rule", map[string]any{})
	require.NoError(t, err)
	require.Equal(t, 100, bound["limit"])
}

func TestBindRejectsMissingRequired(t *testing.T) {
	s := Schema{{Name: "currency", Type: String}}
	_, err := s.Bind("rule", map[string]any{})
	require.Error(t, err)
	require.ErrorAs(t, err, &xerr.ParamError{})
}

func TestBindRejectsUnknownParam(t *testing.T) {
	s := Schema{{Name: "currency", Type: String}}
	_, err := s.Bind("rule", map[string]any{"currency": "usd", "extra": 1})
	require.Error(t, err)
}

func TestBindRejectsTypeMismatch(t *testing.T) {
	s := Schema{{Name: "limit", Type: Int}}
	_, err := s.Bind("rule", map[string]any{"limit": "not-an-int"})
	require.Error(t, err)
}

func TestSchemaFromStructDerivesTagsAndDefaults(t *testing.T) {
	type params struct {
		Limit    int    `predylogic:"limit,default=100"`
		Currency string `predylogic:"currency"`
	}

	s, err := SchemaFromStruct(params{Limit: 0, Currency: ""})
	require.NoError(t, err)

	limit, ok := s.Lookup("limit")
	require.True(t, ok)
	require.True(t, limit.HasDefault)
	require.Equal(t, Int, limit.Type)

	currency, ok := s.Lookup("currency")
	require.True(t, ok)
	require.False(t, currency.HasDefault)
	require.Equal(t, String, currency.Type)
}
