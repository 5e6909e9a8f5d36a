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

package cmd

import (
	"context"
	"fmt"

	"github.com/Nagato-Yuzuru/predylogic/param"
	"github.com/Nagato-Yuzuru/predylogic/registry"
)

// Facts is the evaluation context every CLI command binds the engine to: a
// flat key/value map supplied via --facts or --fact-file and merged from
// those two sources.
type Facts = map[string]any

// demoRegistryName is the single registry the CLI commands operate against.
// A real embedder registers its own rule defs against its own context type;
// the CLI exists to exercise the engine end-to-end against ad hoc JSON
// facts, so it ships a small fixed set of generic, facts-inspecting rules.
const demoRegistryName = "facts"

// buildDemoRegistry registers the small set of generic predicates the CLI's
// exec/validate/serve commands evaluate manifests against.
func buildDemoRegistry() (*registry.Registry[Facts], error) {
	r, err := registry.New[Facts](demoRegistryName)
	if err != nil {
		return nil, err
	}

	schemaKeyOnly := param.Schema{{Name: "key", Type: param.String}}
	schemaKeyValue := param.Schema{
		{Name: "key", Type: param.String},
		{Name: "value", Type: param.Any},
	}

	if _, err := r.Register("fact_present", func(_ context.Context, facts Facts, params map[string]any) (bool, error) {
		_, ok := facts[params["key"].(string)]
		return ok, nil
	}, schemaKeyOnly, "true if the named fact key is present"); err != nil {
		return nil, err
	}

	if _, err := r.Register("fact_truthy", func(_ context.Context, facts Facts, params map[string]any) (bool, error) {
		v, ok := facts[params["key"].(string)]
		if !ok {
			return false, nil
		}
		b, ok := v.(bool)
		return ok && b, nil
	}, schemaKeyOnly, "true if the named fact key holds the boolean true"); err != nil {
		return nil, err
	}

	if _, err := r.Register("fact_equals", func(_ context.Context, facts Facts, params map[string]any) (bool, error) {
		v, ok := facts[params["key"].(string)]
		if !ok {
			return false, nil
		}
		return fmt.Sprintf("%v", v) == fmt.Sprintf("%v", params["value"]), nil
	}, schemaKeyValue, "true if the named fact key's string form equals value's string form"); err != nil {
		return nil, err
	}

	if _, err := r.Register("fact_greater_than", func(_ context.Context, facts Facts, params map[string]any) (bool, error) {
		got, ok := asFloat(facts[params["key"].(string)])
		if !ok {
			return false, nil
		}
		want, ok := asFloat(params["value"])
		if !ok {
			return false, nil
		}
		return got > want, nil
	}, schemaKeyValue, "true if the named numeric fact key is greater than value"); err != nil {
		return nil, err
	}

	return r, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
