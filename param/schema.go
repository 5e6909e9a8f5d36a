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

// Package param models a rule definition's parameter schema: an ordered list
// of (name, type tag, default) tuples, and the binding/validation logic a
// Leaf goes through when it is constructed. It is one schema-driven
// validator covering every declared parameter type, since predylogic's
// leaves bind concrete Go values rather than evaluating a typed expression
// language.
package param

import (
	"fmt"
	"reflect"

	"github.com/fatih/structs"

	"github.com/Nagato-Yuzuru/predylogic/xerr"
)

// Type is a declared parameter type tag. Checking is best-effort: values that
// arrive already as the right Go type are accepted directly; everything else
// is checked structurally where that is cheap to do.
type Type int

const (
	Any Type = iota
	Bool
	Int
	Float
	String
	List
	Map
)

func (t Type) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case List:
		return "list"
	case Map:
		return "map"
	default:
		return "any"
	}
}

// Spec is one declared parameter: its name, its type tag, and an optional
// default value.
type Spec struct {
	Name       string
	Type       Type
	HasDefault bool
	Default    any
}

// Schema is an ordered parameter list for one rule definition.
type Schema []Spec

// Lookup returns the Spec for name, if declared.
func (s Schema) Lookup(name string) (Spec, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Spec{}, false
}

// Bind validates a caller-supplied params map against the schema and returns
// a complete map (defaults filled in) or an xerr.ParamError-backed error.
// Missing required params, unknown params, and checkable type mismatches are
// all rejected here, at Leaf-construction time, per the engine's construction
// error taxonomy.
func (s Schema) Bind(ruleName string, supplied map[string]any) (map[string]any, error) {
	bound := make(map[string]any, len(s))

	for _, p := range s {
		v, ok := supplied[p.Name]
		switch {
		case ok:
			checked, err := checkType(p.Type, v)
			if err != nil {
				return nil, xerr.ErrParamType(ruleName, p.Name, err.Error())
			}
			bound[p.Name] = checked
		case p.HasDefault:
			bound[p.Name] = p.Default
		default:
			return nil, xerr.ErrParamMissing(ruleName, p.Name)
		}
	}

	for name := range supplied {
		if _, declared := s.Lookup(name); !declared {
			return nil, xerr.ErrParamUnknown(ruleName, name)
		}
	}

	return bound, nil
}

func checkType(t Type, v any) (any, error) {
	if v == nil || t == Any {
		return v, nil
	}
	switch t {
	case Bool:
		if _, ok := v.(bool); !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
	case Int:
		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		default:
			return nil, fmt.Errorf("expected int, got %T", v)
		}
	case Float:
		switch v.(type) {
		case float32, float64, int, int64:
		default:
			return nil, fmt.Errorf("expected float, got %T", v)
		}
	case String:
		if _, ok := v.(string); !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
	case List:
		k := reflect.ValueOf(v).Kind()
		if k != reflect.Slice && k != reflect.Array {
			return nil, fmt.Errorf("expected list, got %T", v)
		}
	case Map:
		if reflect.ValueOf(v).Kind() != reflect.Map {
			return nil, fmt.Errorf("expected map, got %T", v)
		}
	}
	return v, nil
}

// SchemaFromStruct derives a Schema from a tagged Go struct, the ergonomic
// registration path layered on top of the hand-written Schema literal. Each
// exported field is read via `structs`; a `predylogic:"name,default=value"`
// tag overrides the field name and supplies a default. Fields without a tag
// use their Go field name and are required.
func SchemaFromStruct(example any) (Schema, error) {
	s := structs.New(example)
	fields := s.Fields()
	out := make(Schema, 0, len(fields))

	for _, f := range fields {
		if !f.IsExported() {
			continue
		}
		name := f.Name()
		hasDefault := false
		var def any

		tag := f.Tag("predylogic")
		if tag != "" && tag != "-" {
			name, def, hasDefault = parseTag(tag, f.Name())
		}

		out = append(out, Spec{
			Name:       name,
			Type:       typeOf(f.Value()),
			HasDefault: hasDefault,
			Default:    def,
		})
	}
	return out, nil
}

func parseTag(tag, fallback string) (name string, def any, hasDefault bool) {
	name = fallback
	parts := splitTag(tag)
	if len(parts) > 0 && parts[0] != "" {
		name = parts[0]
	}
	for _, p := range parts[1:] {
		const prefix = "default="
		if len(p) > len(prefix) && p[:len(prefix)] == prefix {
			def = p[len(prefix):]
			hasDefault = true
		}
	}
	return name, def, hasDefault
}

func splitTag(tag string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			parts = append(parts, tag[start:i])
			start = i + 1
		}
	}
	parts = append(parts, tag[start:])
	return parts
}

func typeOf(v any) Type {
	switch v.(type) {
	case bool:
		return Bool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int
	case float32, float64:
		return Float
	case string:
		return String
	default:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			return Any
		}
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			return List
		case reflect.Map:
			return Map
		default:
			return Any
		}
	}
}
