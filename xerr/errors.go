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

// Package xerr holds the typed error taxonomy described in the engine's error
// handling design: construction-time, link-time, and evaluation-time errors.
// Every error is a small value type so callers can `errors.As` to it; each is
// wrapped with github.com/pkg/errors at the point of construction so a stack
// trace is attached without the core engine needing its own trace capture.
package xerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// --- construction-time ---

type DuplicateRuleError struct{ Registry, Name string }

func (e DuplicateRuleError) Error() string {
	return fmt.Sprintf("duplicate rule %q in registry %q", e.Name, e.Registry)
}

func ErrDuplicateRule(registry, name string) error {
	return errors.WithStack(DuplicateRuleError{Registry: registry, Name: name})
}

type DuplicateRegistryError struct{ Name string }

func (e DuplicateRegistryError) Error() string {
	return fmt.Sprintf("duplicate registry %q", e.Name)
}

func ErrDuplicateRegistry(name string) error {
	return errors.WithStack(DuplicateRegistryError{Name: name})
}

type InvalidNameError struct{ Name, Reason string }

func (e InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Name, e.Reason)
}

func ErrInvalidName(name, reason string) error {
	return errors.WithStack(InvalidNameError{Name: name, Reason: reason})
}

type ParamErrorKind int

const (
	ParamMissing ParamErrorKind = iota
	ParamUnknown
	ParamTypeMismatch
)

type ParamError struct {
	Rule, Param string
	Kind        ParamErrorKind
	Detail      string
}

func (e ParamError) Error() string {
	switch e.Kind {
	case ParamMissing:
		return fmt.Sprintf("rule %q: missing required param %q", e.Rule, e.Param)
	case ParamUnknown:
		return fmt.Sprintf("rule %q: unknown param %q", e.Rule, e.Param)
	default:
		return fmt.Sprintf("rule %q: param %q type mismatch: %s", e.Rule, e.Param, e.Detail)
	}
}

func ErrParamMissing(rule, param string) error {
	return errors.WithStack(ParamError{Rule: rule, Param: param, Kind: ParamMissing})
}

func ErrParamUnknown(rule, param string) error {
	return errors.WithStack(ParamError{Rule: rule, Param: param, Kind: ParamUnknown})
}

func ErrParamType(rule, param, detail string) error {
	return errors.WithStack(ParamError{Rule: rule, Param: param, Kind: ParamTypeMismatch, Detail: detail})
}

// --- link-time ---

type UnknownRegistryError struct{ Name string }

func (e UnknownRegistryError) Error() string { return fmt.Sprintf("unknown registry %q", e.Name) }

func ErrUnknownRegistry(name string) error {
	return errors.WithStack(UnknownRegistryError{Name: name})
}

type UnknownRuleError struct{ Registry, Name string }

func (e UnknownRuleError) Error() string {
	return fmt.Sprintf("unknown rule def %q in registry %q", e.Name, e.Registry)
}

func ErrUnknownRule(registry, name string) error {
	return errors.WithStack(UnknownRuleError{Registry: registry, Name: name})
}

// RuleCycleError reports a cycle discovered across declarative `ref` edges at
// link time. Path is the ordered list of rule ids forming the cycle, with the
// first id repeated at the end (e.g. ["a", "b", "a"]).
type RuleCycleError struct{ Path []string }

func (e RuleCycleError) Error() string {
	return fmt.Sprintf("rule cycle: %s", strings.Join(e.Path, " -> "))
}

func ErrRuleCycle(path []string) error {
	return errors.WithStack(RuleCycleError{Path: path})
}

type ManifestValidationError struct{ Reason string }

func (e ManifestValidationError) Error() string {
	return fmt.Sprintf("manifest validation failed: %s", e.Reason)
}

func ErrManifestValidation(reason string) error {
	return errors.WithStack(ManifestValidationError{Reason: reason})
}

// --- evaluation-time ---

type UnresolvedRuleError struct{ Registry, RuleID string }

func (e UnresolvedRuleError) Error() string {
	return fmt.Sprintf("unresolved rule: %s/%s", e.Registry, e.RuleID)
}

func ErrUnresolvedRule(registry, ruleID string) error {
	return errors.WithStack(UnresolvedRuleError{Registry: registry, RuleID: ruleID})
}
