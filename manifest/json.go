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

package manifest

import (
	"encoding/json"

	"github.com/Nagato-Yuzuru/predylogic/xerr"
)

// MarshalJSON renders the manifest in its wire format.
func (m Manifest) MarshalJSON() ([]byte, error) {
	raw := struct {
		Registry string               `json:"registry"`
		Rules    map[string]LogicNode `json:"rules"`
	}{Registry: m.Registry, Rules: m.Rules}
	return json.Marshal(raw)
}

// UnmarshalJSON parses the manifest wire format.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Registry string               `json:"registry"`
		Rules    map[string]LogicNode `json:"rules"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return xerr.ErrManifestValidation(err.Error())
	}
	m.Registry = raw.Registry
	m.Rules = raw.Rules
	return nil
}

// MarshalJSON renders a LogicNode per its node_type discriminator.
func (n LogicNode) MarshalJSON() ([]byte, error) {
	switch n.NodeType {
	case NodeLeaf:
		return json.Marshal(struct {
			NodeType NodeType    `json:"node_type"`
			Rule     *RuleConfig `json:"rule"`
		}{n.NodeType, n.Rule})
	case NodeAnd, NodeOr:
		return json.Marshal(struct {
			NodeType NodeType    `json:"node_type"`
			Rules    []LogicNode `json:"rules"`
		}{n.NodeType, n.Rules})
	case NodeNot:
		return json.Marshal(struct {
			NodeType NodeType   `json:"node_type"`
			Rule     *LogicNode `json:"rule"`
		}{n.NodeType, n.Child})
	case NodeRef:
		return json.Marshal(struct {
			NodeType NodeType `json:"node_type"`
			RefID    string   `json:"ref_id"`
		}{n.NodeType, n.RefID})
	default:
		return nil, xerr.ErrManifestValidation("unknown node_type: " + string(n.NodeType))
	}
}

// UnmarshalJSON parses a LogicNode per its node_type discriminator, enforcing
// the structural invariants the wire format calls out (and/or minItems=2,
// leaf and not each requiring their single "rule" payload, ref requiring
// ref_id).
func (n *LogicNode) UnmarshalJSON(data []byte) error {
	var head struct {
		NodeType NodeType        `json:"node_type"`
		Rule     json.RawMessage `json:"rule"`
		Rules    []LogicNode     `json:"rules"`
		RefID    string          `json:"ref_id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return xerr.ErrManifestValidation(err.Error())
	}

	n.NodeType = head.NodeType
	switch head.NodeType {
	case NodeLeaf:
		if len(head.Rule) == 0 {
			return xerr.ErrManifestValidation("leaf node missing rule")
		}
		var rc RuleConfig
		if err := json.Unmarshal(head.Rule, &rc); err != nil {
			return xerr.ErrManifestValidation(err.Error())
		}
		n.Rule = &rc
	case NodeAnd, NodeOr:
		if len(head.Rules) < 2 {
			return xerr.ErrManifestValidation("and/or node requires at least 2 rules")
		}
		n.Rules = head.Rules
	case NodeNot:
		if len(head.Rule) == 0 {
			return xerr.ErrManifestValidation("not node missing rule")
		}
		var child LogicNode
		if err := json.Unmarshal(head.Rule, &child); err != nil {
			return err
		}
		n.Child = &child
	case NodeRef:
		if head.RefID == "" {
			return xerr.ErrManifestValidation("ref node missing ref_id")
		}
		n.RefID = head.RefID
	default:
		return xerr.ErrManifestValidation("unknown node_type: " + string(head.NodeType))
	}
	return nil
}

// MarshalJSON renders a RuleConfig as {"rule_def_name": ..., <params>...},
// the flattened discriminated-union shape of the wire format.
func (c RuleConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Params)+1)
	for k, v := range c.Params {
		out[k] = v
	}
	out["rule_def_name"] = c.RuleDefName
	return json.Marshal(out)
}

// UnmarshalJSON parses {"rule_def_name": ..., <params>...} by pulling out
// the discriminator and treating everything else as a param value.
func (c *RuleConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return xerr.ErrManifestValidation(err.Error())
	}
	name, ok := raw["rule_def_name"].(string)
	if !ok || name == "" {
		return xerr.ErrManifestValidation("rule config missing rule_def_name")
	}
	delete(raw, "rule_def_name")
	c.RuleDefName = name
	if len(raw) > 0 {
		c.Params = raw
	}
	return nil
}
