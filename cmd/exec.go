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
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/binaek/cling"
	"github.com/olekukonko/tablewriter"

	"github.com/Nagato-Yuzuru/predylogic/engine"
	"github.com/Nagato-Yuzuru/predylogic/registry"
	"github.com/Nagato-Yuzuru/predylogic/trace"
)

func addExecCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("exec", execCmd).
			WithArgument(cling.NewStringCmdInput("rule").
				WithDescription("Rule id to evaluate").
				AsArgument(),
			).
			WithFlag(cling.
				NewStringCmdInput("manifest").
				WithDescription("Path to the manifest JSON file defining the rule").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("fact-file").
				WithDefault("").
				WithDescription("File to load facts from").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("facts").
				WithDefault("{}").
				WithDescription("Facts to evaluate the rule with").
				AsFlag(),
			).
			WithFlag(cling.
				NewBoolCmdInput("audit").
				WithDefault(false).
				WithDescription("Evaluate in audit mode and print the trace tree").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("output").
				WithDefault("table").
				WithValidator(cling.NewEnumValidator("table", "json")).
				WithDescription("Output format to use. One of: table, json").
				AsFlag(),
			),
	)
}

type execCmdArgs struct {
	Rule     string `cling-name:"rule"`
	Manifest string `cling-name:"manifest"`
	Facts    string `cling-name:"facts"`
	FactFile string `cling-name:"fact-file"`
	Audit    bool   `cling-name:"audit"`
	Output   string `cling-name:"output"`
}

func execCmd(ctx context.Context, args []string) error {
	input := execCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	facts, err := loadFacts(input.FactFile, input.Facts)
	if err != nil {
		return err
	}

	m, err := loadManifestFile(input.Manifest)
	if err != nil {
		return err
	}

	reg, err := buildDemoRegistry()
	if err != nil {
		return err
	}
	manager := registry.NewManager[Facts]()
	if err := manager.Add(reg); err != nil {
		return err
	}

	e := engine.New[Facts](manager, 128, 0)
	if err := e.UpdateManifests(ctx, m); err != nil {
		return err
	}

	h := e.GetPredicateHandle(demoRegistryName, input.Rule)

	if input.Audit {
		tn, err := h.Audit(ctx, facts, true)
		if err != nil {
			return err
		}
		if input.Output == "json" {
			return printJSON(tn)
		}
		return printTraceTable(tn)
	}

	result, err := h.Eval(ctx, facts, true)
	if err != nil {
		return err
	}
	if input.Output == "json" {
		return printJSON(map[string]any{"rule": input.Rule, "result": result})
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header("Rule", "Result")
	table.Append(input.Rule, fmt.Sprintf("%t", result))
	return table.Render()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTraceTable renders an audit trace.Node tree as an indented table: one
// row per node, depth-first, left to right, matching evaluation order.
func printTraceTable(root *trace.Node) error {
	table := tablewriter.NewTable(os.Stdout)
	table.Header("Step", "Operator", "Label", "Result", "Duration")

	var walk func(n *trace.Node, depth int)
	walk = func(n *trace.Node, depth int) {
		table.Append(
			strings.Repeat("  ", depth)+n.Operator,
			n.Operator,
			n.Label,
			traceResult(n),
			n.Duration.String(),
		)
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	walk(root, 0)

	return table.Render()
}

// traceResult renders a trace node's boolean result the way the audit JSON
// shape does: "skipped" when a short-circuiting parent never reached it,
// otherwise the evaluated bool.
func traceResult(n *trace.Node) string {
	switch {
	case n.Skipped:
		return "skipped"
	case n.Success != nil:
		return fmt.Sprintf("%t", *n.Success)
	default:
		return "?"
	}
}
