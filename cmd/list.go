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
	"os"
	"strings"

	"github.com/binaek/cling"
	"github.com/olekukonko/tablewriter"

	"github.com/Nagato-Yuzuru/predylogic/param"
)

func addListCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("list", listCmd),
	)
}

// listCmd prints every rule definition registered in the CLI's demo
// registry, table-formatted via tablewriter.
func listCmd(ctx context.Context, args []string) error {
	reg, err := buildDemoRegistry()
	if err != nil {
		return err
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header("Rule", "Params", "Doc")
	for _, def := range reg.All() {
		table.Append(def.Name, formatSchema(def.Schema), def.Doc)
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("\nregistry: %s (%d rule def(s))\n", reg.Name(), len(reg.All()))
	return nil
}

func formatSchema(schema param.Schema) string {
	parts := make([]string, 0, len(schema))
	for _, spec := range schema {
		parts = append(parts, fmt.Sprintf("%s:%s", spec.Name, spec.Type))
	}
	return strings.Join(parts, ", ")
}
