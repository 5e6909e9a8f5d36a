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

	"github.com/binaek/cling"

	"github.com/Nagato-Yuzuru/predylogic/version"
)

// addVersionCmd registers "version", printing the engine's build metadata
// (commit, tree state, build date) alongside the gitVersion cling itself
// already prints for --version, for a caller who wants the full detail
// version.Info carries rather than cling's bare version string.
func addVersionCmd(cli *cling.CLI, gitVersion string) {
	cli.WithCommand(
		cling.NewCommand("version", versionCmd(gitVersion)),
	)
}

func versionCmd(gitVersion string) func(ctx context.Context, args []string) error {
	return func(ctx context.Context, args []string) error {
		info := version.GetVersionInfo(
			version.WithAppDetails(
				"predylogic",
				"an embedded, schema-driven predicate logic engine",
				"https://github.com/Nagato-Yuzuru/predylogic",
			),
		)
		if info.GitVersion == "" {
			info.GitVersion = gitVersion
		}
		fmt.Print(info.String())
		return nil
	}
}
