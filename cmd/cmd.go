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

// Package cmd is predylogic's demonstration CLI: a handful of binaek/cling
// commands that drive the engine package against ad hoc JSON facts and
// manifests, so the engine can be exercised from a shell without an
// embedding Go program. It wires a cling.CLI with WithPreRun/WithPostRun
// logging around each subcommand.
package cmd

import (
	"context"
	"log/slog"

	"github.com/binaek/cling"
)

// Setup builds the predylogic CLI: a cling.CLI with one subcommand per
// engine operation an operator might reach for from a shell.
func Setup(ctx context.Context, version string) *cling.CLI {
	cli := cling.NewCLI("predylogic", version).
		WithDescription("predylogic is an embedded predicate logic engine").
		WithPreRun(func(ctx context.Context, args []string) error {
			slog.DebugContext(ctx, "==> starting predylogic", slog.String("version", version))
			return nil
		}).
		WithPostRun(func(ctx context.Context, args []string) error {
			slog.DebugContext(ctx, "==> exiting predylogic")
			return nil
		})

	addServeCmd(cli)
	addValidateCmd(cli)
	addExecCmd(cli)
	addListCmd(cli)
	addVersionCmd(cli, version)

	return cli
}

// Execute runs cli against args.
func Execute(ctx context.Context, cli *cling.CLI, args []string) error {
	if cli == nil {
		panic("CLI cannot be NIL")
	}
	return cli.Run(ctx, args)
}
