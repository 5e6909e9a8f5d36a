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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"

	"github.com/Nagato-Yuzuru/predylogic/cmd"
	"github.com/Nagato-Yuzuru/predylogic/constants"
	"github.com/Nagato-Yuzuru/predylogic/version"
)

// gitVersion is overridden at build time via -ldflags, the same convention
// cling's own --version output and the "version" subcommand (cmd/version.go)
// both read.
var gitVersion = "0.1.0"

func main() {
	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, os.Kill)
	defer stop()

	logger := setupDefaultLogger()
	slog.SetDefault(logger)

	exitCode := 0

	cli := cmd.Setup(ctx, gitVersion)
	if err := cmd.Execute(ctx, cli, os.Args); err != nil {
		// Print the error in the form "Error: <error>", deliberately plain
		// text, not a JSON line, since this is the one thing a CLI user
		// reads on stderr with their own eyes rather than a log aggregator.
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		exitCode = 1
	}
	os.Exit(exitCode)
}

// setupDefaultLogger builds the process-wide slog.Logger: level driven by
// PREDYLOGIC_LOG_LEVEL/PREDYLOGIC_DEBUG, JSON-encoded to stdout, stamped
// with the build's git version and a per-process instance id so logs from
// concurrently running instances of the engine can be told apart.
func setupDefaultLogger() *slog.Logger {
	logLevel := slog.LevelVar{}
	if _, debug := os.LookupEnv(constants.EnvDebug); debug {
		os.Setenv(constants.EnvLogLevel, "DEBUG")
	}

	switch strings.ToUpper(os.Getenv(constants.EnvLogLevel)) {
	case "DEBUG":
		logLevel.Set(slog.LevelDebug)
	case "INFO":
		logLevel.Set(slog.LevelInfo)
	case "WARN":
		logLevel.Set(slog.LevelWarn)
	case "ERROR":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
	}

	attrs := []slog.Attr{
		slog.String("app", "predylogic"),
		slog.String("version", gitVersion),
		slog.String("instance", uuid.NewString()),
	}
	if _, debug := os.LookupEnv(constants.EnvDebug); debug {
		info := version.GetVersionInfo()
		attrs = append(attrs,
			slog.Bool("debug", true),
			slog.Any("args", os.Args),
			slog.String("commit", info.GitCommit),
		)
		if exec, err := os.Executable(); err == nil {
			attrs = append(attrs, slog.String("executable", exec))
		}
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     &logLevel,
	}).WithAttrs(attrs)

	return slog.New(handler)
}
