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
	"log/slog"
	"net/http"

	"github.com/binaek/cling"

	"github.com/Nagato-Yuzuru/predylogic/config"
	"github.com/Nagato-Yuzuru/predylogic/constants"
	"github.com/Nagato-Yuzuru/predylogic/engine"
	"github.com/Nagato-Yuzuru/predylogic/httpapi"
	"github.com/Nagato-Yuzuru/predylogic/registry"
	"github.com/Nagato-Yuzuru/predylogic/telemetry"
)

// addServeCmd wires the "serve" subcommand: a port, a manifest to preload,
// the addresses to listen on, and the otel-enabled/endpoint/protocol/
// trace-execution flags sourced from env via constants. It stands up an
// httpapi.Server over the demo registry's RuleEngine.
func addServeCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("serve", serveCmd).
			WithFlag(cling.
				NewIntCmdInput("port").
				WithDefault(7529).
				WithDescription("Port to listen on").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("manifest").
				WithDefault("").
				WithDescription("Manifest JSON file to preload before serving").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("config").
				WithDefault("").
				WithDescription("Engine config TOML file (cache sizing, registries, telemetry defaults)").
				AsFlag().
				FromEnv([]string{constants.EnvConfigPath}),
			).
			WithFlag(cling.
				NewCmdSliceInput[string]("listen").
				WithDefault([]string{"local"}).
				WithDescription("Address(es) to listen on").
				AsFlag(),
			).
			WithFlag(
				cling.NewBoolCmdInput("otel-enabled").
					WithDefault(false).
					WithDescription("Enable OpenTelemetry tracing").
					AsFlag().
					FromEnv([]string{constants.EnvOtelEnabled}),
			).
			WithFlag(
				cling.NewStringCmdInput("otel-endpoint").
					WithDefault("http://localhost:4317").
					WithDescription("OpenTelemetry endpoint to send traces to").
					AsFlag().
					FromEnv([]string{constants.EnvOtelEndpoint}),
			).
			WithFlag(
				cling.NewStringCmdInput("otel-protocol").
					WithDefault("grpc").
					WithValidator(cling.NewEnumValidator("http", "grpc")).
					WithDescription("OpenTelemetry protocol. Allowed values: http, grpc.").
					AsFlag().
					FromEnv([]string{constants.EnvOtelProtocol}),
			).
			WithFlag(
				cling.NewBoolCmdInput("otel-trace-execution").
					WithDefault(false).
					WithDescription("Enable OpenTelemetry tracing for detailed rule evaluation.").
					AsFlag().
					FromEnv([]string{constants.EnvOtelTraceExecution}),
			),
	)
}

type serveCmdArgs struct {
	Port               int      `cling-name:"port"`
	Manifest           string   `cling-name:"manifest"`
	Config             string   `cling-name:"config"`
	Listen             []string `cling-name:"listen"`
	OtelEnabled        bool     `cling-name:"otel-enabled"`
	OtelEndpoint       string   `cling-name:"otel-endpoint"`
	OtelProtocol       string   `cling-name:"otel-protocol"`
	OtelTraceExecution bool     `cling-name:"otel-trace-execution"`
}

// decodeFactsBody is the httpapi.ContextDecoder for the CLI's demo registry:
// the request body itself is the flat facts map.
func decodeFactsBody(r *http.Request) (Facts, error) {
	facts := make(Facts)
	if r.Body == nil || r.ContentLength == 0 {
		return facts, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&facts); err != nil {
		return nil, err
	}
	return facts, nil
}

func serveCmd(ctx context.Context, args []string) error {
	input := serveCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	cfg := config.Default()
	if input.Config != "" {
		loaded, err := config.Load(input.Config)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	// Otel flags/env win over the config file's telemetry section; the file
	// only supplies defaults for an operator who never passes the flags.
	otelCfg := cfg.Otel
	if input.OtelEnabled {
		otelCfg = config.OtelConfig{
			Enabled:        true,
			Endpoint:       input.OtelEndpoint,
			Protocol:       input.OtelProtocol,
			TraceExecution: input.OtelTraceExecution,
		}
	}

	shutdown, err := telemetry.InitProvider(ctx, otelCfg, "predylogic")
	if err != nil {
		return err
	}
	defer func() {
		_ = shutdown(context.WithoutCancel(ctx))
	}()

	reg, err := buildDemoRegistry()
	if err != nil {
		return err
	}
	manager := registry.NewManager[Facts]()
	if err := manager.Add(reg); err != nil {
		return err
	}
	for _, rc := range cfg.Registries {
		if rc.Name == demoRegistryName {
			continue
		}
		extra, err := registry.New[Facts](rc.Name)
		if err != nil {
			return err
		}
		if err := manager.Add(extra); err != nil {
			return err
		}
	}

	e := engine.New[Facts](manager, cfg.Cache.Capacity, cfg.Cache.TTL)

	if input.Manifest != "" {
		m, err := loadManifestFile(input.Manifest)
		if err != nil {
			return err
		}
		if err := e.UpdateManifests(ctx, m); err != nil {
			return err
		}
	}

	var serverOpts []httpapi.Option[Facts]
	if otelCfg.TraceExecution {
		serverOpts = append(serverOpts, httpapi.WithAuditSpanExport[Facts]())
	}
	server := httpapi.New[Facts](e, decodeFactsBody, serverOpts...)

	group, err := httpapi.Listen(ctx, input.Port, input.Listen, server)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "predylogic listening", slog.Int("port", input.Port), slog.Any("listen", input.Listen))
		if err := group.Serve(ctx); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	return group.Shutdown(context.WithoutCancel(ctx))
}
