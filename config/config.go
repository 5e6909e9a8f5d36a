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

// Package config is the engine's static, file-based configuration: which
// registries to stand up, how big the engine's link-result cache should be,
// and whether/where to export telemetry. It is a single TOML document
// parsed with pelletier/go-toml/v2, with a schema_version field gated by
// Masterminds/semver/v3 so an engine build can refuse a config file written
// for an incompatible future schema rather than silently misreading it.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"

	"github.com/Nagato-Yuzuru/predylogic/xerr"
)

// SchemaConstraint is the range of config schema_version values this build
// of the engine understands. Bumped only on a breaking config shape change.
const SchemaConstraint = "^1.0.0"

// RegistryConfig names one registry the engine should create at startup.
type RegistryConfig struct {
	Name string `toml:"name"`
}

// CacheConfig sizes the engine's link-result memoization cache.
type CacheConfig struct {
	Capacity int           `toml:"capacity"`
	TTL      time.Duration `toml:"ttl"`
}

// OtelConfig controls optional telemetry export.
type OtelConfig struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Protocol       string `toml:"protocol"` // "grpc" or "http"
	TraceExecution bool   `toml:"trace_execution"`
}

// EngineConfig is the top-level TOML document.
type EngineConfig struct {
	SchemaVersion string           `toml:"schema_version"`
	Registries    []RegistryConfig `toml:"registries"`
	Cache         CacheConfig      `toml:"cache"`
	Otel          OtelConfig       `toml:"otel"`
}

// Default returns a minimal, ready-to-run configuration: no registries (the
// caller is expected to append its own), a modest cache, telemetry off.
func Default() EngineConfig {
	return EngineConfig{
		SchemaVersion: "1.0.0",
		Cache:         CacheConfig{Capacity: 1024, TTL: 5 * time.Minute},
	}
}

// Load reads and parses the TOML config at path, rejecting a schema_version
// outside SchemaConstraint before the caller ever sees the parsed struct.
func Load(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg EngineConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := checkSchemaVersion(cfg.SchemaVersion); err != nil {
		return nil, err
	}
	if cfg.Cache.Capacity <= 0 {
		cfg.Cache.Capacity = 1024
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	return &cfg, nil
}

func checkSchemaVersion(v string) error {
	if v == "" {
		return xerr.ErrManifestValidation("config missing schema_version")
	}
	constraint, err := semver.NewConstraint(SchemaConstraint)
	if err != nil {
		return err
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return xerr.ErrManifestValidation(fmt.Sprintf("invalid schema_version %q: %s", v, err))
	}
	if !constraint.Check(parsed) {
		return xerr.ErrManifestValidation(fmt.Sprintf("config schema_version %q does not satisfy %s", v, SchemaConstraint))
	}
	return nil
}
