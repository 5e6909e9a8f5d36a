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

	"github.com/Nagato-Yuzuru/predylogic/handle"
	"github.com/Nagato-Yuzuru/predylogic/linker"
)

func addValidateCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("validate", validateCmd).
			WithArgument(cling.NewStringCmdInput("manifest").
				WithDescription("Path to the manifest JSON file to validate").
				AsArgument(),
			),
	)
}

type validateCmdArgs struct {
	Manifest string `cling-name:"manifest"`
}

// throwawayHandles backs the linker's ref resolution during validation with
// handles that are never installed anywhere: validate only needs to confirm
// a manifest links cleanly, not to stand up a live engine.
type throwawayHandles struct {
	registry string
	handles  map[string]*handle.Handle[Facts]
}

func (p *throwawayHandles) GetOrCreate(ruleID string) *handle.Handle[Facts] {
	if h, ok := p.handles[ruleID]; ok {
		return h
	}
	h := handle.New[Facts](p.registry, ruleID)
	p.handles[ruleID] = h
	return h
}

func validateCmd(ctx context.Context, args []string) error {
	input := validateCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
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

	provider := &throwawayHandles{registry: m.Registry, handles: make(map[string]*handle.Handle[Facts])}
	linked, err := linker.Link(m, reg, provider)
	if err != nil {
		return err
	}

	fmt.Printf("manifest valid: %d rule(s) linked\n", len(linked))
	for ruleID := range linked {
		fmt.Printf("  ✓ %s\n", ruleID)
	}
	return nil
}
