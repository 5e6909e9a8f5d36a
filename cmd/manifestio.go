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
	"bytes"
	"encoding/json"
	"maps"
	"os"

	"github.com/Nagato-Yuzuru/predylogic/manifest"
)

// loadManifestFile reads and decodes a manifest JSON document from path,
// then forces its registry field to demoRegistryName: every CLI command
// operates against the single in-process demo registry, so a manifest file
// authored without a registry field (or with a stale one) still loads.
func loadManifestFile(path string) (manifest.Manifest, error) {
	var m manifest.Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, err
	}
	m.Registry = demoRegistryName
	return m, nil
}

// loadFacts merges facts supplied via --fact-file and --facts, in
// file-then-flag override order.
func loadFacts(factFile, factsFlag string) (Facts, error) {
	fileFacts := make(Facts)
	if factFile != "" {
		content, err := os.ReadFile(factFile)
		if err != nil {
			return nil, err
		}
		if err := json.NewDecoder(bytes.NewReader(content)).Decode(&fileFacts); err != nil {
			return nil, err
		}
	}

	flagFacts := make(Facts)
	if factsFlag != "" {
		if err := json.NewDecoder(bytes.NewReader([]byte(factsFlag))).Decode(&flagFacts); err != nil {
			return nil, err
		}
	}

	facts := make(Facts, len(fileFacts)+len(flagFacts))
	maps.Copy(facts, fileFacts)
	maps.Copy(facts, flagFacts)
	return facts, nil
}
