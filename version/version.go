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

// Package version reports predylogic's own build metadata: the module
// version cling already surfaces for --version, plus the VCS detail
// runtime/debug.BuildInfo carries (commit, tree state, build timestamp) that
// a bare version string doesn't. cmd's "version" subcommand is the one
// caller; see cmd/version.go.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"text/tabwriter"
)

// Info is predylogic's build metadata. The Git* fields come from
// runtime/debug.BuildInfo when the binary was built inside a VCS checkout;
// the app fields are caller-supplied via WithAppDetails.
type Info struct {
	Name         string
	Description  string
	Website      string
	GitVersion   string
	GitCommit    string
	GitTreeState string
	BuildDate    string
}

// Option configures an Info after the BuildInfo-derived fields are filled.
type Option func(*Info)

// WithAppDetails sets the application name, description, and website.
func WithAppDetails(name, description, website string) Option {
	return func(i *Info) {
		i.Name = name
		i.Description = description
		i.Website = website
	}
}

// GetVersionInfo reads the running binary's debug.BuildInfo into an Info,
// then applies opts on top. GitVersion stays empty for "(devel)" builds so
// the caller can substitute the version string it already holds.
func GetVersionInfo(opts ...Option) Info {
	var info Info

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				info.GitCommit = setting.Value
			case "vcs.time":
				info.BuildDate = setting.Value
			case "vcs.modified":
				info.GitTreeState = "clean"
				if setting.Value == "true" {
					info.GitTreeState = "dirty"
				}
			}
		}
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.GitVersion = v
		}
	}

	for _, opt := range opts {
		opt(&info)
	}
	return info
}

// String renders the app details followed by a tabwriter-aligned block of
// whichever build fields are present.
func (i Info) String() string {
	var b strings.Builder

	switch {
	case i.Name != "" && i.GitVersion != "":
		fmt.Fprintf(&b, "%s v%s\n", i.Name, i.GitVersion)
	case i.Name != "":
		fmt.Fprintf(&b, "%s\n", i.Name)
	}
	if i.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", i.Description)
	}
	if i.Website != "" {
		fmt.Fprintf(&b, "\n%s\n", i.Website)
	}
	b.WriteString("\n")

	w := tabwriter.NewWriter(&b, 0, 0, 1, ' ', 0)
	for _, row := range []struct{ label, value string }{
		{"Git Commit:", i.GitCommit},
		{"Git Tree:", i.GitTreeState},
		{"Build Date:", i.BuildDate},
	} {
		if row.value != "" {
			fmt.Fprintf(w, "%s\t%s\n", row.label, row.value)
		}
	}
	w.Flush()
	b.WriteString("\n")

	return b.String()
}
