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

// Package httpapi's listen.go resolves a CLI's --listen flag(s) into
// concrete host:port bindings and runs one *http.Server per binding. It
// recognizes a predefined-alias set (local/local4/local6/network/network4/
// network6), enforces "exactly one address when an alias is used", and
// manages a listener-per-address lifecycle over predylogic's HTTP mux.
package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/binaek/gocoll/collection"
	"golang.org/x/exp/slices"
)

var predefinedListenAliases = [...]string{"local", "local4", "local6", "network", "network4", "network6"}

// ResolveBindings expands listen (a mix of host names and the predefined
// aliases above) plus port into concrete "host:port" bindings.
func ResolveBindings(port int, listen []string) ([]string, error) {
	for _, addr := range listen {
		if slices.Contains(predefinedListenAliases[:], addr) && len(listen) != 1 {
			return nil, fmt.Errorf("when using predefined listen addresses, there must be exactly one address")
		}
	}

	if slices.Contains(predefinedListenAliases[:], listen[0]) {
		switch listen[0] {
		case "local":
			return []string{net.JoinHostPort("localhost", fmt.Sprintf("%d", port))}, nil
		case "local4":
			return []string{net.JoinHostPort("127.0.0.1", fmt.Sprintf("%d", port))}, nil
		case "local6":
			return []string{net.JoinHostPort("::1", fmt.Sprintf("%d", port))}, nil
		case "network":
			return []string{net.JoinHostPort("", fmt.Sprintf("%d", port))}, nil
		case "network4":
			return []string{net.JoinHostPort("0.0.0.0", fmt.Sprintf("%d", port))}, nil
		case "network6":
			return []string{net.JoinHostPort("::", fmt.Sprintf("%d", port))}, nil
		}
	}

	addresses := collection.Map(
		collection.From(listen...),
		func(addr string) string {
			return net.JoinHostPort(addr, fmt.Sprintf("%d", port))
		},
	).Elements()
	return addresses, nil
}

// listenerServerPair couples one net.Listener to the *http.Server serving
// it, so both can be torn down together.
type listenerServerPair struct {
	listener net.Listener
	server   *http.Server
}

func (p *listenerServerPair) close() error {
	if err := p.listener.Close(); err != nil {
		return err
	}
	return p.server.Close()
}

// ListenerGroup runs one handler across every binding resolved from a
// --listen flag, so an operator can expose predylogic on e.g. both a Unix
// loopback and a LAN interface from a single process.
type ListenerGroup struct {
	pairs []*listenerServerPair
}

// Listen opens a net.Listener for each binding and wires it to handler. Call
// Serve to start accepting, and Shutdown to stop.
func Listen(ctx context.Context, port int, listen []string, handler http.Handler) (*ListenerGroup, error) {
	bindings, err := ResolveBindings(port, listen)
	if err != nil {
		return nil, err
	}

	g := &ListenerGroup{pairs: make([]*listenerServerPair, 0, len(bindings))}
	for _, binding := range bindings {
		ln, err := net.Listen("tcp", binding)
		if err != nil {
			for _, p := range g.pairs {
				_ = p.close()
			}
			return nil, fmt.Errorf("httpapi: listen on %s: %w", binding, err)
		}
		g.pairs = append(g.pairs, &listenerServerPair{
			listener: ln,
			server: &http.Server{
				Handler:      handler,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 30 * time.Second,
				BaseContext: func(net.Listener) context.Context {
					return ctx
				},
			},
		})
		slog.DebugContext(ctx, "httpapi: listening", slog.String("binding", binding))
	}
	return g, nil
}

// Serve blocks accepting connections on every binding until every server has
// stopped, then returns the first error one of them reported (other than a
// graceful Shutdown), or nil.
func (g *ListenerGroup) Serve(ctx context.Context) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(g.pairs))

	for _, p := range g.pairs {
		wg.Add(1)
		go func(p *listenerServerPair) {
			defer wg.Done()
			slog.DebugContext(ctx, "httpapi: serving", slog.String("address", p.listener.Addr().String()))
			if err := p.server.Serve(p.listener); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}(p)
	}

	wg.Wait()
	close(errCh)
	return <-errCh
}

// Shutdown closes every listener and its server.
func (g *ListenerGroup) Shutdown(context.Context) error {
	for _, p := range g.pairs {
		if err := p.close(); err != nil {
			return err
		}
	}
	return nil
}
