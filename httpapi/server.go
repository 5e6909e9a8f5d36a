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

// Package httpapi exposes the engine over HTTP: manifest hot-reload and rule
// invocation, one surface per registry. It uses stdlib http.NewServeMux with
// Go 1.22+ method+pattern routes rather than a third-party router (see
// DESIGN.md).
//
// An embedded engine that can only be reconfigured by restarting the
// process is a poor fit for the hot-reload story the rest of the engine is
// built around, so this network surface lets a manifest be pushed and rules
// invoked without a restart.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/Nagato-Yuzuru/predylogic/engine"
	"github.com/Nagato-Yuzuru/predylogic/manifest"
	"github.com/Nagato-Yuzuru/predylogic/telemetry"
)

// ContextDecoder builds the engine's typed evaluation context C from an
// invocation request body. The server is generic over C, so it cannot know
// how to do this itself; the caller supplies the decoder when constructing
// the Server.
type ContextDecoder[C any] func(r *http.Request) (C, error)

// Server is the HTTP front end for one RuleEngine.
type Server[C any] struct {
	engine     *engine.RuleEngine[C]
	decode     ContextDecoder[C]
	handler    http.Handler
	auditSpans bool
}

// Option configures a Server at construction.
type Option[C any] func(*Server[C])

// WithAuditSpanExport makes the audit endpoint replay each produced trace
// tree as OpenTelemetry spans via telemetry.EmitAuditSpans, on top of
// returning the trace in the response body. Only useful when a telemetry
// provider has been installed.
func WithAuditSpanExport[C any]() Option[C] {
	return func(s *Server[C]) { s.auditSpans = true }
}

// New builds a Server and wires its routes. decode supplies the per-request
// typed context for invoke/audit calls.
func New[C any](e *engine.RuleEngine[C], decode ContextDecoder[C], opts ...Option[C]) *Server[C] {
	s := &Server[C]{engine: e, decode: decode}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /registries/{name}/manifest", s.handleManifest)
	mux.HandleFunc("POST /registries/{name}/rules/{id}/invoke", s.handleInvoke)
	mux.HandleFunc("POST /registries/{name}/rules/{id}/audit", s.handleAudit)
	mux.HandleFunc("GET /health", handleHealth)

	s.handler = withRequestID(withOtelSpan(mux))
	return s
}

// ServeHTTP lets Server be used directly as an http.Handler.
func (s *Server[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server[C]) handleManifest(w http.ResponseWriter, r *http.Request) {
	var m manifest.Manifest
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m.Registry = r.PathValue("name")

	if err := s.engine.UpdateManifests(r.Context(), m); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server[C]) handleInvoke(w http.ResponseWriter, r *http.Request) {
	registryName := r.PathValue("name")
	ruleID := r.PathValue("id")

	shortCircuit := r.URL.Query().Get("short_circuit") != "false"

	c, err := s.decode(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	h := s.engine.GetPredicateHandle(registryName, ruleID)
	result, err := h.Eval(r.Context(), c, shortCircuit)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

func (s *Server[C]) handleAudit(w http.ResponseWriter, r *http.Request) {
	registryName := r.PathValue("name")
	ruleID := r.PathValue("id")

	shortCircuit := r.URL.Query().Get("short_circuit") != "false"

	c, err := s.decode(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	h := s.engine.GetPredicateHandle(registryName, ruleID)
	result, err := h.Audit(r.Context(), c, shortCircuit)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if s.auditSpans {
		telemetry.EmitAuditSpans(r.Context(), registryName+"/"+ruleID, result)
	}
	writeJSON(w, http.StatusOK, result)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
