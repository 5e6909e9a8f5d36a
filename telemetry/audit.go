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

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	ptrace "github.com/Nagato-Yuzuru/predylogic/trace"
)

var tracer = otel.Tracer("github.com/Nagato-Yuzuru/predylogic")

// EmitAuditSpans bridges an audit-mode trace.Node tree into a span tree
// rooted under a span named rootLabel, one child span per trace.Node, so an
// operator can view a single rule evaluation's evaluation shape in whatever
// backend the configured exporter feeds. It is a post-hoc bridge: the
// predicate tree evaluates fully in-process first (package compiler), and
// this only replays the resulting trace as spans, so enabling it never
// changes evaluation semantics or performance on the hot path unless called.
func EmitAuditSpans(ctx context.Context, rootLabel string, root *ptrace.Node) {
	ctx, span := tracer.Start(ctx, rootLabel)
	defer span.End()
	emit(ctx, root)
}

func emit(ctx context.Context, n *ptrace.Node) {
	label := n.Label
	if label == "" {
		label = n.Operator
	}
	ctx, span := tracer.Start(ctx, label)
	defer span.End()

	span.SetAttributes(
		attribute.String("predylogic.operator", n.Operator),
		attribute.Bool("predylogic.skipped", n.Skipped),
	)
	if n.Success != nil {
		span.SetAttributes(attribute.Bool("predylogic.success", *n.Success))
	}
	if n.Err != "" {
		span.SetStatus(codes.Error, n.Err)
	}

	for _, child := range n.Children {
		emit(ctx, child)
	}
}
