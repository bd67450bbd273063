// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend talks to an Odoo server over its XML-RPC endpoints.
// A Session owns the "common" (login) and "object" (execute_kw) channels,
// authenticates once, and exposes the record operations the tool layer
// needs as thin argument-shaping wrappers over execute_kw.
package backend

import "context"

// API defines the backend operations the tool layer depends on.
// Session is the XML-RPC implementation; tests provide fakes.
type API interface {
	Search(ctx context.Context, model string, domain []any, opts SearchOptions) ([]int64, error)
	Read(ctx context.Context, model string, ids []int64, fields []string) ([]map[string]any, error)
	Create(ctx context.Context, model string, values map[string]any) (int64, error)
	Write(ctx context.Context, model string, ids []int64, values map[string]any) (bool, error)
	Unlink(ctx context.Context, model string, ids []int64) (bool, error)
	SearchCount(ctx context.Context, model string, domain []any) (int64, error)
	FieldsGet(ctx context.Context, model string, fields []string) (map[string]any, error)
	SearchRead(ctx context.Context, model string, domain []any, opts SearchReadOptions) ([]map[string]any, error)
}

// SearchOptions are the named arguments of search.
type SearchOptions struct {
	Limit  int
	Offset int
}

// SearchReadOptions are the named arguments of search_read.
type SearchReadOptions struct {
	Fields []string
	Limit  int
	Offset int
}

var _ API = (*Session)(nil)
