// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import "context"

// Search returns the ids of records in model matching domain.
func (s *Session) Search(ctx context.Context, model string, domain []any, opts SearchOptions) ([]int64, error) {
	reply, err := s.ExecuteKw(ctx, model, "search", []any{orEmpty(domain)}, map[string]any{
		"limit":  opts.Limit,
		"offset": opts.Offset,
	})
	if err != nil {
		return nil, err
	}
	return decodeIDs(reply)
}

// Read returns the given fields of the records. An empty field list asks the
// server for every field.
func (s *Session) Read(ctx context.Context, model string, ids []int64, fields []string) ([]map[string]any, error) {
	kwargs := map[string]any{}
	if len(fields) > 0 {
		kwargs["fields"] = fields
	}
	reply, err := s.ExecuteKw(ctx, model, "read", []any{idList(ids)}, kwargs)
	if err != nil {
		return nil, err
	}
	return decodeRecords(reply)
}

// Create inserts one record and returns its id.
func (s *Session) Create(ctx context.Context, model string, values map[string]any) (int64, error) {
	reply, err := s.ExecuteKw(ctx, model, "create", []any{orEmptyMap(values)}, nil)
	if err != nil {
		return 0, err
	}
	return decodeID(reply)
}

// Write updates the records with values.
func (s *Session) Write(ctx context.Context, model string, ids []int64, values map[string]any) (bool, error) {
	reply, err := s.ExecuteKw(ctx, model, "write", []any{idList(ids), orEmptyMap(values)}, nil)
	if err != nil {
		return false, err
	}
	return decodeBool(reply)
}

// Unlink deletes the records.
func (s *Session) Unlink(ctx context.Context, model string, ids []int64) (bool, error) {
	reply, err := s.ExecuteKw(ctx, model, "unlink", []any{idList(ids)}, nil)
	if err != nil {
		return false, err
	}
	return decodeBool(reply)
}

// SearchCount returns the number of records matching domain.
func (s *Session) SearchCount(ctx context.Context, model string, domain []any) (int64, error) {
	reply, err := s.ExecuteKw(ctx, model, "search_count", []any{orEmpty(domain)}, nil)
	if err != nil {
		return 0, err
	}
	return decodeID(reply)
}

// FieldsGet returns field metadata keyed by field name.
func (s *Session) FieldsGet(ctx context.Context, model string, fields []string) (map[string]any, error) {
	if fields == nil {
		fields = []string{}
	}
	reply, err := s.ExecuteKw(ctx, model, "fields_get", []any{fields}, nil)
	if err != nil {
		return nil, err
	}
	return decodeStruct(reply)
}

// SearchRead combines search and read in one round trip. Unlike Read, the
// fields argument is always sent.
func (s *Session) SearchRead(ctx context.Context, model string, domain []any, opts SearchReadOptions) ([]map[string]any, error) {
	fields := opts.Fields
	if fields == nil {
		fields = []string{}
	}
	reply, err := s.ExecuteKw(ctx, model, "search_read", []any{orEmpty(domain)}, map[string]any{
		"fields": fields,
		"limit":  opts.Limit,
		"offset": opts.Offset,
	})
	if err != nil {
		return nil, err
	}
	return decodeRecords(reply)
}

// idList converts ids to a generic slice so they encode as an XML-RPC array
// of ints regardless of the codec's slice handling.
func idList(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func orEmpty(v []any) []any {
	if v == nil {
		return []any{}
	}
	return v
}

func orEmptyMap(v map[string]any) map[string]any {
	if v == nil {
		return map[string]any{}
	}
	return v
}
