package backend

import (
	"fmt"

	apperrors "odoomcp/cli/internal/errors"
)

func unexpected(want string, got any) error {
	return apperrors.Newf(apperrors.RemoteCall, "XML-RPC call failed: unexpected reply, want %s, got %T", want, got)
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), n == float64(int64(n))
	default:
		return 0, false
	}
}

func decodeID(reply any) (int64, error) {
	id, ok := asInt64(reply)
	if !ok {
		return 0, unexpected("int", reply)
	}
	return id, nil
}

func decodeIDs(reply any) ([]int64, error) {
	items, ok := reply.([]any)
	if !ok {
		if reply == nil {
			return []int64{}, nil
		}
		return nil, unexpected("array of int", reply)
	}
	ids := make([]int64, 0, len(items))
	for i, item := range items {
		id, ok := asInt64(item)
		if !ok {
			return nil, unexpected(fmt.Sprintf("int at index %d", i), item)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func decodeBool(reply any) (bool, error) {
	switch b := reply.(type) {
	case bool:
		return b, nil
	case nil:
		return false, nil
	default:
		return false, unexpected("boolean", reply)
	}
}

func decodeStruct(reply any) (map[string]any, error) {
	m, ok := reply.(map[string]any)
	if !ok {
		return nil, unexpected("struct", reply)
	}
	return m, nil
}

func decodeRecords(reply any) ([]map[string]any, error) {
	items, ok := reply.([]any)
	if !ok {
		if reply == nil {
			return []map[string]any{}, nil
		}
		return nil, unexpected("array of struct", reply)
	}
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, unexpected(fmt.Sprintf("struct at index %d", i), item)
		}
		out = append(out, m)
	}
	return out, nil
}
