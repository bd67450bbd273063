package tools

import (
	"context"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"odoomcp/cli/internal/audit"
	"odoomcp/cli/internal/backend"
	apperrors "odoomcp/cli/internal/errors"
)

// fakeAPI records the last call and returns canned values.
type fakeAPI struct {
	calls []string
	err   error

	domain  []any
	ids     []int64
	fields  []string
	values  map[string]any
	search  backend.SearchOptions
	srOpts  backend.SearchReadOptions
	records []map[string]any
}

func (f *fakeAPI) Search(_ context.Context, model string, domain []any, opts backend.SearchOptions) ([]int64, error) {
	f.calls = append(f.calls, "search:"+model)
	f.domain, f.search = domain, opts
	return []int64{1, 2}, f.err
}

func (f *fakeAPI) Read(_ context.Context, model string, ids []int64, fields []string) ([]map[string]any, error) {
	f.calls = append(f.calls, "read:"+model)
	f.ids, f.fields = ids, fields
	return f.records, f.err
}

func (f *fakeAPI) Create(_ context.Context, model string, values map[string]any) (int64, error) {
	f.calls = append(f.calls, "create:"+model)
	f.values = values
	return 42, f.err
}

func (f *fakeAPI) Write(_ context.Context, model string, ids []int64, values map[string]any) (bool, error) {
	f.calls = append(f.calls, "write:"+model)
	f.ids, f.values = ids, values
	return true, f.err
}

func (f *fakeAPI) Unlink(_ context.Context, model string, ids []int64) (bool, error) {
	f.calls = append(f.calls, "unlink:"+model)
	f.ids = ids
	return true, f.err
}

func (f *fakeAPI) SearchCount(_ context.Context, model string, domain []any) (int64, error) {
	f.calls = append(f.calls, "search_count:"+model)
	f.domain = domain
	return 7, f.err
}

func (f *fakeAPI) FieldsGet(_ context.Context, model string, fields []string) (map[string]any, error) {
	f.calls = append(f.calls, "fields_get:"+model)
	f.fields = fields
	return map[string]any{"name": map[string]any{"type": "char"}}, f.err
}

func (f *fakeAPI) SearchRead(_ context.Context, model string, domain []any, opts backend.SearchReadOptions) ([]map[string]any, error) {
	f.calls = append(f.calls, "search_read:"+model)
	f.domain, f.srOpts = domain, opts
	return f.records, f.err
}

type memRecorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (m *memRecorder) Record(_ context.Context, e audit.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func TestInvoke_NotConnected(t *testing.T) {
	a := NewAdapter(nil)

	for _, name := range []string{Search, Create, "nope"} {
		res := a.Invoke(context.Background(), name, Bag{"model": "res.partner"})
		assert.Equal(t, NotConnected, res.Text)
		assert.False(t, res.OK)
	}
}

func TestInvoke_UnknownTool(t *testing.T) {
	api := &fakeAPI{}
	a := NewAdapter(api)

	res := a.Invoke(context.Background(), "odoo_drop_database", nil)
	assert.Equal(t, "Unknown tool: odoo_drop_database", res.Text)
	assert.False(t, res.OK)
	assert.Empty(t, api.calls)
}

func TestInvoke_Search(t *testing.T) {
	api := &fakeAPI{}
	a := NewAdapter(api)

	res := a.Invoke(context.Background(), Search, Bag{"model": "res.partner"})
	assert.True(t, res.OK)
	assert.Equal(t, "Search results: [\n  1,\n  2\n]", res.Text)
	assert.Equal(t, []any{}, api.domain)
	assert.Equal(t, backend.SearchOptions{Limit: 100, Offset: 0}, api.search)

	res = a.Invoke(context.Background(), Search, Bag{
		"model":  "res.partner",
		"domain": []any{[]any{"name", "ilike", "acme"}},
		"limit":  float64(5),
		"offset": int64(10),
	})
	assert.True(t, res.OK)
	assert.Equal(t, backend.SearchOptions{Limit: 5, Offset: 10}, api.search)
	assert.Equal(t, []any{[]any{"name", "ilike", "acme"}}, api.domain)
}

func TestInvoke_Payloads(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{records: []map[string]any{{"id": 1, "name": "Acme"}}}
	a := NewAdapter(api)

	tests := []struct {
		name string
		bag  Bag
		want string
	}{
		{Read, Bag{"model": "res.partner", "ids": []any{int64(1)}},
			"Read results: [\n  {\n    \"id\": 1,\n    \"name\": \"Acme\"\n  }\n]"},
		{Create, Bag{"model": "res.partner", "values": map[string]any{"name": "Acme"}}, "Created record ID: 42"},
		{Write, Bag{"model": "res.partner", "ids": []any{int64(1)}, "values": map[string]any{"name": "B"}}, "Write operation successful: true"},
		{Unlink, Bag{"model": "res.partner", "ids": []int{1}}, "Delete operation successful: true"},
		{SearchCount, Bag{"model": "res.partner"}, "Record count: 7"},
		{FieldsGet, Bag{"model": "res.partner"},
			"Field definitions: {\n  \"name\": {\n    \"type\": \"char\"\n  }\n}"},
		{SearchRead, Bag{"model": "res.partner"},
			"Search and read results: [\n  {\n    \"id\": 1,\n    \"name\": \"Acme\"\n  }\n]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := a.Invoke(ctx, tt.name, tt.bag)
			assert.True(t, res.OK, res.Text)
			assert.Equal(t, tt.want, res.Text)
		})
	}
}

func TestInvoke_Defaults(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	a := NewAdapter(api)

	a.Invoke(ctx, Read, Bag{"model": "res.partner", "ids": []any{int64(1), int64(2)}})
	assert.Equal(t, []int64{1, 2}, api.ids)
	assert.Equal(t, []string{}, api.fields)

	a.Invoke(ctx, SearchRead, Bag{"model": "res.partner", "fields": []any{"name"}})
	assert.Equal(t, backend.SearchReadOptions{Fields: []string{"name"}, Limit: 100, Offset: 0}, api.srOpts)
	assert.Equal(t, []any{}, api.domain)

	a.Invoke(ctx, FieldsGet, Bag{"model": "res.partner"})
	assert.Equal(t, []string{}, api.fields)
}

func TestInvoke_CreateRemoteError(t *testing.T) {
	api := &fakeAPI{err: apperrors.Wrap(apperrors.RemoteCall, "XML-RPC call failed", errors.New("ValidationError: name is required"))}
	a := NewAdapter(api)

	res := a.Invoke(context.Background(), Create, Bag{"model": "res.partner", "values": map[string]any{}})
	assert.False(t, res.OK)
	assert.Equal(t, "Error: XML-RPC call failed: ValidationError: name is required", res.Text)
}

func TestInvoke_MissingArguments(t *testing.T) {
	api := &fakeAPI{}
	a := NewAdapter(api)
	ctx := context.Background()

	res := a.Invoke(ctx, Search, Bag{})
	assert.Equal(t, "Error: missing required argument: model", res.Text)

	res = a.Invoke(ctx, Write, Bag{"model": "res.partner", "values": map[string]any{}})
	assert.Equal(t, "Error: missing required argument: ids", res.Text)

	res = a.Invoke(ctx, Create, Bag{"model": "res.partner"})
	assert.Equal(t, "Error: missing required argument: values", res.Text)

	res = a.Invoke(ctx, Read, Bag{"model": "res.partner", "ids": "1,2"})
	assert.Equal(t, "Error: argument ids must be array of integers, got string", res.Text)

	assert.Empty(t, api.calls)
}

func TestInvokeJSON(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	a := NewAdapter(api)

	res := a.InvokeJSON(ctx, Search, []byte(`{"model":"res.partner","limit":10,"offset":0,"domain":[]}`))
	require.True(t, res.OK, res.Text)
	assert.Equal(t, backend.SearchOptions{Limit: 10}, api.search)

	res = a.InvokeJSON(ctx, Unlink, []byte(`{"model":"res.partner","ids":[3,4]}`))
	require.True(t, res.OK, res.Text)
	assert.Equal(t, []int64{3, 4}, api.ids)

	res = a.InvokeJSON(ctx, Search, []byte(`{"model":`))
	assert.False(t, res.OK)
	assert.Contains(t, res.Text, "Error: invalid arguments")

	res = a.InvokeJSON(ctx, "nope", []byte(`[`))
	assert.Equal(t, "Unknown tool: nope", res.Text)

	res = NewAdapter(nil).InvokeJSON(ctx, Search, []byte(`[`))
	assert.Equal(t, NotConnected, res.Text)
}

func TestInvoke_Records(t *testing.T) {
	rec := &memRecorder{}
	a := NewAdapter(&fakeAPI{}, WithRecorder(rec))

	a.Invoke(context.Background(), SearchCount, Bag{"model": "res.partner"})
	a.Invoke(context.Background(), "nope", nil)

	require.Len(t, rec.entries, 2)
	assert.Equal(t, SearchCount, rec.entries[0].Tool)
	assert.Equal(t, "res.partner", rec.entries[0].Model)
	assert.True(t, rec.entries[0].OK)
	assert.Equal(t, "Record count: 7", rec.entries[0].Message)
	assert.False(t, rec.entries[1].OK)
}

func TestInvoke_ReadKeepsMarkup(t *testing.T) {
	api := &fakeAPI{records: []map[string]any{{"id": int64(3), "comment": "<p>R&D</p>"}}}
	a := NewAdapter(api)

	res := a.Invoke(context.Background(), Read, Bag{"model": "res.partner", "ids": []any{int64(3)}})
	require.True(t, res.OK)
	assert.Equal(t, "Read results: [\n  {\n    \"comment\": \"<p>R&D</p>\",\n    \"id\": 3\n  }\n]", res.Text)
}

func TestInvoke_UnlinkRejectsNullID(t *testing.T) {
	api := &fakeAPI{}
	a := NewAdapter(api)

	res := a.Invoke(context.Background(), Unlink, Bag{"model": "res.partner", "ids": []any{nil, int64(5)}})
	assert.False(t, res.OK)
	assert.Equal(t, "Error: argument ids[0] must be integer, got <nil>", res.Text)
	assert.Empty(t, api.calls)
}
