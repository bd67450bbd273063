package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	defs := Catalog()
	require.Len(t, defs, 8)

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{
		Search, Read, Create, Write, Unlink, SearchCount, FieldsGet, SearchRead,
	}, names)

	// callers get their own copy
	defs[0].Name = "changed"
	assert.Equal(t, Search, Catalog()[0].Name)
}

func TestLookup(t *testing.T) {
	d, ok := Lookup(Write)
	require.True(t, ok)
	assert.Equal(t, "Update existing records in Odoo model", d.Description)

	_, ok = Lookup("odoo_missing")
	assert.False(t, ok)
}

func TestInputSchema(t *testing.T) {
	d, _ := Lookup(SearchRead)
	raw, err := d.InputSchema()
	require.NoError(t, err)

	var got struct {
		Type       string `json:"type"`
		Required   []string
		Properties map[string]struct {
			Type    string `json:"type"`
			Default any    `json:"default"`
			Items   *struct {
				Type string `json:"type"`
			} `json:"items"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "object", got.Type)
	assert.Equal(t, []string{"model"}, got.Required)
	assert.Equal(t, "integer", got.Properties["limit"].Type)
	assert.Equal(t, float64(100), got.Properties["limit"].Default)
	assert.Equal(t, float64(0), got.Properties["offset"].Default)
	assert.Equal(t, []any{}, got.Properties["domain"].Default)
	require.NotNil(t, got.Properties["fields"].Items)
	assert.Equal(t, "string", got.Properties["fields"].Items.Type)

	w, _ := Lookup(Write)
	assert.Equal(t, []string{"model", "ids", "values"}, w.Schema().Required)
}
