// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package tools maps the fixed catalog of Odoo operations onto the backend
// session. Invoke never fails at the envelope level: every outcome, including
// errors, is reported as payload text.
package tools

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

// Tool names exposed to MCP clients.
const (
	Search      = "odoo_search"
	Read        = "odoo_read"
	Create      = "odoo_create"
	Write       = "odoo_write"
	Unlink      = "odoo_unlink"
	SearchCount = "odoo_search_count"
	FieldsGet   = "odoo_fields_get"
	SearchRead  = "odoo_search_read"
)

// Defaults applied to optional arguments.
const (
	DefaultLimit  = 100
	DefaultOffset = 0
)

// Param describes one tool argument.
type Param struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Items       string `json:"items,omitempty" yaml:"items,omitempty"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty"`
}

// Definition describes one tool of the catalog.
type Definition struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Params      []Param `json:"params" yaml:"params"`
}

var (
	pModel = Param{Name: "model", Type: "string", Required: true,
		Description: "Odoo model name"}
	pDomain = Param{Name: "domain", Type: "array", Default: []any{},
		Description: "Search domain as list of tuples"}
	pLimit = Param{Name: "limit", Type: "integer", Default: DefaultLimit,
		Description: "Maximum number of records to return"}
	pOffset = Param{Name: "offset", Type: "integer", Default: DefaultOffset,
		Description: "Number of records to skip"}
	pIDs = Param{Name: "ids", Type: "array", Items: "integer", Required: true}
	pFields = Param{Name: "fields", Type: "array", Items: "string", Default: []any{},
		Description: "List of fields to read"}
	pValues = Param{Name: "values", Type: "object", Required: true}
)

func with(p Param, desc string) Param {
	p.Description = desc
	return p
}

// Catalog returns the static tool catalog. The slice is freshly built on each
// call so callers may modify it.
func Catalog() []Definition {
	return []Definition{
		{
			Name:        Search,
			Description: "Search for records in Odoo model",
			Params:      []Param{with(pModel, "Odoo model name (e.g., 'res.partner')"), pDomain, pLimit, pOffset},
		},
		{
			Name:        Read,
			Description: "Read specific records from Odoo model",
			Params:      []Param{pModel, with(pIDs, "List of record IDs to read"), pFields},
		},
		{
			Name:        Create,
			Description: "Create new record in Odoo model",
			Params:      []Param{pModel, with(pValues, "Dictionary of field values for new record")},
		},
		{
			Name:        Write,
			Description: "Update existing records in Odoo model",
			Params: []Param{
				pModel,
				with(pIDs, "List of record IDs to update"),
				with(pValues, "Dictionary of field values to update"),
			},
		},
		{
			Name:        Unlink,
			Description: "Delete records from Odoo model",
			Params:      []Param{pModel, with(pIDs, "List of record IDs to delete")},
		},
		{
			Name:        SearchCount,
			Description: "Count records matching domain in Odoo model",
			Params:      []Param{pModel, pDomain},
		},
		{
			Name:        FieldsGet,
			Description: "Get field definitions for Odoo model",
			Params:      []Param{pModel, with(pFields, "Specific fields to get info for")},
		},
		{
			Name:        SearchRead,
			Description: "Search and read records in one call",
			Params:      []Param{pModel, pDomain, pFields, pLimit, pOffset},
		},
	}
}

// Lookup returns the definition with the given name.
func Lookup(name string) (Definition, bool) {
	for _, d := range Catalog() {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Schema renders the definition's input as a JSON Schema object.
func (d Definition) Schema() *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for _, p := range d.Params {
		prop := &jsonschema.Schema{
			Type:        p.Type,
			Description: p.Description,
			Default:     p.Default,
		}
		if p.Items != "" {
			prop.Items = &jsonschema.Schema{Type: p.Items}
		}
		s.Properties.Set(p.Name, prop)
		if p.Required {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s
}

// InputSchema returns the JSON encoding of Schema.
func (d Definition) InputSchema() (json.RawMessage, error) {
	raw, err := json.Marshal(d.Schema())
	if err != nil {
		return nil, errors.Wrapf(err, "encode input schema for %s", d.Name)
	}
	return raw, nil
}
