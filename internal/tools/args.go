package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "odoomcp/cli/internal/errors"
)

// Bag is the loosely typed argument map received from the client.
type Bag map[string]any

// SearchArgs are the arguments of odoo_search.
type SearchArgs struct {
	Model  string `json:"model" validate:"required"`
	Domain []any  `json:"domain"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// ReadArgs are the arguments of odoo_read.
type ReadArgs struct {
	Model  string   `json:"model" validate:"required"`
	IDs    []int64  `json:"ids" validate:"required"`
	Fields []string `json:"fields"`
}

// CreateArgs are the arguments of odoo_create.
type CreateArgs struct {
	Model  string         `json:"model" validate:"required"`
	Values map[string]any `json:"values" validate:"required"`
}

// WriteArgs are the arguments of odoo_write.
type WriteArgs struct {
	Model  string         `json:"model" validate:"required"`
	IDs    []int64        `json:"ids" validate:"required"`
	Values map[string]any `json:"values" validate:"required"`
}

// UnlinkArgs are the arguments of odoo_unlink.
type UnlinkArgs struct {
	Model string  `json:"model" validate:"required"`
	IDs   []int64 `json:"ids" validate:"required"`
}

// SearchCountArgs are the arguments of odoo_search_count.
type SearchCountArgs struct {
	Model  string `json:"model" validate:"required"`
	Domain []any  `json:"domain"`
}

// FieldsGetArgs are the arguments of odoo_fields_get.
type FieldsGetArgs struct {
	Model  string   `json:"model" validate:"required"`
	Fields []string `json:"fields"`
}

// SearchReadArgs are the arguments of odoo_search_read.
type SearchReadArgs struct {
	Model  string   `json:"model" validate:"required"`
	Domain []any    `json:"domain"`
	Fields []string `json:"fields"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func check(args any) error {
	err := validate.Struct(args)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return apperrors.Newf(apperrors.InvalidArgument, "missing required argument: %s", verrs[0].Field())
	}
	return apperrors.Wrap(apperrors.InvalidArgument, "invalid arguments", err)
}

// DecodeBag parses raw JSON arguments into a Bag, keeping numbers exact.
// Empty input yields an empty bag.
func DecodeBag(raw []byte) (Bag, error) {
	bag := Bag{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return bag, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, apperrors.Wrap(apperrors.InvalidArgument, "invalid arguments", err)
	}
	switch m := normalize(v).(type) {
	case map[string]any:
		return Bag(m), nil
	case nil:
		return bag, nil
	default:
		return nil, apperrors.Newf(apperrors.InvalidArgument, "invalid arguments: expected object, got %T", v)
	}
}

// normalize converts json.Number values to int64 when integral and to
// float64 otherwise, recursing into arrays and objects.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	default:
		return v
	}
}

func (b Bag) str(key string) (string, error) {
	v, ok := b[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(key, "string", v)
	}
	return s, nil
}

func (b Bag) integer(key string, def int) (int, error) {
	v, ok := b[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, typeError(key, "integer", v)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, typeError(key, "integer", v)
		}
		return int(i), nil
	default:
		return 0, typeError(key, "integer", v)
	}
}

func (b Bag) list(key string) ([]any, error) {
	v, ok := b[key]
	if !ok || v == nil {
		return []any{}, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, typeError(key, "array", v)
	}
	return l, nil
}

func (b Bag) ids(key string) ([]int64, error) {
	v, ok := b[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch l := v.(type) {
	case []int64:
		return l, nil
	case []int:
		out := make([]int64, len(l))
		for i, n := range l {
			out[i] = int64(n)
		}
		return out, nil
	case []any:
		out := make([]int64, 0, len(l))
		for i, e := range l {
			if e == nil {
				return nil, typeError(fmt.Sprintf("%s[%d]", key, i), "integer", e)
			}
			id, err := Bag{"": e}.integer("", 0)
			if err != nil {
				return nil, typeError(fmt.Sprintf("%s[%d]", key, i), "integer", e)
			}
			out = append(out, int64(id))
		}
		return out, nil
	default:
		return nil, typeError(key, "array of integers", v)
	}
}

func (b Bag) strings(key string) ([]string, error) {
	v, ok := b[key]
	if !ok || v == nil {
		return []string{}, nil
	}
	switch l := v.(type) {
	case []string:
		return l, nil
	case []any:
		out := make([]string, 0, len(l))
		for i, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, typeError(fmt.Sprintf("%s[%d]", key, i), "string", e)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, typeError(key, "array of strings", v)
	}
}

func (b Bag) object(key string) (map[string]any, error) {
	v, ok := b[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, typeError(key, "object", v)
	}
	return m, nil
}

func typeError(key, want string, got any) error {
	return apperrors.Newf(apperrors.InvalidArgument, "argument %s must be %s, got %T", key, want, got)
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func parseSearch(b Bag) (args SearchArgs, err error) {
	var e [4]error
	args.Model, e[0] = b.str("model")
	args.Domain, e[1] = b.list("domain")
	args.Limit, e[2] = b.integer("limit", DefaultLimit)
	args.Offset, e[3] = b.integer("offset", DefaultOffset)
	if err = firstErr(e[:]...); err != nil {
		return args, err
	}
	return args, check(args)
}

func parseRead(b Bag) (args ReadArgs, err error) {
	var e [3]error
	args.Model, e[0] = b.str("model")
	args.IDs, e[1] = b.ids("ids")
	args.Fields, e[2] = b.strings("fields")
	if err = firstErr(e[:]...); err != nil {
		return args, err
	}
	return args, check(args)
}

func parseCreate(b Bag) (args CreateArgs, err error) {
	var e [2]error
	args.Model, e[0] = b.str("model")
	args.Values, e[1] = b.object("values")
	if err = firstErr(e[:]...); err != nil {
		return args, err
	}
	return args, check(args)
}

func parseWrite(b Bag) (args WriteArgs, err error) {
	var e [3]error
	args.Model, e[0] = b.str("model")
	args.IDs, e[1] = b.ids("ids")
	args.Values, e[2] = b.object("values")
	if err = firstErr(e[:]...); err != nil {
		return args, err
	}
	return args, check(args)
}

func parseUnlink(b Bag) (args UnlinkArgs, err error) {
	var e [2]error
	args.Model, e[0] = b.str("model")
	args.IDs, e[1] = b.ids("ids")
	if err = firstErr(e[:]...); err != nil {
		return args, err
	}
	return args, check(args)
}

func parseSearchCount(b Bag) (args SearchCountArgs, err error) {
	var e [2]error
	args.Model, e[0] = b.str("model")
	args.Domain, e[1] = b.list("domain")
	if err = firstErr(e[:]...); err != nil {
		return args, err
	}
	return args, check(args)
}

func parseFieldsGet(b Bag) (args FieldsGetArgs, err error) {
	var e [2]error
	args.Model, e[0] = b.str("model")
	args.Fields, e[1] = b.strings("fields")
	if err = firstErr(e[:]...); err != nil {
		return args, err
	}
	return args, check(args)
}

func parseSearchRead(b Bag) (args SearchReadArgs, err error) {
	var e [5]error
	args.Model, e[0] = b.str("model")
	args.Domain, e[1] = b.list("domain")
	args.Fields, e[2] = b.strings("fields")
	args.Limit, e[3] = b.integer("limit", DefaultLimit)
	args.Offset, e[4] = b.integer("offset", DefaultOffset)
	if err = firstErr(e[:]...); err != nil {
		return args, err
	}
	return args, check(args)
}
