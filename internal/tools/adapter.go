// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/effective-security/xlog"

	"odoomcp/cli/internal/audit"
	"odoomcp/cli/internal/backend"
	apperrors "odoomcp/cli/internal/errors"
	"odoomcp/cli/internal/logging"
)

var logger = xlog.NewPackageLogger("odoomcp/cli/internal", "tools")

// NotConnected is the payload returned when no backend session exists.
const NotConnected = "Error: Not connected to Odoo. Please check configuration."

// Result is the textual envelope returned for every invocation.
type Result struct {
	Text string
	// OK is false when Text reports a failure.
	OK bool
}

// Recorder receives one entry per invocation.
type Recorder interface {
	Record(ctx context.Context, e audit.Entry) error
}

// Adapter dispatches named tool invocations to a backend.
type Adapter struct {
	api      backend.API
	recorder Recorder
	now      func() time.Time
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithRecorder enables the invocation audit.
func WithRecorder(r Recorder) Option {
	return func(a *Adapter) { a.recorder = r }
}

// NewAdapter creates an Adapter. A nil api yields an adapter that answers
// every invocation with NotConnected.
func NewAdapter(api backend.API, opts ...Option) *Adapter {
	a := &Adapter{api: api, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ListTools returns the static catalog.
func (a *Adapter) ListTools() []Definition {
	return Catalog()
}

// Invoke runs the named tool with the given arguments. It never returns an
// error; failures are reported in Result.Text.
func (a *Adapter) Invoke(ctx context.Context, name string, bag Bag) Result {
	started := a.now()
	res, model := a.invoke(ctx, name, bag)
	return a.finish(ctx, name, model, res, started)
}

// InvokeJSON decodes raw JSON arguments and runs the named tool. Malformed
// arguments to a known tool are reported like any other invocation error.
func (a *Adapter) InvokeJSON(ctx context.Context, name string, raw []byte) Result {
	started := a.now()
	bag, err := DecodeBag(raw)
	if err != nil {
		if _, known := Lookup(name); known && a.api != nil {
			return a.finish(ctx, name, "", Result{Text: "Error: " + err.Error()}, started)
		}
		bag = nil
	}
	res, model := a.invoke(ctx, name, bag)
	return a.finish(ctx, name, model, res, started)
}

func (a *Adapter) finish(ctx context.Context, name, model string, res Result, started time.Time) Result {
	elapsed := a.now().Sub(started)
	logger.ContextKV(ctx, xlog.DEBUG,
		"tool", name,
		"model", model,
		"ok", res.OK,
		"elapsed", elapsed.String())

	if a.recorder != nil {
		entry := audit.NewEntry(name, model, res.OK, res.Text, elapsed)
		if err := a.recorder.Record(ctx, entry); err != nil {
			logger.ContextKV(ctx, xlog.WARNING,
				"reason", "audit",
				"tool", name,
				"err", err.Error())
		}
	}
	return res
}

func (a *Adapter) invoke(ctx context.Context, name string, bag Bag) (Result, string) {
	if a.api == nil {
		return Result{Text: NotConnected}, ""
	}
	if bag == nil {
		bag = Bag{}
	}
	model, _ := bag["model"].(string)

	text, err := a.dispatch(ctx, name, bag)
	if err != nil {
		if apperrors.Is(err, apperrors.UnknownTool) {
			return Result{Text: err.Error()}, model
		}
		logger.ContextKV(ctx, xlog.ERROR,
			"tool", name,
			"model", model,
			"kind", string(apperrors.KindOf(err)),
			"err", logging.Mask(err.Error()))
		return Result{Text: "Error: " + err.Error()}, model
	}
	return Result{Text: text, OK: true}, model
}

func (a *Adapter) dispatch(ctx context.Context, name string, bag Bag) (string, error) {
	switch name {
	case Search:
		args, err := parseSearch(bag)
		if err != nil {
			return "", err
		}
		ids, err := a.api.Search(ctx, args.Model, args.Domain, backend.SearchOptions{Limit: args.Limit, Offset: args.Offset})
		if err != nil {
			return "", err
		}
		return labelJSON("Search results", ids)

	case Read:
		args, err := parseRead(bag)
		if err != nil {
			return "", err
		}
		records, err := a.api.Read(ctx, args.Model, args.IDs, args.Fields)
		if err != nil {
			return "", err
		}
		return labelJSON("Read results", records)

	case Create:
		args, err := parseCreate(bag)
		if err != nil {
			return "", err
		}
		id, err := a.api.Create(ctx, args.Model, args.Values)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Created record ID: %d", id), nil

	case Write:
		args, err := parseWrite(bag)
		if err != nil {
			return "", err
		}
		ok, err := a.api.Write(ctx, args.Model, args.IDs, args.Values)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Write operation successful: %t", ok), nil

	case Unlink:
		args, err := parseUnlink(bag)
		if err != nil {
			return "", err
		}
		ok, err := a.api.Unlink(ctx, args.Model, args.IDs)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Delete operation successful: %t", ok), nil

	case SearchCount:
		args, err := parseSearchCount(bag)
		if err != nil {
			return "", err
		}
		n, err := a.api.SearchCount(ctx, args.Model, args.Domain)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Record count: %d", n), nil

	case FieldsGet:
		args, err := parseFieldsGet(bag)
		if err != nil {
			return "", err
		}
		defs, err := a.api.FieldsGet(ctx, args.Model, args.Fields)
		if err != nil {
			return "", err
		}
		return labelJSON("Field definitions", defs)

	case SearchRead:
		args, err := parseSearchRead(bag)
		if err != nil {
			return "", err
		}
		records, err := a.api.SearchRead(ctx, args.Model, args.Domain, backend.SearchReadOptions{
			Fields: args.Fields,
			Limit:  args.Limit,
			Offset: args.Offset,
		})
		if err != nil {
			return "", err
		}
		return labelJSON("Search and read results", records)

	default:
		return "", apperrors.New(apperrors.UnknownTool, "Unknown tool: "+name)
	}
}

// labelJSON renders v as two-space indented JSON after label. Markup in
// html fields is kept as is.
func labelJSON(label string, v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", apperrors.Wrap(apperrors.RemoteCall, "encode result", err)
	}
	return label + ": " + strings.TrimSuffix(buf.String(), "\n"), nil
}
