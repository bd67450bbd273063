// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"io"
	"sync"

	"github.com/effective-security/xlog"

	"odoomcp/cli/internal/config"
	apperrors "odoomcp/cli/internal/errors"
	"odoomcp/cli/internal/logging"
)

var logger = xlog.NewPackageLogger("odoomcp/cli/internal", "backend")

// Session holds the connection descriptor, the two channels and the user id
// obtained at login. The user id is written at most once; there is no
// logout and no expiry handling.
type Session struct {
	desc   *config.Descriptor
	common Caller
	object Caller

	mu  sync.Mutex
	uid int64
}

// NewSession builds a Session over already constructed channels.
func NewSession(desc *config.Descriptor, common, object Caller) *Session {
	return &Session{desc: desc, common: common, object: object}
}

// UID returns the authenticated user id, or 0 before login.
func (s *Session) UID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uid
}

// Authenticate logs in on the common channel and stores the user id.
// Odoo reports bad credentials with a falsy reply rather than a fault, so
// nil, false and non-positive ids are all treated as failures.
func (s *Session) Authenticate(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticateLocked(ctx)
}

func (s *Session) authenticateLocked(ctx context.Context) (int64, error) {
	reply, err := s.common.Call(ctx, "authenticate", []any{
		s.desc.Database,
		s.desc.Username,
		s.desc.Password,
		map[string]any{},
	})
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"reason", "authenticate",
			"db", s.desc.Database,
			"user", s.desc.Username,
			"err", logging.Mask(err.Error()))
		return 0, apperrors.Wrap(apperrors.Authentication, "Authentication failed", err)
	}

	uid, ok := asInt64(reply)
	if !ok || uid <= 0 {
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "credentials_rejected",
			"db", s.desc.Database,
			"user", s.desc.Username)
		return 0, apperrors.New(apperrors.Authentication, "Authentication failed - check username/password")
	}

	s.uid = uid
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "authenticated",
		"db", s.desc.Database,
		"uid", uid)
	return uid, nil
}

// ExecuteKw calls model.method on the object channel, logging in first when
// no user id is held yet. nil kwargs are sent as an empty struct.
func (s *Session) ExecuteKw(ctx context.Context, model, method string, args []any, kwargs map[string]any) (any, error) {
	s.mu.Lock()
	uid := s.uid
	if uid == 0 {
		var err error
		if uid, err = s.authenticateLocked(ctx); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	s.mu.Unlock()

	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"model", model,
		"method", method)

	reply, err := s.object.Call(ctx, "execute_kw", []any{
		s.desc.Database,
		uid,
		s.desc.Password,
		model,
		method,
		args,
		kwargs,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.RemoteCall, "XML-RPC call failed", err)
	}
	return reply, nil
}

// Close releases the channels that hold network resources.
func (s *Session) Close() error {
	var first error
	for _, c := range []Caller{s.common, s.object} {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
