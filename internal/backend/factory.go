// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/url"
	"strings"

	"odoomcp/cli/internal/config"
	apperrors "odoomcp/cli/internal/errors"
)

// XML-RPC endpoint paths of an Odoo server.
const (
	CommonPath = "/xmlrpc/2/common"
	ObjectPath = "/xmlrpc/2/object"
)

// New creates a Session for the descriptor with one XML-RPC channel per
// endpoint. The transport is TLS when the URL scheme is https.
func New(desc *config.Descriptor) (*Session, error) {
	u, err := url.Parse(strings.TrimSpace(desc.URL))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Configuration, "invalid Odoo url", err)
	}
	secure := false
	switch strings.ToLower(u.Scheme) {
	case "https":
		secure = true
	case "http":
	default:
		return nil, apperrors.Newf(apperrors.Configuration, "invalid Odoo url %q: scheme must be http or https", desc.URL)
	}
	if u.Host == "" {
		return nil, apperrors.Newf(apperrors.Configuration, "invalid Odoo url %q: missing host", desc.URL)
	}

	base := strings.TrimRight(u.String(), "/")
	common, err := newXMLRPCChannel(base+CommonPath, secure)
	if err != nil {
		return nil, err
	}
	object, err := newXMLRPCChannel(base+ObjectPath, secure)
	if err != nil {
		_ = common.Close()
		return nil, err
	}
	return NewSession(desc, common, object), nil
}
