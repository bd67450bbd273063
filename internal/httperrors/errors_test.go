package httperrors

import (
	"net"
	"syscall"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, CategoryNone},
		{"dns", &net.DNSError{Err: "no such host", Name: "odoo.invalid"}, CategoryDNS},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, CategoryConnectionRefused},
		{"refused text", errors.New("dial tcp 127.0.0.1:8069: connect: connection refused"), CategoryConnectionRefused},
		{"timeout", errors.New("context deadline exceeded"), CategoryTimeout},
		{"tls", errors.New("x509: certificate signed by unknown authority"), CategoryTLS},
		{"not found", errors.New("404 Not Found"), CategoryNotFound},
		{"server", errors.New("502 Bad Gateway"), CategoryServer},
		{"odoo fault", errors.New("Object res.nope doesn't exist"), CategoryNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestDescribe(t *testing.T) {
	out := Describe(errors.New("connection refused"), "localhost:8069")
	assert.Contains(t, out, "localhost:8069 refused the connection")

	assert.Empty(t, Describe(errors.New("Access Denied"), "odoo.example.com"))
}

func TestExtractHostFromURL(t *testing.T) {
	assert.Equal(t, "odoo.example.com:8443", ExtractHostFromURL("https://odoo.example.com:8443/"))
	assert.Equal(t, "server", ExtractHostFromURL("::"))
}
