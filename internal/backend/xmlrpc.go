package backend

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/kolo/xmlrpc"
)

// Caller issues one remote procedure call on a channel.
type Caller interface {
	Call(ctx context.Context, method string, args []any) (any, error)
}

// xmlrpcChannel is a Caller bound to a single XML-RPC endpoint.
type xmlrpcChannel struct {
	endpoint string
	client   *xmlrpc.Client
}

func newXMLRPCChannel(endpoint string, secure bool) (*xmlrpcChannel, error) {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if secure {
		transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client, err := xmlrpc.NewClient(endpoint, transport)
	if err != nil {
		return nil, errors.Wrapf(err, "create xml-rpc client for %s", endpoint)
	}
	return &xmlrpcChannel{endpoint: endpoint, client: client}, nil
}

// Call performs the request. The xml-rpc client has no context support, so
// ctx is only checked before the request is issued.
func (c *xmlrpcChannel) Call(ctx context.Context, method string, args []any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var reply any
	if err := c.client.Call(method, args, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *xmlrpcChannel) Close() error {
	return c.client.Close()
}
