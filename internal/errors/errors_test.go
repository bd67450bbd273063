package errors

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestE_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *E
		want string
	}{
		{
			name: "message only",
			err:  New(Authentication, "Authentication failed - check username/password"),
			want: "Authentication failed - check username/password",
		},
		{
			name: "wrapped cause",
			err:  Wrap(RemoteCall, "XML-RPC call failed", errors.New("boom")),
			want: "XML-RPC call failed: boom",
		},
		{
			name: "formatted",
			err:  Newf(UnknownTool, "Unknown tool: %s", "nope"),
			want: "Unknown tool: nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindOf(t *testing.T) {
	cause := errors.New("socket closed")
	err := errors.Wrap(Wrap(RemoteCall, "XML-RPC call failed", cause), "search")

	assert.Equal(t, RemoteCall, KindOf(err))
	assert.True(t, Is(err, RemoteCall))
	assert.False(t, Is(err, Authentication))
	assert.True(t, errors.Is(err, cause))

	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, Is(nil, RemoteCall))
}
