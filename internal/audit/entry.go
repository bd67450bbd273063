// Package audit keeps an append-only record of tool invocations in SQLite
// or PostgreSQL. Only the tool name, model, outcome and payload are stored;
// the credential never reaches this package.
package audit

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// maxMessage bounds the stored payload; read results can be large.
const maxMessage = 4096

// Entry is one recorded invocation.
type Entry struct {
	ID        uuid.UUID     `json:"id" yaml:"id"`
	Tool      string        `json:"tool" yaml:"tool"`
	Model     string        `json:"model,omitempty" yaml:"model,omitempty"`
	OK        bool          `json:"ok" yaml:"ok"`
	Message   string        `json:"message" yaml:"message"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
}

// NewEntry builds an entry with a fresh id and the current time.
func NewEntry(tool, model string, ok bool, message string, d time.Duration) Entry {
	if len(message) > maxMessage {
		cut := maxMessage
		for cut > 0 && !utf8.RuneStart(message[cut]) {
			cut--
		}
		message = message[:cut]
	}
	return Entry{
		ID:        uuid.New(),
		Tool:      tool,
		Model:     model,
		OK:        ok,
		Message:   message,
		Duration:  d,
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists entries.
type Store interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}
