package audit

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"odoomcp/cli/internal/dsn"
	"odoomcp/cli/internal/xdg"
)

// DefaultFile is the SQLite file created under the state directory when no
// DSN is given.
const DefaultFile = "audit.db"

// DefaultDSN returns the SQLite DSN under the user's state directory.
func DefaultDSN() (string, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve state directory")
	}
	return "sqlite://" + filepath.Join(dir, DefaultFile), nil
}

// Open connects to the store named by rawDSN and creates its table.
// An empty DSN selects DefaultDSN.
func Open(ctx context.Context, rawDSN string) (Store, error) {
	if rawDSN == "" {
		var err error
		if rawDSN, err = DefaultDSN(); err != nil {
			return nil, err
		}
	}

	normalized, err := dsn.Parse(rawDSN)
	if err != nil {
		return nil, err
	}

	if dsn.DetectDBType(rawDSN) == dsn.DBTypePostgreSQL {
		pg, err := OpenPostgres(ctx, normalized)
		if err != nil {
			return nil, err
		}
		return pg, nil
	}
	lite, err := OpenSQLite(ctx, normalized)
	if err != nil {
		return nil, err
	}
	return lite, nil
}
