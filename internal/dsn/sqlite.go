package dsn

import (
	"net/url"
	"sort"
	"strings"
)

// SQLiteResolver handles sqlite://path, sqlite:path, file:path and bare
// file paths.
type SQLiteResolver struct{}

func NewSQLiteResolver() *SQLiteResolver {
	return &SQLiteResolver{}
}

func (r *SQLiteResolver) Parse(dsn string) (*Info, error) {
	rest := strings.TrimSpace(dsn)
	for _, prefix := range []string{"sqlite://", "sqlite:", "file:"} {
		if len(rest) >= len(prefix) && strings.EqualFold(rest[:len(prefix)], prefix) {
			rest = rest[len(prefix):]
			break
		}
	}

	info := &Info{Type: DBTypeSQLite, Params: map[string]string{}, Original: dsn}
	path, query, _ := strings.Cut(rest, "?")
	info.Database = path
	if query != "" {
		values, err := url.ParseQuery(query)
		if err != nil {
			return nil, NewParseError(dsn, "invalid query parameters", "use key=value pairs separated by &")
		}
		for k, v := range values {
			if len(v) > 0 {
				info.Params[k] = v[0]
			}
		}
	}

	if info.Database == "" {
		return nil, NewParseError(dsn, "missing database file", "use sqlite:///path/to/audit.db")
	}
	return info, nil
}

// Normalize renders a file: URI understood by the modernc sqlite driver.
// Parameters are sorted so the output is stable.
func (r *SQLiteResolver) Normalize(info *Info) (string, error) {
	if info == nil {
		return "", NewParseError("", "nil DSN info", "")
	}
	if info.Database == ":memory:" && len(info.Params) == 0 {
		return ":memory:", nil
	}

	var b strings.Builder
	b.WriteString("file:")
	b.WriteString(info.Database)
	if len(info.Params) > 0 {
		keys := make([]string, 0, len(info.Params))
		for k := range info.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i == 0 {
				b.WriteString("?")
			} else {
				b.WriteString("&")
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteString("=")
			b.WriteString(url.QueryEscape(info.Params[k]))
		}
	}
	return b.String(), nil
}
