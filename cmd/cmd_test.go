package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"odoomcp/cli/internal/audit"
	"odoomcp/cli/internal/tools"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

// run executes the root command with args and returns what it wrote to
// stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagProject, flagEnvironment, flagConfigPath = "", "", ""
	flagKeychain, flagVerbose, showVersion = false, false, false
	toolsOutput = "table"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func setOdooEnv(t *testing.T, url string) {
	t.Setenv("ODOO_URL", url)
	t.Setenv("ODOO_DATABASE", "prod")
	t.Setenv("ODOO_USERNAME", "admin")
	t.Setenv("ODOO_PASSWORD", "s3cret-pass")
}

func TestPrintCatalog_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printCatalog(&buf, "json", tools.Catalog()))

	var defs []tools.Definition
	require.NoError(t, json.Unmarshal(buf.Bytes(), &defs))
	require.Len(t, defs, 8)
	assert.Equal(t, tools.Search, defs[0].Name)
}

func TestPrintCatalog_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printCatalog(&buf, "yaml", tools.Catalog()))

	var defs []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &defs))
	require.Len(t, defs, 8)
	assert.Equal(t, tools.SearchRead, defs[7]["name"])
}

func TestPrintCatalog_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printCatalog(&buf, "table", tools.Catalog()))

	out := buf.String()
	for _, d := range tools.Catalog() {
		assert.Contains(t, out, d.Name)
	}
	assert.Contains(t, out, "ids:array<integer>")
	assert.Contains(t, out, "limit:integer?")
}

func TestPrintCatalog_UnknownFormat(t *testing.T) {
	err := printCatalog(io.Discard, "xml", tools.Catalog())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "odoo-mcp "+Version))
}

func TestConfigCommand_FromEnv(t *testing.T) {
	setOdooEnv(t, "https://odoo.example.com")

	out, err := run(t, "config", "--project", "acme", "--environment", "prod")
	require.NoError(t, err)
	assert.Contains(t, out, "acme_prod")
	assert.Contains(t, out, "https://odoo.example.com")
	assert.Contains(t, out, "env")
	assert.NotContains(t, out, "s3cret-pass")
	assert.Contains(t, out, "*********ss")
}

func TestConfigCommand_FromFile(t *testing.T) {
	for _, k := range []string{"ODOO_URL", "ODOO_DATABASE", "ODOO_USERNAME", "ODOO_PASSWORD"} {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), "odoo.conf")
	require.NoError(t, os.WriteFile(path, []byte(
		"url=https://file.example.com\ndatabase=filedb\nusername=bob\npassword=hunter22\n"), 0o600))

	out, err := run(t, "config", "--config-path", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, "filedb")
	assert.Contains(t, out, "file")
	assert.NotContains(t, out, "hunter22")
}

func TestConfigCommand_Missing(t *testing.T) {
	for _, k := range []string{"ODOO_URL", "ODOO_DATABASE", "ODOO_USERNAME", "ODOO_PASSWORD"} {
		t.Setenv(k, "")
	}
	_, err := run(t, "config", "--config-path", filepath.Join(t.TempDir(), "absent.conf"))
	require.Error(t, err)
	var reported reportedError
	assert.ErrorAs(t, err, &reported)
}

const userResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><array><data>
<value><struct>
<member><name>id</name><value><int>7</int></value></member>
<member><name>name</name><value><string>Mitchell Admin</string></value></member>
<member><name>login</name><value><string>admin</string></value></member>
</struct></value>
</data></array></value></param></params></methodResponse>`

func TestWhoAmICommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		switch r.URL.Path {
		case "/xmlrpc/2/common":
			_, _ = io.WriteString(w, `<?xml version="1.0"?>
<methodResponse><params><param><value><int>7</int></value></param></params></methodResponse>`)
		case "/xmlrpc/2/object":
			_, _ = io.WriteString(w, userResponse)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	setOdooEnv(t, srv.URL)

	out, err := run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Mitchell Admin (admin)")
	assert.Contains(t, out, "prod")
	assert.Contains(t, out, "7")
}

func TestWhoAmICommand_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = io.WriteString(w, `<?xml version="1.0"?>
<methodResponse><params><param><value><boolean>0</boolean></value></param></params></methodResponse>`)
	}))
	defer srv.Close()
	setOdooEnv(t, srv.URL)

	_, err := run(t, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication failed")
}

func TestAuditCommand(t *testing.T) {
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "audit.db")

	store, err := audit.Open(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(),
		audit.NewEntry(tools.SearchCount, "res.partner", true, "Record count: 42", 3*time.Millisecond)))
	require.NoError(t, store.Close())

	auditLimit = 20
	out, err := run(t, "audit", "--dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, tools.SearchCount)
	assert.Contains(t, out, "res.partner")
	assert.Contains(t, out, "Record count: 42")
}

func TestAuditCommand_Empty(t *testing.T) {
	out, err := run(t, "audit", "--dsn", "sqlite://"+filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No invocations recorded yet")
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Search results: [", firstLine("Search results: [\n  1\n]", 60))
	assert.Equal(t, "abcdefg...", firstLine("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", firstLine(strings.Repeat("é", 20), 10))
	assert.Equal(t, "ab", firstLine("abcdef", 2))
}
