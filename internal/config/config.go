// Package config resolves the Odoo connection settings for one profile.
// Settings come from ODOO_* environment variables and from an INI-like file
// at ~/.odoo_config/<project>_<environment>.conf. When all four variables
// are set the file is never touched; otherwise each field falls back to the
// file independently.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	apperrors "odoomcp/cli/internal/errors"
)

// Default profile labels used when the caller passes empty strings.
const (
	DefaultProject     = "idp"
	DefaultEnvironment = "staging"
)

// Environment variables recognised by the resolver.
const (
	EnvURL      = "ODOO_URL"
	EnvDatabase = "ODOO_DATABASE"
	EnvUsername = "ODOO_USERNAME"
	EnvPassword = "ODOO_PASSWORD"
)

const configDirName = ".odoo_config"

// Source tells where a resolved value came from.
type Source string

const (
	SourceEnv      Source = "env"
	SourceFile     Source = "file"
	SourceKeychain Source = "keychain"
)

// Descriptor is a validated connection descriptor. It is built once at
// startup and never mutated afterwards.
type Descriptor struct {
	URL      string `validate:"required"`
	Database string `validate:"required"`
	Username string `validate:"required"`
	Password string `validate:"required"`

	// Sources maps field name (url, database, username, password) to origin.
	Sources map[string]Source
	// Path is the config file consulted, empty when env vars were sufficient.
	Path string
}

// SecretStore supplies a password for a profile when neither the
// environment nor the file has one.
type SecretStore interface {
	LoadPassword(profile string) (string, error)
}

// Resolver carries the collaborators used while resolving a profile.
// The zero value reads the real environment and home directory.
type Resolver struct {
	// Path overrides the computed config file location.
	Path string
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	// HomeDir defaults to os.UserHomeDir.
	HomeDir func() (string, error)
	// Secrets is consulted for the password as a last resort. Optional.
	Secrets SecretStore
}

var validate = validator.New()

// Resolve resolves a profile with the default Resolver.
func Resolve(project, environment string) (*Descriptor, error) {
	return (&Resolver{}).Resolve(project, environment)
}

// Profile returns the "<project>_<environment>" label used for file names
// and keychain entries.
func Profile(project, environment string) string {
	if project == "" {
		project = DefaultProject
	}
	if environment == "" {
		environment = DefaultEnvironment
	}
	return project + "_" + environment
}

// FilePath computes ~/.odoo_config/<project>_<environment>.conf.
func (r *Resolver) FilePath(project, environment string) (string, error) {
	if r.Path != "" {
		return r.Path, nil
	}
	home, err := r.homeDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve home directory")
	}
	return filepath.Join(home, configDirName, Profile(project, environment)+".conf"), nil
}

// Resolve produces the descriptor for project/environment or fails with a
// configuration error.
func (r *Resolver) Resolve(project, environment string) (*Descriptor, error) {
	env := fileValues{
		url:      r.getenv(EnvURL),
		database: r.getenv(EnvDatabase),
		username: r.getenv(EnvUsername),
		password: r.getenv(EnvPassword),
	}

	if env.complete() {
		return &Descriptor{
			URL:      env.url,
			Database: env.database,
			Username: env.username,
			Password: env.password,
			Sources: map[string]Source{
				"url": SourceEnv, "database": SourceEnv, "username": SourceEnv, "password": SourceEnv,
			},
		}, nil
	}

	path, err := r.FilePath(project, environment)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.New(apperrors.Configuration, missingFileMessage(path))
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	file, err := parseFile(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	d := &Descriptor{Path: path, Sources: make(map[string]Source, 4)}
	d.URL = d.pick("url", env.url, file.url)
	d.Database = d.pick("database", env.database, file.database)
	d.Username = d.pick("username", env.username, file.username)
	d.Password = d.pick("password", env.password, file.password)

	if d.Password == "" && r.Secrets != nil {
		if pw, err := r.Secrets.LoadPassword(Profile(project, environment)); err == nil && pw != "" {
			d.Password = pw
			d.Sources["password"] = SourceKeychain
		}
	}

	if err := validate.Struct(d); err != nil {
		return nil, apperrors.New(apperrors.Configuration,
			"Missing required Odoo configuration. Please check your config file or environment variables.")
	}
	return d, nil
}

// pick returns the env value when set, else the file value, and records the
// winning source.
func (d *Descriptor) pick(field, envValue, fileValue string) string {
	if envValue != "" {
		d.Sources[field] = SourceEnv
		return envValue
	}
	if fileValue != "" {
		d.Sources[field] = SourceFile
	}
	return fileValue
}

func (r *Resolver) getenv(key string) string {
	if r.Getenv != nil {
		return r.Getenv(key)
	}
	return os.Getenv(key)
}

func (r *Resolver) homeDir() (string, error) {
	if r.HomeDir != nil {
		return r.HomeDir()
	}
	return os.UserHomeDir()
}

func missingFileMessage(path string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Odoo configuration not found. Please create %s with:\n", path)
	b.WriteString("[odoo]\n")
	b.WriteString("url = https://staging-odoo.idpltd.net\n")
	b.WriteString("database = staging\n")
	b.WriteString("username = your_username\n")
	b.WriteString("password = your_password\n")
	b.WriteString("\nOr set environment variables:\n")
	fmt.Fprintf(&b, "%s, %s, %s, %s", EnvURL, EnvDatabase, EnvUsername, EnvPassword)
	return b.String()
}
