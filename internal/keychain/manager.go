// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores Odoo passwords in the OS credential store, one
// entry per configuration profile (<project>_<environment>). It backs the
// optional password fallback of the configuration resolver and the
// login/logout commands.
package keychain

import (
	"runtime"
	"sync"

	"github.com/99designs/keyring"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("odoomcp/cli/internal", "keychain")

// Global keychain manager instance
var (
	globalManager *Manager
	mu            sync.Mutex
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "odoo-mcp"

// ErrNotFound is returned when no password is stored for a profile.
var ErrNotFound = errors.New("password not found in keychain")

// backend is the minimal key/value contract of a credential store.
type backend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Manager provides thread-safe password operations on the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	backend backend
}

// NewManager opens the native credential store. On macOS the security
// command is preferred, falling back to the keyring library.
func NewManager() (*Manager, error) {
	if runtime.GOOS == "darwin" {
		if b, err := newSecurityBackend(); err == nil {
			return &Manager{backend: b}, nil
		}
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return NewManagerWithRing(ring), nil
}

// NewManagerWithRing wraps an already opened keyring.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{backend: ringBackend{ring: ring}}
}

// GetManager returns the global keychain manager instance.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}
	m, err := NewManager()
	if err != nil {
		return nil, err
	}
	globalManager = m
	return globalManager, nil
}

func openRing() (keyring.Keyring, error) {
	var allowed []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowed = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowed = []keyring.BackendType{keyring.WinCredBackend}
	case "linux", "freebsd", "openbsd":
		allowed = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	default:
		return nil, errors.Newf("secure storage not supported on %s", runtime.GOOS)
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowed,
		PassPrefix:      ServiceName,
		WinCredPrefix:   ServiceName,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open OS keychain")
	}
	return ring, nil
}

func passwordKey(profile string) string {
	return "password:" + profile
}

// SavePassword stores the password for profile, replacing any existing one.
func (m *Manager) SavePassword(profile, password string) error {
	if password == "" {
		return errors.New("refusing to store an empty password")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.backend.Set(passwordKey(profile), password); err != nil {
		return errors.Wrapf(err, "store password for %s", profile)
	}
	logger.KV(xlog.DEBUG, "status", "saved", "profile", profile)
	return nil
}

// LoadPassword returns the stored password for profile, or an empty string
// when none exists.
func (m *Manager) LoadPassword(profile string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pw, err := m.backend.Get(passwordKey(profile))
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "load password for %s", profile)
	}
	return pw, nil
}

// DeletePassword removes the stored password. Missing entries are not an
// error.
func (m *Manager) DeletePassword(profile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.backend.Delete(passwordKey(profile))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return errors.Wrapf(err, "delete password for %s", profile)
	}
	return nil
}

// ringBackend adapts keyring.Keyring to backend.
type ringBackend struct {
	ring keyring.Keyring
}

func (r ringBackend) Set(key, value string) error {
	return r.ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(value),
		Label:       ServiceName + " " + key,
		Description: "Odoo password",
	})
}

func (r ringBackend) Get(key string) (string, error) {
	it, err := r.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNotFound
	}
	return string(it.Data), nil
}

func (r ringBackend) Delete(key string) error {
	err := r.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}
