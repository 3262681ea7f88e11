// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain keeps the analysis-service bearer token in the OS credential
// store. The token is optional: a local analysis service usually runs without one.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

var (
	globalManager *Manager
	mu            sync.Mutex
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "wellplot"

// KeyServiceToken is the item holding the analysis-service bearer token.
const KeyServiceToken = "service_token"

// ErrNoToken reports that no token is stored.
var ErrNoToken = errors.New("no service token stored")

// Manager provides thread-safe access to the credential store.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// NewManager opens the OS keyring.
func NewManager() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewManagerWithRing wraps an already opened keyring.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// GetManager returns the process-wide manager, opening it on first use.
// A failed open is retried on the next call.
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

// openRing opens the OS keyring using native platform backends only; there is
// no encrypted-file fallback.
func openRing() (keyring.Keyring, error) {
	var allowed []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowed = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowed = []keyring.BackendType{keyring.WinCredBackend}
	case "linux":
		allowed = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	default:
		return nil, errors.New("secure storage not supported on " + runtime.GOOS)
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowed,
		PassPrefix:      ServiceName,
		WinCredPrefix:   ServiceName,
	}
	return keyring.Open(cfg)
}

// SaveServiceToken stores the bearer token.
func (m *Manager) SaveServiceToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token == "" {
		return errors.New("empty service token")
	}
	return m.ring.Set(keyring.Item{Key: KeyServiceToken, Data: []byte(token), Label: "wellplot analysis service token"})
}

// LoadServiceToken returns the stored token or ErrNoToken.
func (m *Manager) LoadServiceToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(KeyServiceToken)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNoToken
	}
	return string(it.Data), nil
}

// ClearServiceToken removes the token; a missing token is not an error.
func (m *Manager) ClearServiceToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ring.Remove(KeyServiceToken); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}

// ServiceToken resolves the token for outgoing requests. Any keychain failure
// yields "" so an unauthenticated local service keeps working.
func ServiceToken() string {
	m, err := GetManager()
	if err != nil {
		return ""
	}
	t, err := m.LoadServiceToken()
	if err != nil {
		return ""
	}
	return t
}
