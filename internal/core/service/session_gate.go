package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rl1809/axion/internal/port"
)

const (
	sessionKey         = "axion_session"
	sessionMarkerValue = "true"
)

// SessionGate decides whether the main application or the login screen is
// served. It is a UI gate backed by a persisted marker, not authentication.
type SessionGate struct {
	kv  port.KVStore
	key string

	mu            sync.RWMutex
	authenticated bool
}

func NewSessionGate(kv port.KVStore, keyPrefix string) *SessionGate {
	return &SessionGate{kv: kv, key: keyPrefix + sessionKey}
}

// Load reads the persisted marker once at startup.
func (g *SessionGate) Load(ctx context.Context) error {
	value, ok, err := g.kv.Get(ctx, g.key)
	if err != nil {
		return fmt.Errorf("read session marker: %w", err)
	}

	g.mu.Lock()
	g.authenticated = ok && value == sessionMarkerValue
	g.mu.Unlock()

	return nil
}

func (g *SessionGate) Authenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.authenticated
}

// Login marks the session authenticated and persists the marker. A failed
// login leaves the state unchanged.
func (g *SessionGate) Login(ctx context.Context, success bool) error {
	if !success {
		return nil
	}

	g.mu.Lock()
	g.authenticated = true
	g.mu.Unlock()

	if err := g.kv.Set(ctx, g.key, sessionMarkerValue); err != nil {
		return fmt.Errorf("persist session marker: %w", err)
	}
	return nil
}

func (g *SessionGate) Logout(ctx context.Context) error {
	g.mu.Lock()
	g.authenticated = false
	g.mu.Unlock()

	if err := g.kv.Delete(ctx, g.key); err != nil {
		return fmt.Errorf("remove session marker: %w", err)
	}
	return nil
}
