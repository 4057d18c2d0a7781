/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"crypto/rand"
	"sync"
	"time"
)

// Registry holds every live session keyed by game ID. It is the single
// writer of the session set; per-session state is guarded by each
// session's own lock, so unrelated games never contend.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	cfg         *Config
	idleTimeout time.Duration
}

func newRegistry(cfg *Config) *Registry {
	reg := &Registry{
		sessions:    make(map[string]*Session),
		cfg:         cfg,
		idleTimeout: cfg.sessionTimeout,
	}
	if reg.idleTimeout > 0 {
		go reg.reaperLoop()
	}
	return reg
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games. Callers must hold reg.mu.
func (reg *Registry) newGameIDLocked() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		if _, exists := reg.sessions[id]; !exists {
			return id
		}
	}
}

// create allocates a waiting session containing only the first player.
func (reg *Registry) create(name string) (*Session, *Player, error) {
	if name == "" {
		return nil, nil, errInvalidInput
	}

	reg.mu.Lock()
	s := newSession(reg.newGameIDLocked(), reg.cfg)
	reg.sessions[s.id] = s
	reg.mu.Unlock()

	p, _, err := s.join(name)
	if err != nil {
		return nil, nil, err
	}

	return s, p, nil
}

// join adds the second player to an existing session and reports the
// first player's name back for display.
func (reg *Registry) join(gameID, name string) (*Session, *Player, string, error) {
	if name == "" || gameID == "" {
		return nil, nil, "", errInvalidInput
	}

	s, ok := reg.get(gameID)
	if !ok {
		return nil, nil, "", errNotFound
	}

	p, opponent, err := s.join(name)
	if err != nil {
		return nil, nil, "", err
	}

	return s, p, opponent, nil
}

func (reg *Registry) get(gameID string) (*Session, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	s, ok := reg.sessions[gameID]
	return s, ok
}

// reaperLoop periodically removes sessions that have been idle longer
// than idleTimeout, closing any still-attached channels.
func (reg *Registry) reaperLoop() {
	ticker := time.NewTicker(reg.idleTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-reg.idleTimeout)

		reg.mu.Lock()
		for id, s := range reg.sessions {
			s.mu.RLock()
			last := s.lastActive
			s.mu.RUnlock()

			if last.Before(cutoff) {
				delete(reg.sessions, id)
				logf(reg.cfg, "GAMES: Reaped idle game %s after %s", id, time.Since(s.createdAt).Round(time.Second))
				go s.closeAll()
			}
		}
		reg.mu.Unlock()
	}
}
