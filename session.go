/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Player holds the data we store server-side for one seat in a session.
type Player struct {
	ID   string
	Name string

	// Live notification channel, nil until the player's websocket
	// attaches. Only the most recent connection is addressed.
	client *client
}

// Session is one two-player game. The first entrant is players[0]; the
// session is "waiting" until a second player joins, "active" afterward.
//
// A single mutex serializes every operation on the session, so two
// simultaneous submits can never both observe an open round. Unrelated
// sessions share nothing, not even decks.
type Session struct {
	id string

	mu          sync.RWMutex
	players     []*Player
	roundNumber int
	chart       int
	chartDrawn  bool
	submissions map[string]int
	cards       *deck
	charts      *deck

	createdAt  time.Time
	lastActive time.Time
}

func newSession(id string, cfg *Config) *Session {
	now := time.Now()
	return &Session{
		id:          id,
		roundNumber: 1,
		submissions: make(map[string]int),
		cards:       newDeck(cfg.cardCount, !cfg.strictDecks),
		charts:      newDeck(cfg.chartCount, !cfg.strictDecks),
		createdAt:   now,
		lastActive:  now,
	}
}

func (s *Session) status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.players) == 2 {
		return "active"
	}
	return "waiting"
}

func (s *Session) playerLocked(playerID string) *Player {
	for _, p := range s.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// peerLocked returns the other player, or nil while the session is
// still waiting for one.
func (s *Session) peerLocked(playerID string) *Player {
	for _, p := range s.players {
		if p.ID != playerID {
			return p
		}
	}
	return nil
}

// join adds a player and returns the opponent's name, if any. The second
// successful join activates the session; any further attempt fails, so
// of two simultaneous joiners exactly one wins.
func (s *Session) join(name string) (*Player, string, error) {
	if name == "" {
		return nil, "", errInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.players) >= 2 {
		return nil, "", errSessionFull
	}

	p := &Player{
		ID:   uuid.NewString(),
		Name: name,
	}

	opponent := ""
	if len(s.players) == 1 {
		opponent = s.players[0].Name
	}

	s.players = append(s.players, p)
	s.lastActive = time.Now()

	// Tell the player already here who just walked in.
	if peer := s.peerLocked(p.ID); peer != nil {
		peer.notifyLocked(connectEvent{Connect: p.Name})
	}

	return p, opponent, nil
}

// drawCard hands the player a fresh card identifier. Draws are never
// cached; every call advances the deck.
func (s *Session) drawCard(playerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playerLocked(playerID) == nil {
		return 0, errNotFound
	}

	s.lastActive = time.Now()

	return s.cards.draw()
}

// drawChart returns the shared chart for the current round, allocating
// it on the first call. Repeated calls within a round return the same
// identifier, so both players always see the same chart.
func (s *Session) drawChart() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()

	if !s.chartDrawn {
		chart, err := s.charts.draw()
		if err != nil {
			return 0, err
		}
		s.chart = chart
		s.chartDrawn = true
	}

	return s.chart, nil
}

// submitCard records the player's single submission for the current
// round and pushes it to the peer's live channel, never back to the
// submitter. Returns whether the round is now complete.
func (s *Session) submitCard(playerID string, card int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playerLocked(playerID) == nil {
		return false, errNotFound
	}

	if _, dup := s.submissions[playerID]; dup {
		return false, errAlreadySubmitted
	}

	s.submissions[playerID] = card
	s.lastActive = time.Now()

	if peer := s.peerLocked(playerID); peer != nil {
		peer.notifyLocked(submitEvent{Submit: card})
	}

	return s.completeLocked(), nil
}

// Completion is a cardinality check, one submission per current player,
// so arrival order never matters.
func (s *Session) completeLocked() bool {
	return len(s.players) > 0 && len(s.submissions) == len(s.players)
}

// advanceRound starts the next round: submissions cleared, round number
// bumped, a new chart drawn and returned. Only legal once the current
// round is complete.
func (s *Session) advanceRound() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.completeLocked() {
		return 0, errRoundNotComplete
	}

	chart, err := s.charts.draw()
	if err != nil {
		return 0, err
	}

	s.submissions = make(map[string]int)
	s.roundNumber++
	s.chart = chart
	s.chartDrawn = true
	s.lastActive = time.Now()

	return chart, nil
}

// attach associates a live channel with a player, replacing (and
// closing) any previous one, and announces the player to the peer.
func (s *Session) attach(playerID string, c *client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.playerLocked(playerID)
	if p == nil {
		return errNotFound
	}

	if p.client != nil && p.client != c {
		p.client.close()
	}
	p.client = c
	s.lastActive = time.Now()

	if peer := s.peerLocked(playerID); peer != nil {
		peer.notifyLocked(connectEvent{Connect: p.Name})
	}

	return nil
}

// detach clears the registration if c is still the player's current
// channel. A stale connection being torn down after a replacement must
// not unregister its successor.
func (s *Session) detach(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.players {
		if p.client == c {
			p.client = nil
		}
	}
}

// closeAll disconnects both players' channels (used by the reaper).
func (s *Session) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.players {
		if p.client != nil {
			p.client.close()
			p.client = nil
		}
	}
}
