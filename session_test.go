package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		assets:     "static",
		cardCount:  272,
		chartCount: 44,
	}
}

func newTestSession(t *testing.T, names ...string) (*Session, []*Player) {
	t.Helper()

	s := newSession("test1234", testConfig())

	players := make([]*Player, 0, len(names))
	for _, name := range names {
		p, _, err := s.join(name)
		require.NoError(t, err)
		players = append(players, p)
	}

	return s, players
}

func TestSession_Join(t *testing.T) {
	t.Parallel()

	s := newSession("test1234", testConfig())
	assert.Equal(t, "waiting", s.status())

	alice, opponent, err := s.join("Alice")
	require.NoError(t, err)
	assert.Empty(t, opponent)
	assert.NotEmpty(t, alice.ID)
	assert.Equal(t, "waiting", s.status())

	bob, opponent, err := s.join("Bob")
	require.NoError(t, err)
	assert.Equal(t, "Alice", opponent)
	assert.NotEqual(t, alice.ID, bob.ID)
	assert.Equal(t, "active", s.status())

	_, _, err = s.join("Carol")
	assert.ErrorIs(t, err, errSessionFull)
	assert.Len(t, s.players, 2)
}

func TestSession_JoinEmptyName(t *testing.T) {
	t.Parallel()

	s := newSession("test1234", testConfig())

	_, _, err := s.join("")
	assert.ErrorIs(t, err, errInvalidInput)
}

func TestSession_Peer(t *testing.T) {
	t.Parallel()

	s, players := newTestSession(t, "Alice")

	s.mu.RLock()
	assert.Nil(t, s.peerLocked(players[0].ID))
	s.mu.RUnlock()

	bob, _, err := s.join("Bob")
	require.NoError(t, err)

	s.mu.RLock()
	assert.Equal(t, bob, s.peerLocked(players[0].ID))
	assert.Equal(t, players[0], s.peerLocked(bob.ID))
	s.mu.RUnlock()
}

func TestSession_DrawCard(t *testing.T) {
	t.Parallel()

	s, players := newTestSession(t, "Alice", "Bob")

	_, err := s.drawCard("nobody")
	assert.ErrorIs(t, err, errNotFound)

	// Draws are never cached and never repeat within the session
	// until the catalog recycles.
	seen := make(map[int]bool)
	for i := 0; i < 10; i++ {
		card, err := s.drawCard(players[i%2].ID)
		require.NoError(t, err)
		assert.False(t, seen[card])
		seen[card] = true
	}
}

func TestSession_DrawChartIdempotentWithinRound(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, "Alice", "Bob")

	first, err := s.drawChart()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := s.drawChart()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSession_SubmitCard(t *testing.T) {
	t.Parallel()

	s, players := newTestSession(t, "Alice", "Bob")
	alice, bob := players[0], players[1]

	_, err := s.submitCard("nobody", 3)
	assert.ErrorIs(t, err, errNotFound)

	complete, err := s.submitCard(alice.ID, 3)
	require.NoError(t, err)
	assert.False(t, complete)

	// A second submission is rejected and leaves the first intact.
	_, err = s.submitCard(alice.ID, 9)
	assert.ErrorIs(t, err, errAlreadySubmitted)
	assert.Equal(t, 3, s.submissions[alice.ID])

	// Completion occurs exactly at the second distinct submission.
	complete, err = s.submitCard(bob.ID, 7)
	require.NoError(t, err)
	assert.True(t, complete)
}

func TestSession_AdvanceRound(t *testing.T) {
	t.Parallel()

	s, players := newTestSession(t, "Alice", "Bob")

	_, err := s.advanceRound()
	assert.ErrorIs(t, err, errRoundNotComplete)

	chart1, err := s.drawChart()
	require.NoError(t, err)

	_, err = s.submitCard(players[0].ID, 3)
	require.NoError(t, err)

	_, err = s.advanceRound()
	assert.ErrorIs(t, err, errRoundNotComplete)

	_, err = s.submitCard(players[1].ID, 7)
	require.NoError(t, err)

	chart2, err := s.advanceRound()
	require.NoError(t, err)
	assert.NotEqual(t, chart1, chart2)
	assert.Equal(t, 2, s.roundNumber)
	assert.Empty(t, s.submissions)

	// Advancing is legal exactly once per completed round.
	_, err = s.advanceRound()
	assert.ErrorIs(t, err, errRoundNotComplete)

	// The new chart is already allocated; drawChart just returns it.
	again, err := s.drawChart()
	require.NoError(t, err)
	assert.Equal(t, chart2, again)
}

func TestSession_FullScenario(t *testing.T) {
	t.Parallel()

	s := newSession("test1234", testConfig())

	alice, _, err := s.join("Alice")
	require.NoError(t, err)

	bob, opponent, err := s.join("Bob")
	require.NoError(t, err)
	assert.Equal(t, "Alice", opponent)

	chartAlice, err := s.drawChart()
	require.NoError(t, err)
	chartBob, err := s.drawChart()
	require.NoError(t, err)
	assert.Equal(t, chartAlice, chartBob)

	complete, err := s.submitCard(alice.ID, 3)
	require.NoError(t, err)
	assert.False(t, complete)

	complete, err = s.submitCard(bob.ID, 7)
	require.NoError(t, err)
	assert.True(t, complete)

	next, err := s.advanceRound()
	require.NoError(t, err)
	assert.NotEqual(t, chartAlice, next)
	assert.Empty(t, s.submissions)
}

func TestSession_ConcurrentSubmits(t *testing.T) {
	t.Parallel()

	s, players := newTestSession(t, "Alice", "Bob")

	// Both players submit simultaneously, repeatedly; exactly one of
	// the two submissions per round may observe completion.
	for round := 0; round < 50; round++ {
		results := make(chan bool, 2)
		for _, p := range players {
			go func(id string) {
				complete, err := s.submitCard(id, round)
				assert.NoError(t, err)
				results <- complete
			}(p.ID)
		}

		first, second := <-results, <-results
		assert.True(t, first != second, "exactly one submission must complete the round")

		_, err := s.advanceRound()
		require.NoError(t, err)
	}
}

func TestSession_ReapedSessionsDetachClients(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, "Alice", "Bob")
	s.lastActive = time.Now().Add(-time.Hour)

	// No attached channels; closeAll must still be safe.
	s.closeAll()
	for _, p := range s.players {
		assert.Nil(t, p.client)
	}
}
