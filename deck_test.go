package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeck_NoRepeatsUntilExhausted(t *testing.T) {
	t.Parallel()

	d := newDeck(20, false)

	seen := make(map[int]bool)
	for i := 0; i < 20; i++ {
		n, err := d.draw()
		require.NoError(t, err)
		assert.False(t, seen[n], "identifier %d drawn twice", n)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 20)
		seen[n] = true
	}

	assert.Equal(t, 0, d.remaining())
}

func TestDeck_StrictFailsWhenExhausted(t *testing.T) {
	t.Parallel()

	d := newDeck(3, false)

	for i := 0; i < 3; i++ {
		_, err := d.draw()
		require.NoError(t, err)
	}

	_, err := d.draw()
	assert.ErrorIs(t, err, errExhausted)

	// Exhaustion is sticky in strict mode.
	_, err = d.draw()
	assert.ErrorIs(t, err, errExhausted)
}

func TestDeck_RecyclesWhenExhausted(t *testing.T) {
	t.Parallel()

	d := newDeck(3, true)

	for i := 0; i < 3; i++ {
		_, err := d.draw()
		require.NoError(t, err)
	}

	// The fourth draw starts the catalog over instead of failing.
	n, err := d.draw()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 0)
	assert.Less(t, n, 3)
	assert.Equal(t, 2, d.remaining())
}

func TestDeck_SingleEntryCatalog(t *testing.T) {
	t.Parallel()

	d := newDeck(1, true)

	for i := 0; i < 5; i++ {
		n, err := d.draw()
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	}
}
