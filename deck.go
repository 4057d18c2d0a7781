/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"math/rand/v2"
)

// deck hands out random identifiers from a finite image catalog,
// never repeating one until the catalog runs dry. What happens then
// depends on recycle: either the used set is cleared and draws start
// over, or every further draw fails.
//
// A deck is not safe for concurrent use; each session guards its own
// decks with the session lock.
type deck struct {
	size    int
	recycle bool
	used    map[int]bool
}

func newDeck(size int, recycle bool) *deck {
	return &deck{
		size:    size,
		recycle: recycle,
		used:    make(map[int]bool),
	}
}

func (d *deck) draw() (int, error) {
	if len(d.used) == d.size {
		if !d.recycle {
			return 0, errExhausted
		}
		d.used = make(map[int]bool)
	}

	for {
		n := rand.IntN(d.size)
		if d.used[n] {
			continue
		}
		d.used[n] = true
		return n, nil
	}
}

func (d *deck) remaining() int {
	return d.size - len(d.used)
}
