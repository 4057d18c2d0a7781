/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Push events. Exactly two kinds exist: the opponent coming online and
// the opponent's submitted card. Everything else is available through
// the request API, which remains the source of truth; these are a
// low-latency shortcut and are dropped if nobody is listening.
type connectEvent struct {
	Connect string `json:"connect"`
}

type submitEvent struct {
	Submit int `json:"submit"`
}

// handshake is the first (and only expected) client message on a fresh
// websocket, binding it to a seat in a game.
type handshake struct {
	Join struct {
		GameID string `json:"gameID"`
		UserID string `json:"userID"`
	} `json:"join"`
}

type client struct {
	conn *websocket.Conn
	send chan any
	once sync.Once
}

// close is safe to call from both the replacing attach and the pump
// teardown; only the first call wins.
func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
		_ = c.conn.Close()
	})
}

// notifyLocked pushes an event to the player's live channel, if any.
// Best-effort and at-most-once: no channel, or a full buffer, means the
// event is dropped. Callers hold the session lock.
func (p *Player) notifyLocked(msg any) {
	if p.client == nil {
		return
	}

	select {
	case p.client.send <- msg:
	default:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveWS(cfg *Config, reg *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "WS: upgrade error: %v", err)
			return
		}

		c := &client{
			conn: conn,
			send: make(chan any, 8),
		}

		go c.writePump()
		c.readPump(cfg, reg)
	}
}

// readPump waits for the handshake, attaches the connection to its
// player, then drains the socket until it closes. Further inbound
// messages are ignored; the game itself is driven over HTTP.
func (c *client) readPump(cfg *Config, reg *Registry) {
	var session *Session

	defer func() {
		if session != nil {
			session.detach(c)
		}
		c.close()
	}()

	for {
		var hs handshake
		if err := c.conn.ReadJSON(&hs); err != nil {
			return
		}

		if hs.Join.GameID == "" || hs.Join.UserID == "" {
			continue
		}

		s, ok := reg.get(hs.Join.GameID)
		if !ok {
			continue
		}

		if err := s.attach(hs.Join.UserID, c); err != nil {
			continue
		}

		if session != nil && session != s {
			session.detach(c)
		}
		session = s

		logf(cfg, "WS: Player %s connected to game %s", hs.Join.UserID, hs.Join.GameID)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
