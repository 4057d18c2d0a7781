// Chartmatch game server
//
// Two players share a session: each round both see the same chart image,
// privately pick one card from their hand, and the picks are revealed to
// each other simultaneously over websockets.
//
// Features:
// - Create a game, share the short game ID (or QR code), second player joins
// - Per-round shared chart, allocated once and stable for the round
// - Private hand cards drawn on demand, no repeats until the catalog recycles
// - One submission per player per round; duplicates rejected, not overwritten
// - Round advances only after both submissions are present
// - Push notifications (opponent joined, opponent's card) over /ws
// - Every pushed fact is also available by polling; HTTP is ground truth
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check

package main

import (
	_ "embed"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

type newGameResponse struct {
	GameID string `json:"gameID"`
	UserID string `json:"userID"`
}

type joinGameResponse struct {
	UserID   string `json:"userID"`
	Opponent string `json:"opponent"`
}

type assetResponse struct {
	ID int `json:"id"`
}

type submitResponse struct {
	Complete bool `json:"complete"`
}

func serveNewGame(cfg *Config, reg *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		s, p, err := reg.create(r.URL.Query().Get("name"))
		if err != nil {
			writeError(cfg, w, err)
			return
		}

		logf(cfg, "GAMES: %q created game %s from %s in %s",
			p.Name,
			s.id,
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)

		_ = writeJSON(cfg, w, newGameResponse{GameID: s.id, UserID: p.ID})
	}
}

func serveJoinGame(cfg *Config, reg *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		s, p, opponent, err := reg.join(
			r.URL.Query().Get("gameID"),
			r.URL.Query().Get("name"),
		)
		if err != nil {
			writeError(cfg, w, err)
			return
		}

		logf(cfg, "GAMES: %q joined game %s (now %s) from %s in %s",
			p.Name,
			s.id,
			s.status(),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)

		_ = writeJSON(cfg, w, joinGameResponse{UserID: p.ID, Opponent: opponent})
	}
}

func serveDrawCard(cfg *Config, reg *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s, ok := reg.get(r.URL.Query().Get("gameID"))
		if !ok {
			writeError(cfg, w, errNotFound)
			return
		}

		card, err := s.drawCard(r.URL.Query().Get("userID"))
		if err != nil {
			writeError(cfg, w, err)
			return
		}

		_ = writeJSON(cfg, w, assetResponse{ID: card})
	}
}

func serveDrawChart(cfg *Config, reg *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s, ok := reg.get(r.URL.Query().Get("gameID"))
		if !ok {
			writeError(cfg, w, errNotFound)
			return
		}

		chart, err := s.drawChart()
		if err != nil {
			writeError(cfg, w, err)
			return
		}

		_ = writeJSON(cfg, w, assetResponse{ID: chart})
	}
}

func serveSubmitCard(cfg *Config, reg *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s, ok := reg.get(r.URL.Query().Get("gameID"))
		if !ok {
			writeError(cfg, w, errNotFound)
			return
		}

		card, err := strconv.Atoi(r.URL.Query().Get("card"))
		if err != nil {
			writeError(cfg, w, errInvalidInput)
			return
		}

		userID := r.URL.Query().Get("userID")

		complete, err := s.submitCard(userID, card)
		if err != nil {
			writeError(cfg, w, err)
			return
		}

		logf(cfg, "GAMES: Player %s submitted card %d in game %s (round complete: %t)",
			userID,
			card,
			s.id,
			complete,
		)

		_ = writeJSON(cfg, w, submitResponse{Complete: complete})
	}
}

func serveNextRound(cfg *Config, reg *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s, ok := reg.get(r.URL.Query().Get("gameID"))
		if !ok {
			writeError(cfg, w, errNotFound)
			return
		}

		chart, err := s.advanceRound()
		if err != nil {
			writeError(cfg, w, err)
			return
		}

		logf(cfg, "GAMES: Game %s advanced to the next round (chart %d)", s.id, chart)

		_ = writeJSON(cfg, w, assetResponse{ID: chart})
	}
}

// serveQR generates a PNG QR code for a join link to the given game.
func serveQR(cfg *Config, reg *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := r.URL.Query().Get("gameID")
		if _, ok := reg.get(gameID); !ok {
			writeError(cfg, w, errNotFound)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + "/?join=" + gameID

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

// ---- Embedded game client ----

//go:embed matchgame/index.html
var indexHTML []byte

//go:embed matchgame/app.css
var matchCSS []byte

//go:embed matchgame/app.js
var matchJS []byte

func getIndexHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_, _ = w.Write(indexHTML)
	}
}

func getCssHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(matchCSS)
	}
}

func getJsHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(matchJS)
	}
}

// registerMatchGame sets up the game API:
//   - POST /newgame?name=           → create a session
//   - POST /joingame?gameID=&name=  → join as second player
//   - GET  /card?gameID=&userID=    → draw a hand card
//   - GET  /chart?gameID=           → current round's chart (idempotent)
//   - POST /submitcard?gameID=&userID=&card= → one submission per round
//   - POST /nextround?gameID=       → advance once both have submitted
//   - GET  /ws                      → per-player push channel
//   - GET  /qr?gameID=              → QR code of the join link
//
// plus the embedded browser client at / and the card/chart image
// catalogs from the assets directory.
func registerMatchGame(cfg *Config, mux *httprouter.Router) *Registry {
	reg := newRegistry(cfg)

	mux.POST(cfg.prefix+"/newgame", serveNewGame(cfg, reg))
	mux.POST(cfg.prefix+"/joingame", serveJoinGame(cfg, reg))
	mux.GET(cfg.prefix+"/card", serveDrawCard(cfg, reg))
	mux.GET(cfg.prefix+"/chart", serveDrawChart(cfg, reg))
	mux.POST(cfg.prefix+"/submitcard", serveSubmitCard(cfg, reg))
	mux.POST(cfg.prefix+"/nextround", serveNextRound(cfg, reg))
	mux.GET(cfg.prefix+"/ws", serveWS(cfg, reg))
	mux.GET(cfg.prefix+"/qr", serveQR(cfg, reg))

	mux.GET(cfg.prefix+"/", getIndexHandler(cfg))
	mux.GET(cfg.prefix+"/assets/match/app.css", getCssHandler(cfg))
	mux.GET(cfg.prefix+"/assets/match/app.js", getJsHandler(cfg))

	registerImageCatalogs(cfg, mux)

	return reg
}
