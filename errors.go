/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Every failure a game request can produce. Handlers translate these to
// HTTP statuses; anything unrecognized becomes a 500.
var (
	errInvalidInput     = errors.New("missing or malformed parameter")
	errNotFound         = errors.New("unknown game or player")
	errSessionFull      = errors.New("game already has two players")
	errAlreadySubmitted = errors.New("card already submitted this round")
	errRoundNotComplete = errors.New("both players must submit before the next round")
	errExhausted        = errors.New("image catalog exhausted")
)

func errStatus(err error) int {
	switch {
	case errors.Is(err, errInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, errSessionFull),
		errors.Is(err, errAlreadySubmitted),
		errors.Is(err, errRoundNotComplete):
		return http.StatusConflict
	case errors.Is(err, errExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(cfg *Config, w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	securityHeaders(cfg, w)
	w.WriteHeader(errStatus(err))

	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(cfg *Config, w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	securityHeaders(cfg, w)

	return json.NewEncoder(w).Encode(v)
}
