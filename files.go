/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB",
		float64(bytes)/float64(div),
		"kMGTPE"[exp])
}

// The card and chart image catalogs are deployment-provided, living on
// disk under the assets directory as cards/card_N.jpg and
// charts/chart_N.jpg. Identifiers handed out by the decks index into
// these catalogs.
func registerImageCatalogs(cfg *Config, mux *httprouter.Router) {
	cards := http.FileServer(http.Dir(cfg.assets + "/cards"))
	charts := http.FileServer(http.Dir(cfg.assets + "/charts"))

	mux.GET(cfg.prefix+"/cards/*filepath", serveImages(cfg, cards))
	mux.GET(cfg.prefix+"/charts/*filepath", serveImages(cfg, charts))
}

func serveImages(cfg *Config, fileServer http.Handler) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		r.URL.Path = p.ByName("filepath")
		fileServer.ServeHTTP(w, r)
	}
}
