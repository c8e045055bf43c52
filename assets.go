package main

import (
	"embed"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
)

//go:embed assets/*
var assets embed.FS

func writeAsset(cfg *Config, w http.ResponseWriter, name, contentType string) {
	data, err := assets.ReadFile(name)
	if err != nil {
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Type", contentType)
	securityHeaders(cfg, w)

	_, _ = w.Write(data)
}

func serveAsset(cfg *Config, name, contentType string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeAsset(cfg, w, name, contentType)
	}
}

// entryPageHandler serves the single entry page. All unmatched paths
// route here as well.
func entryPageHandler(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeAsset(cfg, w, "assets/wordguess/index.html", "text/html; charset=utf-8")
	}
}

func serveEntryPage(cfg *Config) httprouter.Handle {
	h := entryPageHandler(cfg)
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		h(w, r)
	}
}

// serveGamePage serves the in-room client; the page reads the room code
// from its own URL.
func serveGamePage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeAsset(cfg, w, "assets/wordguess/index.html", "text/html; charset=utf-8")
	}
}
