package main

import (
	"crypto/rand"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/im24a-edenf/Word-guees-game/wordguess"
)

// newRoomCode generates a crypto-random room code, retrying on the
// (unlikely) collision with a live room.
func newRoomCode(reg *wordguess.Registry) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	for {
		buf := make([]byte, 6)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 6)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		code := string(out)

		if !reg.RoomExists(code) {
			return code
		}
	}
}

// redirectNewRoom handles GET on the game root by minting a fresh room
// code and redirecting to it.
func redirectNewRoom(cfg *Config, path string, reg *wordguess.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		code := newRoomCode(reg)
		logf(cfg, "ROOMS: Minted room code %s%s/%s", cfg.prefix, path, code)
		http.Redirect(w, r, cfg.prefix+path+"/"+code, http.StatusTemporaryRedirect)
	}
}

// qrHandler serves a PNG QR code for the current room URL so players can
// share a session by pointing a phone at the screen.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomid")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
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

	// We are at /.../:roomid/qr; strip trailing "/qr" to get the room URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// registerWordGuessGame sets up routes so that:
//   - $path                → redirects to a new random room code
//   - $path/:roomid        → HTML client
//   - $path/:roomid/ws     → relay websocket for that room
//   - $path/:roomid/qr     → PNG QR code for that room URL
func registerWordGuessGame(cfg *Config, path string, mux *httprouter.Router) {
	reg := wordguess.NewRegistry(func(format string, args ...any) {
		logf(cfg, format, args...)
	})

	// Root path → redirect to new random room
	mux.GET(cfg.prefix+path, redirectNewRoom(cfg, path, reg))

	// Per-room client view (HTML)
	mux.GET(cfg.prefix+path+"/:roomid", serveGamePage(cfg))

	// Shared assets (no roomid in route)
	mux.GET(cfg.prefix+"/assets/wordguess/app.css", serveAsset(cfg, "assets/wordguess/app.css", "text/css; charset=utf-8"))
	mux.GET(cfg.prefix+"/assets/wordguess/app.js", serveAsset(cfg, "assets/wordguess/app.js", "text/javascript; charset=utf-8"))

	// Per-room websocket; the relay holds no game logic, membership only.
	ws := wordguess.Handler(reg)
	mux.GET(cfg.prefix+path+"/:roomid/ws", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ws(w, r)
	})

	// Per-room QR code
	mux.GET(cfg.prefix+path+"/:roomid/qr", qrHandler)
}
