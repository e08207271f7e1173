/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"crypto/rand"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// newRoomNumber picks a random four digit room number.
func newRoomNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	return strconv.FormatInt(n.Int64()+1000, 10)
}

// redirectNewRoom sends GET /play/:game to a fresh room of that game.
func redirectNewRoom(cfg *Config, hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		game, ok := hub.store.registry.Lookup(ps.ByName("game"))
		if !ok {
			http.NotFound(w, r)
			return
		}

		room := newRoomNumber()
		logf(cfg, "GAMES: Opened room %s/%s for %s", game.Name, room, realIP(r))

		http.Redirect(w, r, cfg.prefix+"/play/"+url.PathEscape(game.Name)+"/"+room, http.StatusTemporaryRedirect)
	}
}

func serveRoomPage(cfg *Config, errs chan<- error) httprouter.Handle {
	page, err := assets.ReadFile("assets/index.html")
	if err != nil {
		panic("missing embedded client page: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		if _, err := w.Write(page); err != nil {
			errs <- err
		}
	}
}

// serveRoomQR renders a PNG QR code pointing at the room page it hangs off.
func serveRoomQR(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		scheme := cfg.scheme()
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		target := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

		png, err := qrcode.Encode(target, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

// registerRooms sets up:
//   - $prefix/play/:game             → redirect to a new random room
//   - $prefix/play/:game/:room       → HTML client
//   - $prefix/play/:game/:room/qr    → PNG QR code for the room URL
func registerRooms(cfg *Config, hub *Hub, mux *httprouter.Router, errs chan<- error) {
	mux.GET(cfg.prefix+"/play/:game", redirectNewRoom(cfg, hub))
	mux.GET(cfg.prefix+"/play/:game/:room", serveRoomPage(cfg, errs))
	mux.GET(cfg.prefix+"/play/:game/:room/qr", serveRoomQR(cfg))
}
