/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func respondJSON(cfg *Config, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(cfg, w)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(cfg *Config, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrHubStopped):
		status = http.StatusServiceUnavailable
	}

	respondJSON(cfg, w, status, map[string]string{
		"error": err.Error(),
		"code":  errorCode(err),
	})
}

func serveGames(cfg *Config, hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		respondJSON(cfg, w, http.StatusOK, hub.Games())
	}
}

func serveSessions(cfg *Config, hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sessions, err := hub.Sessions(r.Context())
		if err != nil {
			respondError(cfg, w, err)
			return
		}
		if sessions == nil {
			sessions = []SessionInfo{}
		}

		respondJSON(cfg, w, http.StatusOK, sessions)
	}
}

func serveSession(cfg *Config, hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		info, err := hub.Session(r.Context(), ps.ByName("id"))
		if err != nil {
			respondError(cfg, w, err)
			return
		}

		respondJSON(cfg, w, http.StatusOK, info)
	}
}

func serveCloseSession(cfg *Config, hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("id")
		if err := hub.CloseSession(r.Context(), id); err != nil {
			respondError(cfg, w, err)
			return
		}

		logf(cfg, "CLOSE: Session %s closed by %s", id, realIP(r))

		w.WriteHeader(http.StatusNoContent)
	}
}

func registerAPI(cfg *Config, hub *Hub, mux *httprouter.Router) {
	mux.GET(cfg.prefix+"/api/games", serveGames(cfg, hub))
	mux.GET(cfg.prefix+"/api/sessions", serveSessions(cfg, hub))
	mux.GET(cfg.prefix+"/api/sessions/:id", serveSession(cfg, hub))
	mux.DELETE(cfg.prefix+"/api/sessions/:id", serveCloseSession(cfg, hub))
}
