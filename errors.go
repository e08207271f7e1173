/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

var (
	ErrInvalidSessionKey = errors.New("invalid session key")
	ErrUnknownGameType   = errors.New("unknown game type")
	ErrMalformedMessage  = errors.New("malformed message")
	ErrNotInSession      = errors.New("not in a session")
	ErrInvalidState      = errors.New("invalid state")
	ErrSessionNotFound   = errors.New("session not found")
	ErrHubStopped        = errors.New("hub stopped")
)

// errorCode maps an error onto the code sent to clients in "error" events.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSessionKey):
		return "invalid_session_key"
	case errors.Is(err, ErrUnknownGameType):
		return "unknown_game_type"
	case errors.Is(err, ErrMalformedMessage):
		return "malformed_message"
	case errors.Is(err, ErrNotInSession):
		return "not_in_session"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	default:
		return "internal"
	}
}

func logf(cfg *Config, format string, args ...any) {
	if cfg == nil || !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon())
	htmlBody.WriteString(`<link rel="stylesheet" href="/assets/relay.css">`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><main><h1>%s</h1>%s</main></body></html>", title, body))

	return htmlBody.String()
}
