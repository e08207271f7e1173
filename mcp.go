/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const maxMCPRequest = 1 << 20

func newMCPServer(hub *Hub) *server.MCPServer {
	s := server.NewMCPServer(
		"partyrelay",
		releaseVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`partyrelay session inspector.

Use list_games to see which game types rooms can be opened for, list_sessions
to see live sessions and their members, get_session for a full state snapshot,
and close_session to end a session the same way a departing host would.`),
	)

	s.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List the registered game types",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(hub.Games())
	})

	s.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List live sessions with their members and running timers",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessions, err := hub.Sessions(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if sessions == nil {
			sessions = []SessionInfo{}
		}
		return jsonResult(sessions)
	})

	s.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get one session, including a snapshot of its game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": map[string]any{
					"type":        "string",
					"description": "Session ID, e.g. rps-7",
				},
			},
			Required: []string{"session_id"},
		},
	}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		info, err := hub.Session(ctx, sessionIDArg(request))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(info)
	})

	s.AddTool(mcp.Tool{
		Name:        "close_session",
		Description: "Close a session, notifying and disconnecting its members",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": map[string]any{
					"type":        "string",
					"description": "Session ID to close",
				},
			},
			Required: []string{"session_id"},
		},
	}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := sessionIDArg(request)
		if err := hub.CloseSession(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("closed " + id), nil
	})

	return s
}

func sessionIDArg(request mcp.CallToolRequest) string {
	args, _ := request.Params.Arguments.(map[string]any)
	id, _ := args["session_id"].(string)

	return id
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(b)), nil
}

func serveMCP(cfg *Config, s *server.MCPServer) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxMCPRequest))
		if err != nil {
			http.Error(w, "failed to read request", http.StatusBadRequest)
			return
		}

		response := s.HandleMessage(r.Context(), body)
		if response == nil {
			w.WriteHeader(http.StatusAccepted)
			return
		}

		logf(cfg, "SERVE: MCP request from %s", realIP(r))

		respondJSON(cfg, w, http.StatusOK, response)
	}
}

func registerMCP(cfg *Config, hub *Hub, mux *httprouter.Router) {
	mux.POST(cfg.prefix+"/mcp", serveMCP(cfg, newMCPServer(hub)))
}
