/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const statusTimeout = 10 * time.Second

func fetchSessions(server string) ([]SessionInfo, error) {
	client := &http.Client{Timeout: statusTimeout}

	resp, err := client.Get(strings.TrimSuffix(server, "/") + "/api/sessions")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var sessions []SessionInfo
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}

	return sessions, nil
}

func renderSessions(w io.Writer, sessions []SessionInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Session", "Game", "Room", "Host", "Players", "Timers", "Idle"})

	for _, s := range sessions {
		host := s.Host
		if len(host) > 8 {
			host = host[:8]
		}

		timers := strings.Join(s.Timers, ",")
		if timers == "" {
			timers = "-"
		}

		t.AppendRow(table.Row{
			s.ID,
			s.GameType,
			s.RoomNumber,
			host,
			strconv.Itoa(len(s.Members)),
			timers,
			time.Since(s.LastActive).Round(time.Second),
		})
	}

	t.AppendFooter(table.Row{"", "", "", "Total", len(sessions)})
	t.SetStyle(table.StyleLight)
	t.Render()
}

func newSessionsCmd(v *viper.Viper) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List live sessions on a running relay.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := fetchSessions(server)
			if err != nil {
				return err
			}

			renderSessions(cmd.OutOrStdout(), sessions)

			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&server, "server", "s", "http://localhost:8080", "base URL of the relay, including any prefix (env: PARTYRELAY_SERVER)")

	bindEnv(v, fs)

	return cmd
}
