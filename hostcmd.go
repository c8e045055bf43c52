package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/im24a-edenf/Word-guees-game/wordguess"
)

func newHostCmd(cfg *Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "host <server-url> <room-code>",
		Short:         "Join a room as a headless host that runs the rounds.",
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validateGame(); err != nil {
				return err
			}
			return runHost(cmd.Context(), cfg, args[0], args[1])
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.name, "name", "Host", "display name for the host player (env: WORDGUESS_NAME)")
	bindFlags(fs, v)

	return cmd
}

// relayURL turns a server base URL into the websocket endpoint for a room.
func relayURL(base, roomCode string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q (want http, https, ws or wss)", u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/play/" + roomCode + "/ws"

	return u.String(), nil
}

// runHost joins a room and, while it holds host authority, keeps games
// running: it starts a game as soon as a second player is present and
// returns a finished game to the lobby for the next one. It exits when
// the relay connection drops.
func runHost(ctx context.Context, cfg *Config, serverURL, roomCode string) error {
	wsURL, err := relayURL(serverURL, roomCode)
	if err != nil {
		return err
	}

	plumb := func(format string, args ...any) { logf(cfg, format, args...) }

	gc, err := wordguess.Dial(ctx, wsURL, roomCode, wordguess.Player{Name: cfg.name}, wordguess.ClientOptions{
		Machine: wordguess.MachineConfig{
			RoundTime:    int(cfg.roundTime / time.Second),
			HintInterval: int(cfg.hintInterval / time.Second),
			Rounds:       cfg.rounds,
		},
		Source: wordguess.NewAPISource(cfg.wordAPI, plumb),
		Logf:   plumb,
	})
	if err != nil {
		return err
	}
	defer gc.Close()

	logf(cfg, "HOST: Joined room %s at %s as %q", roomCode, wsURL, cfg.name)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-gc.Done():
			return errors.New("connection to relay lost")
		case <-ticker.C:
		}

		if !gc.IsHost() {
			continue
		}

		view := gc.View()
		switch {
		case view.Status == wordguess.StatusLobby && len(view.Players) > 1:
			logf(cfg, "HOST: Starting a game with %d players", len(view.Players))
			gc.StartGame(ctx)
		case view.Status == wordguess.StatusGameOver:
			logf(cfg, "HOST: Game over, returning to lobby")
			gc.ResetToLobby()
		}
	}
}
