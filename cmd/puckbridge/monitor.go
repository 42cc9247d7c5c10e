package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/puckbridge/puckbridge/internal/bridge"
	"github.com/puckbridge/puckbridge/internal/protocol"
	"github.com/puckbridge/puckbridge/internal/state"
	"github.com/spf13/cobra"
)

const summaryInterval = time.Second * 30

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the bridge with live goal/join alerts and periodic game summaries",
	Args:  cobra.NoArgs,
	RunE:  monitor,
}

// monitor runs the bridge with a handful of example observers attached:
// goal alerts, join notifications and a periodic summary printed to stdout.
func monitor(cmd *cobra.Command, _ []string) error {
	userConfig, logCloser, errSetup := setup()
	if errSetup != nil {
		return errSetup
	}
	defer closeLogger(logCloser)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gameBridge := bridge.New(userConfig)

	gameBridge.Subscribe(protocol.TypeGoalScored, func(payload map[string]any) {
		onGoal(gameBridge, payload)
	})
	gameBridge.Subscribe(protocol.TypePlayerSpawned, func(payload map[string]any) {
		onPlayerJoined(gameBridge, payload)
	})

	go summaryLoop(ctx, gameBridge)

	fmt.Println("Waiting for game connection...") //nolint:forbidigo

	return gameBridge.Start(ctx)
}

func onGoal(gameBridge *bridge.Bridge, payload map[string]any) {
	team, _ := payload["team"].(string)
	scorer := "unknown"
	if players, ok := payload["players"].(map[string]any); ok {
		if goal, okGoal := players["goal"].(map[string]any); okGoal {
			if username, okName := goal["username"].(string); okName {
				scorer = username
			}
		}
	}

	fmt.Printf("GOAL! %s scored for team %s. %s\n", //nolint:forbidigo
		scorer, team, gameBridge.State().ScoreString())
}

func onPlayerJoined(gameBridge *bridge.Bridge, payload map[string]any) {
	player, ok := payload["player"].(map[string]any)
	if !ok {
		return
	}

	username, _ := player["username"].(string)
	team, _ := player["team"].(string)
	balance := gameBridge.State().TeamBalance()

	fmt.Printf("Player joined: %s (team %s). Balance: blue %d, red %d, spectators %d\n", //nolint:forbidigo
		username, team, balance.Blue, balance.Red, balance.Spectators)
}

// summaryLoop prints a game summary every 30 seconds while the game is
// feeding us data.
func summaryLoop(ctx context.Context, gameBridge *bridge.Bridge) {
	ticker := time.NewTicker(summaryInterval)
	wasConnected := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		store := gameBridge.State()
		connected := store.Connected()
		if connected != wasConnected {
			if connected {
				fmt.Println("Game connection detected") //nolint:forbidigo
			} else {
				fmt.Println("Waiting for game connection...") //nolint:forbidigo
			}
			wasConnected = connected
		}

		if !connected {
			continue
		}

		printSummary(gameBridge)
	}
}

func printSummary(gameBridge *bridge.Bridge) {
	var (
		store   = gameBridge.State()
		summary = store.Summary()
		game    = store.GameState()
		lines   = []string{
			"Game summary:",
			fmt.Sprintf("  Phase: %s (updated %s)", summary.Phase, humanize.Time(game.LastUpdated)),
			fmt.Sprintf("  Time: %s, period %d", state.FormatGameTime(summary.Time), summary.Period),
			fmt.Sprintf("  Score: %s", store.ScoreString()),
			fmt.Sprintf("  Players: %d total (%d blue, %d red)",
				summary.PlayerCount, summary.BluePlayers, summary.RedPlayers),
			fmt.Sprintf("  Status: %s", gameStatus(store)),
		}
	)

	if scorers := topScorerLine(store); scorers != "" {
		lines = append(lines, "  Top scorers: "+scorers)
	}

	lines = append(lines, fmt.Sprintf("  Performance: %.1f FPS (avg %.1f)",
		summary.CurrentFPS, summary.AverageFPS))

	fmt.Println(strings.Join(lines, "\n")) //nolint:forbidigo
}

func gameStatus(store *state.Store) string {
	switch {
	case store.IsGameOver():
		return "game over"
	case store.IsWarmup():
		return "warmup"
	case store.IsScoringPhase():
		return "goal celebration"
	case store.IsGameInProgress():
		if leading := store.LeadingTeam(); leading != "tied" {
			return fmt.Sprintf("in progress, %s leading by %d", leading, store.ScoreDifference())
		}

		return "in progress, tied"
	case store.IsGameActive():
		return store.Phase()
	default:
		return "no active game"
	}
}

func topScorerLine(store *state.Store) string {
	var parts []string
	for _, player := range store.TopScorers(3) {
		if player.Goals == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%d)", player.Username, player.Goals))
	}

	return strings.Join(parts, ", ")
}
