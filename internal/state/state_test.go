package state_test

import (
	"testing"

	"github.com/puckbridge/puckbridge/internal/state"
	"github.com/stretchr/testify/require"
)

func TestApplyGameStatePartialMerge(t *testing.T) {
	store := state.NewStore()

	store.ApplyGameState(map[string]any{
		"phase":  "warmup",
		"time":   12.5,
		"period": float64(1),
		"scores": map[string]any{"blue": float64(2), "red": float64(1)},
	})

	game := store.GameState()
	require.Equal(t, "warmup", game.Phase)
	require.InDelta(t, 12.5, game.Time, 0.001)
	require.Equal(t, 1, game.Period)
	require.Equal(t, 2, game.BlueScore)
	require.Equal(t, 1, game.RedScore)
	require.False(t, game.LastUpdated.IsZero())

	// Fields absent from an update never change.
	store.ApplyGameState(map[string]any{"period": float64(2)})

	game = store.GameState()
	require.Equal(t, "warmup", game.Phase)
	require.InDelta(t, 12.5, game.Time, 0.001)
	require.Equal(t, 2, game.Period)
	require.Equal(t, 2, game.BlueScore)
	require.Equal(t, 1, game.RedScore)

	// A partial scores object only touches the side it names.
	store.ApplyGameState(map[string]any{"scores": map[string]any{"red": float64(3)}})

	game = store.GameState()
	require.Equal(t, 2, game.BlueScore)
	require.Equal(t, 3, game.RedScore)
}

func TestApplyGameStateIgnoresUnknownFields(t *testing.T) {
	store := state.NewStore()
	store.ApplyGameState(map[string]any{"bogus": "value", "phase": "playing"})

	require.Equal(t, "playing", store.Phase())
}

func TestUpsertPlayerCreateOnDemand(t *testing.T) {
	store := state.NewStore()

	store.UpsertPlayer(7, map[string]any{})

	player, found := store.PlayerByID(7)
	require.True(t, found)
	require.Equal(t, 7, player.ClientID)
	require.Equal(t, "unknown", player.Username)
	require.Equal(t, "none", player.Team)
	require.Equal(t, "right", player.Handedness)
	require.Zero(t, player.Goals)
	require.False(t, player.LastUpdated.IsZero())
}

func TestUpsertPlayerPartialMerge(t *testing.T) {
	store := state.NewStore()

	store.UpsertPlayer(1, map[string]any{
		"username": "gretzky",
		"team":     "blue",
		"goals":    float64(3),
		"steam_id": "7656119",
	})
	store.UpsertPlayer(1, map[string]any{"ping": float64(40)})

	player, found := store.PlayerByID(1)
	require.True(t, found)
	require.Equal(t, "gretzky", player.Username)
	require.Equal(t, "blue", player.Team)
	require.Equal(t, 3, player.Goals)
	require.Equal(t, "7656119", player.SteamID)
	require.Equal(t, 40, player.Ping)
}

func TestRemovePlayerThenRecreate(t *testing.T) {
	store := state.NewStore()

	store.UpsertPlayer(5, map[string]any{"username": "lemieux", "goals": float64(9)})
	store.RemovePlayer(5)

	_, found := store.PlayerByID(5)
	require.False(t, found)
	require.Zero(t, store.PlayerCount())

	// Removing an unknown id is a no-op.
	store.RemovePlayer(5)

	// A later update recreates a fresh default player, not the stale one.
	store.UpsertPlayer(5, map[string]any{"team": "red"})

	player, foundAgain := store.PlayerByID(5)
	require.True(t, foundAgain)
	require.Equal(t, "unknown", player.Username)
	require.Equal(t, "red", player.Team)
	require.Zero(t, player.Goals)
}

func TestApplyPerformance(t *testing.T) {
	store := state.NewStore()

	store.ApplyPerformance(map[string]any{
		"current": 59.9,
		"min":     30.0,
		"average": 58.2,
		"max":     120.0,
	})

	perf := store.Performance()
	require.InDelta(t, 59.9, perf.CurrentFPS, 0.001)
	require.InDelta(t, 30.0, perf.MinFPS, 0.001)
	require.InDelta(t, 58.2, perf.AverageFPS, 0.001)
	require.InDelta(t, 120.0, perf.MaxFPS, 0.001)

	store.ApplyPerformance(map[string]any{"current": 45.0})

	perf = store.Performance()
	require.InDelta(t, 45.0, perf.CurrentFPS, 0.001)
	require.InDelta(t, 58.2, perf.AverageFPS, 0.001)
}

func TestRecordLastGoal(t *testing.T) {
	store := state.NewStore()
	require.Nil(t, store.LastGoal())

	payload := map[string]any{"team": "blue", "anything": "goes"}
	store.RecordLastGoal(payload)

	require.Equal(t, payload, store.LastGoal())
}

func TestConnectedHeuristic(t *testing.T) {
	store := state.NewStore()
	require.False(t, store.Connected())

	store.ApplyGameState(map[string]any{"phase": "warmup"})
	require.True(t, store.Connected())

	// Players alone keep the heuristic true even with stale snapshots.
	fresh := state.NewStore()
	fresh.UpsertPlayer(1, map[string]any{})
	require.True(t, fresh.Connected())

	perfOnly := state.NewStore()
	perfOnly.ApplyPerformance(map[string]any{"current": 60.0})
	require.True(t, perfOnly.Connected())
}
