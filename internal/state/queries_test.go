package state_test

import (
	"testing"

	"github.com/puckbridge/puckbridge/internal/state"
	"github.com/stretchr/testify/require"
)

func rosterStore(t *testing.T) *state.Store {
	t.Helper()

	store := state.NewStore()
	store.UpsertPlayer(1, map[string]any{"username": "Alpha", "team": "Blue", "goals": float64(3)})
	store.UpsertPlayer(2, map[string]any{"username": "Bravo", "team": "red", "goals": float64(0)})
	store.UpsertPlayer(3, map[string]any{"username": "Charlie", "team": "blue", "goals": float64(5)})
	store.UpsertPlayer(4, map[string]any{"username": "Delta", "team": "red", "goals": float64(5)})
	store.UpsertPlayer(5, map[string]any{"username": "Echo", "team": "none"})
	store.UpsertPlayer(6, map[string]any{"username": "Foxtrot", "team": "blue", "state": "spectating"})

	return store
}

func TestPlayersByTeamCaseInsensitive(t *testing.T) {
	store := rosterStore(t)

	blue := store.PlayersByTeam("BLUE")
	require.Len(t, blue, 3)
	require.Equal(t, "Alpha", blue[0].Username)
	require.Equal(t, "Charlie", blue[1].Username)
	require.Equal(t, "Foxtrot", blue[2].Username)

	require.Len(t, store.PlayersByTeam("red"), 2)
	require.Empty(t, store.PlayersByTeam("green"))
}

func TestActivePlayersExcludesSpectators(t *testing.T) {
	store := rosterStore(t)

	active := store.ActivePlayers()
	require.Len(t, active, 4)
	for _, player := range active {
		require.NotEqual(t, "Echo", player.Username)
		require.NotEqual(t, "Foxtrot", player.Username)
	}
}

func TestPlayerLookup(t *testing.T) {
	store := rosterStore(t)

	player, found := store.PlayerByName("charlie")
	require.True(t, found)
	require.Equal(t, 3, player.ClientID)

	_, found = store.PlayerByName("nobody")
	require.False(t, found)

	matches := store.FindPlayersByPartialName("ECHO")
	require.Len(t, matches, 1)
	require.Equal(t, "Echo", matches[0].Username)

	matches = store.FindPlayersByPartialName("r")
	require.Len(t, matches, 3) // Bravo, Charlie, Foxtrot in first-seen order
	require.Equal(t, "Bravo", matches[0].Username)
	require.Equal(t, "Charlie", matches[1].Username)
	require.Equal(t, "Foxtrot", matches[2].Username)

	require.Empty(t, store.FindPlayersByPartialName("zz"))
}

func TestTopScorersStableOrder(t *testing.T) {
	store := state.NewStore()
	store.UpsertPlayer(10, map[string]any{"username": "three", "goals": float64(3)})
	store.UpsertPlayer(11, map[string]any{"username": "zero", "goals": float64(0)})
	store.UpsertPlayer(12, map[string]any{"username": "five-a", "goals": float64(5)})
	store.UpsertPlayer(13, map[string]any{"username": "five-b", "goals": float64(5)})

	top := store.TopScorers(2)
	require.Len(t, top, 2)
	require.Equal(t, "five-a", top[0].Username)
	require.Equal(t, "five-b", top[1].Username)

	all := store.TopScorers(10)
	require.Len(t, all, 4)
	require.Equal(t, "three", all[2].Username)
	require.Equal(t, "zero", all[3].Username)
}

func TestLeadingTeamAndScoreDifference(t *testing.T) {
	store := state.NewStore()
	require.Equal(t, "tied", store.LeadingTeam())
	require.Zero(t, store.ScoreDifference())

	store.ApplyGameState(map[string]any{"scores": map[string]any{"blue": float64(2), "red": float64(0)}})
	require.Equal(t, "blue", store.LeadingTeam())
	require.Equal(t, 2, store.ScoreDifference())

	store.ApplyGameState(map[string]any{"scores": map[string]any{"red": float64(5)}})
	require.Equal(t, "red", store.LeadingTeam())
	require.Equal(t, 3, store.ScoreDifference())
}

func TestTeamBalance(t *testing.T) {
	store := rosterStore(t)

	balance := store.TeamBalance()
	require.Equal(t, 3, balance.Blue)
	require.Equal(t, 2, balance.Red)
	require.Equal(t, 1, balance.Spectators)
}

func TestSummary(t *testing.T) {
	store := rosterStore(t)
	store.ApplyGameState(map[string]any{
		"phase":  "playing",
		"time":   65.0,
		"period": float64(2),
		"scores": map[string]any{"blue": float64(1), "red": float64(0)},
	})
	store.ApplyPerformance(map[string]any{"current": 60.0, "average": 58.5})

	summary := store.Summary()
	require.Equal(t, "playing", summary.Phase)
	require.InDelta(t, 65.0, summary.Time, 0.001)
	require.Equal(t, 2, summary.Period)
	require.Equal(t, 1, summary.BlueScore)
	require.Equal(t, 0, summary.RedScore)
	require.Equal(t, 6, summary.PlayerCount)
	require.Equal(t, 3, summary.BluePlayers)
	require.Equal(t, 2, summary.RedPlayers)
	require.InDelta(t, 60.0, summary.CurrentFPS, 0.001)
	require.InDelta(t, 58.5, summary.AverageFPS, 0.001)
}

func TestFormatHelpers(t *testing.T) {
	require.Equal(t, "00:00", state.FormatGameTime(0))
	require.Equal(t, "01:05", state.FormatGameTime(65.4))
	require.Equal(t, "20:00", state.FormatGameTime(1200))

	store := state.NewStore()
	store.ApplyGameState(map[string]any{"scores": map[string]any{"blue": float64(4), "red": float64(2)}})
	require.Equal(t, "Blue 4 - Red 2", store.ScoreString())
}
