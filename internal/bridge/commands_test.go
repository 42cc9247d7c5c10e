package bridge_test

import (
	"testing"

	"github.com/puckbridge/puckbridge/internal/bridge"
	"github.com/puckbridge/puckbridge/internal/config"
	"github.com/puckbridge/puckbridge/internal/server"
	"github.com/stretchr/testify/require"
)

func TestCommandsLocalValidation(t *testing.T) {
	commands := bridge.NewCommands(bridge.New(config.Config{ListenAddress: "127.0.0.1:0"}))

	require.ErrorIs(t, commands.SystemMessage(""), bridge.ErrEmptyMessage)
	require.ErrorIs(t, commands.KickPlayer("", "spam", true), bridge.ErrNoSteamID)
	require.ErrorIs(t, commands.KickPlayerByName("nobody", "spam", true), bridge.ErrUnknownPlayer)
}

func TestCommandsRequirePeer(t *testing.T) {
	gameBridge := bridge.New(config.Config{ListenAddress: "127.0.0.1:0"})
	commands := bridge.NewCommands(gameBridge)

	// With no game attached every send reports failure without panicking.
	require.ErrorIs(t, commands.SystemMessage("hello"), server.ErrNoPeer)
	require.ErrorIs(t, commands.RestartGame("admin restart", true, 30), server.ErrNoPeer)
	require.ErrorIs(t, commands.Custom("play_sound", map[string]any{"sound": "horn"}), server.ErrNoPeer)
}

func TestKickPlayerByNameResolvesSteamID(t *testing.T) {
	gameBridge := bridge.New(config.Config{ListenAddress: "127.0.0.1:0"})
	gameBridge.State().UpsertPlayer(3, map[string]any{"username": "Hull"})

	commands := bridge.NewCommands(gameBridge)

	// Known player without a steam id is rejected before any send.
	require.ErrorIs(t, commands.KickPlayerByName("hull", "spam", true), bridge.ErrNoSteamID)

	gameBridge.State().UpsertPlayer(3, map[string]any{"steam_id": "7656"})

	// Resolution succeeds, failure now comes from the missing peer.
	require.ErrorIs(t, commands.KickPlayerByName("hull", "spam", true), server.ErrNoPeer)
}
