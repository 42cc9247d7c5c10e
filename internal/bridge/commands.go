package bridge

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyMessage  = errors.New("cannot send empty system message")
	ErrUnknownPlayer = errors.New("player not found")
	ErrNoSteamID     = errors.New("no steam id available for player")
)

// Commands wraps the common administrative commands the game understands.
// Anything not covered here can be sent with Custom.
type Commands struct {
	bridge *Bridge
}

func NewCommands(bridge *Bridge) Commands {
	return Commands{bridge: bridge}
}

// SystemMessage broadcasts a chat message to all players.
func (c Commands) SystemMessage(message string) error {
	if message == "" {
		return ErrEmptyMessage
	}

	return c.bridge.SendCommand("system_message", map[string]any{"message": message})
}

// RestartGame restarts the current game. A warmupTime of zero or less keeps
// the game's own default.
func (c Commands) RestartGame(reason string, warmup bool, warmupTime int) error {
	payload := map[string]any{"reason": reason, "warmup": warmup}
	if warmupTime > 0 {
		payload["warmup_time"] = warmupTime
	}

	return c.bridge.SendCommand("restart_game", payload)
}

// KickPlayer kicks a player by steam id.
func (c Commands) KickPlayer(steamID string, reason string, applyTimeout bool) error {
	if steamID == "" {
		return ErrNoSteamID
	}

	return c.bridge.SendCommand("kick_player", map[string]any{
		"steamid":       steamID,
		"reason":        reason,
		"apply_timeout": applyTimeout,
	})
}

// KickPlayerByName resolves a username to a steam id via the state store and
// kicks that player.
func (c Commands) KickPlayerByName(username string, reason string, applyTimeout bool) error {
	player, found := c.bridge.State().PlayerByName(username)
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, username)
	}

	if player.SteamID == "" {
		return fmt.Errorf("%w: %s", ErrNoSteamID, username)
	}

	return c.KickPlayer(player.SteamID, reason, applyTimeout)
}

// Custom sends an arbitrary named command with the given fields.
func (c Commands) Custom(name string, fields map[string]any) error {
	return c.bridge.SendCommand(name, fields)
}
