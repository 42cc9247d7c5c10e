package state

import (
	"time"
)

// Player is a single tracked participant, keyed by the client id the game
// assigns. Every field except ClientID is last-write-wins: an update that
// omits a field leaves the previous value untouched.
type Player struct {
	ClientID     int
	Username     string
	State        string
	Team         string
	Role         string
	Number       int
	Goals        int
	Assists      int
	Ping         int
	Handedness   string
	Country      string
	SteamID      string
	PatreonLevel int
	AdminLevel   int
	LastUpdated  time.Time
}

type Players []Player

// newPlayer returns a player with the default values used when a client id
// is first sighted without a full spawn payload.
func newPlayer(clientID int) Player {
	return Player{
		ClientID:   clientID,
		Username:   "unknown",
		State:      "unknown",
		Team:       "none",
		Role:       "none",
		Handedness: "right",
	}
}

// merge applies any recognized fields present in data onto the player.
// Unknown keys are ignored.
func (p *Player) merge(data map[string]any) {
	if value, ok := asString(data["username"]); ok {
		p.Username = value
	}
	if value, ok := asString(data["state"]); ok {
		p.State = value
	}
	if value, ok := asString(data["team"]); ok {
		p.Team = value
	}
	if value, ok := asString(data["role"]); ok {
		p.Role = value
	}
	if value, ok := asInt(data["number"]); ok {
		p.Number = value
	}
	if value, ok := asInt(data["goals"]); ok {
		p.Goals = value
	}
	if value, ok := asInt(data["assists"]); ok {
		p.Assists = value
	}
	if value, ok := asInt(data["ping"]); ok {
		p.Ping = value
	}
	if value, ok := asString(data["handedness"]); ok {
		p.Handedness = value
	}
	if value, ok := asString(data["country"]); ok {
		p.Country = value
	}
	if value, ok := asString(data["steam_id"]); ok {
		p.SteamID = value
	}
	if value, ok := asInt(data["patreon_level"]); ok {
		p.PatreonLevel = value
	}
	if value, ok := asInt(data["admin_level"]); ok {
		p.AdminLevel = value
	}
}

// asString extracts a string value from decoded JSON data.
func asString(value any) (string, bool) {
	str, ok := value.(string)

	return str, ok
}

// asInt extracts an integer from decoded JSON data. encoding/json decodes
// all numbers into float64, so both forms are accepted.
func asInt(value any) (int, bool) {
	switch num := value.(type) {
	case float64:
		return int(num), true
	case int:
		return num, true
	default:
		return 0, false
	}
}

// asFloat extracts a float from decoded JSON data.
func asFloat(value any) (float64, bool) {
	switch num := value.(type) {
	case float64:
		return num, true
	case int:
		return float64(num), true
	default:
		return 0, false
	}
}
