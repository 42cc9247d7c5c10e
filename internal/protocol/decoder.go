package protocol

import (
	"log/slog"
	"strings"

	"github.com/puckbridge/puckbridge/internal/events"
	"github.com/puckbridge/puckbridge/internal/state"
)

// Canonical event types the decoder routes to and registers built-in
// handlers for. User code can subscribe to the same types to observe the
// events independently of the state store.
const (
	TypeGameState             = "game_state"
	TypePerformance           = "performance"
	TypePlayerSpawned         = "player_spawned"
	TypePlayerDespawned       = "player_despawned"
	TypePlayerStateChanged    = "player_state_changed"
	TypePlayerPropertyChanged = "player_property_changed"
	TypeGoalScored            = "goal_scored"
)

func NewDecoder(store *state.Store, bus *events.Bus) *Decoder {
	decoder := &Decoder{store: store, bus: bus}
	decoder.registerBuiltins()

	return decoder
}

// Decoder turns raw inbound chunks into validated envelopes and routes them
// through the event bus. Its built-in handlers are the only code path that
// mutates the state store from network input.
type Decoder struct {
	store *state.Store
	bus   *events.Bus
}

func (d *Decoder) registerBuiltins() {
	d.bus.Subscribe(TypeGameState, d.onGameState)
	d.bus.Subscribe(TypePerformance, d.onPerformance)
	d.bus.Subscribe(TypePlayerSpawned, d.onPlayerSpawned)
	d.bus.Subscribe(TypePlayerDespawned, d.onPlayerDespawned)
	d.bus.Subscribe(TypePlayerStateChanged, d.onPlayerStateChanged)
	d.bus.Subscribe(TypePlayerPropertyChanged, d.onPlayerPropertyChanged)
	d.bus.Subscribe(TypeGoalScored, d.onGoalScored)
}

// Send takes one raw inbound chunk, which may hold zero or more
// newline-separated messages, and processes each line independently. A line
// that fails to parse is logged and skipped without affecting its siblings.
// Send implements the server package's Receiver.
func (d *Decoder) Send(chunk string) {
	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		envelope, errParse := parseEnvelope(line)
		if errParse != nil {
			slog.Warn("Dropping undecodable message",
				slog.String("error", errParse.Error()), slog.String("raw", line))

			continue
		}

		d.route(envelope)
	}
}

// route picks the event bus type for a validated envelope. Server messages
// get the special envelope-type handling, anything else dispatches under its
// literal type.
func (d *Decoder) route(envelope Envelope) {
	if envelope.Role != "server" {
		d.bus.Dispatch(envelope.Type, envelope.Payload)

		return
	}

	switch {
	case envelope.Type == "event":
		if category, ok := envelope.Payload["category"].(string); ok {
			d.bus.Dispatch(category, envelope.Payload)

			return
		}

		d.bus.Dispatch(envelope.Type, envelope.Payload)
	case envelope.Type == TypeGameState:
		d.bus.Dispatch(TypeGameState, envelope.Payload)
	case envelope.Type == "status" && envelope.Payload["type"] == TypePerformance:
		d.bus.Dispatch(TypePerformance, envelope.Payload)
	default:
		d.bus.Dispatch(envelope.Type, envelope.Payload)
	}
}

func (d *Decoder) onGameState(payload map[string]any) {
	d.store.ApplyGameState(payload)
}

func (d *Decoder) onPerformance(payload map[string]any) {
	if fps, ok := payload["fps"].(map[string]any); ok {
		d.store.ApplyPerformance(fps)
	}
}

// playerClientID digs the client id out of the nested player object carried
// by spawn/despawn events. Events without one are ignored.
func playerClientID(payload map[string]any) (int, map[string]any, bool) {
	player, ok := payload["player"].(map[string]any)
	if !ok {
		return 0, nil, false
	}

	clientID, okID := asInt(player["clientId"])
	if !okID {
		return 0, nil, false
	}

	return clientID, player, true
}

func (d *Decoder) onPlayerSpawned(payload map[string]any) {
	clientID, player, ok := playerClientID(payload)
	if !ok {
		return
	}

	slog.Info("Player spawned",
		slog.Any("username", player["username"]), slog.Int("client_id", clientID))
	d.store.UpsertPlayer(clientID, player)
}

func (d *Decoder) onPlayerDespawned(payload map[string]any) {
	clientID, player, ok := playerClientID(payload)
	if !ok {
		return
	}

	slog.Info("Player despawned",
		slog.Any("username", player["username"]), slog.Int("client_id", clientID))
	d.store.RemovePlayer(clientID)
}

func (d *Decoder) onPlayerStateChanged(payload map[string]any) {
	clientID, ok := asInt(payload["clientId"])
	if !ok {
		return
	}

	fields := map[string]any{"state": payload["newState"]}
	if player, okPlayer := payload["player"].(map[string]any); okPlayer {
		for key, value := range player {
			fields[key] = value
		}
	}

	d.store.UpsertPlayer(clientID, fields)
}

func (d *Decoder) onPlayerPropertyChanged(payload map[string]any) {
	clientID, ok := asInt(payload["clientId"])
	if !ok {
		return
	}

	fields := map[string]any{}
	if property, okProp := payload["property"].(string); okProp {
		fields[property] = payload["newValue"]
	}
	if player, okPlayer := payload["player"].(map[string]any); okPlayer {
		for key, value := range player {
			fields[key] = value
		}
	}

	d.store.UpsertPlayer(clientID, fields)
}

func (d *Decoder) onGoalScored(payload map[string]any) {
	if scores, ok := payload["scores"].(map[string]any); ok {
		d.store.ApplyGameState(map[string]any{"scores": scores})
	}

	d.store.RecordLastGoal(payload)
}

// asInt mirrors the state package's tolerance for json.Number-free decoding,
// where every number arrives as float64.
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
