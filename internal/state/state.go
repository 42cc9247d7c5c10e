package state

import (
	"sync"
	"time"
)

// connectedWindow is how recently the game state or performance snapshot must
// have been touched for Connected to report true.
const connectedWindow = time.Second * 30

// GameState is the singleton snapshot of the game clock, phase and score.
type GameState struct {
	Phase       string
	Time        float64
	Period      int
	BlueScore   int
	RedScore    int
	LastUpdated time.Time
}

// Performance is the singleton snapshot of the game's reported frame rates.
type Performance struct {
	CurrentFPS  float64
	MinFPS      float64
	AverageFPS  float64
	MaxFPS      float64
	LastUpdated time.Time
}

func NewStore() *Store {
	return &Store{
		game:    GameState{Phase: "unknown"},
		players: make(map[int]Player),
	}
}

// Store owns the authoritative in-memory snapshot: one GameState, one
// Performance and the tracked player roster. All mutation happens through
// the decoder's built-in handlers on whatever read-loop goroutine received
// the bytes; reads may come from any goroutine. A single RWMutex guards the
// whole snapshot, which is plenty at game-tick update rates.
type Store struct {
	mu       sync.RWMutex
	game     GameState
	perf     Performance
	players  map[int]Player
	order    []int // client ids in first-seen order
	lastGoal map[string]any
}

// ApplyGameState merges any of phase/time/period/scores present in data into
// the game state. Unknown keys are ignored, absent keys leave the previous
// value untouched. The last-updated timestamp always refreshes.
func (s *Store) ApplyGameState(data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, ok := asString(data["phase"]); ok {
		s.game.Phase = value
	}
	if value, ok := asFloat(data["time"]); ok {
		s.game.Time = value
	}
	if value, ok := asInt(data["period"]); ok {
		s.game.Period = value
	}
	if scores, ok := data["scores"].(map[string]any); ok {
		if value, okBlue := asInt(scores["blue"]); okBlue {
			s.game.BlueScore = value
		}
		if value, okRed := asInt(scores["red"]); okRed {
			s.game.RedScore = value
		}
	}

	s.game.LastUpdated = time.Now()
}

// UpsertPlayer creates the player with defaults when the client id is
// unseen, then merges any fields present in data. Create-on-demand covers
// state/property change events that arrive before an explicit spawn.
func (s *Store) UpsertPlayer(clientID int, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, found := s.players[clientID]
	if !found {
		player = newPlayer(clientID)
		s.order = append(s.order, clientID)
	}

	player.merge(data)
	player.LastUpdated = time.Now()
	s.players[clientID] = player
}

// RemovePlayer drops the player from tracking. No-op for unknown ids.
func (s *Store) RemovePlayer(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.players[clientID]; !found {
		return
	}

	delete(s.players, clientID)
	for idx, id := range s.order {
		if id == clientID {
			s.order = append(s.order[:idx], s.order[idx+1:]...)

			break
		}
	}
}

// ApplyPerformance merges any of current/min/average/max frame rates present
// in data and refreshes the timestamp.
func (s *Store) ApplyPerformance(data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, ok := asFloat(data["current"]); ok {
		s.perf.CurrentFPS = value
	}
	if value, ok := asFloat(data["min"]); ok {
		s.perf.MinFPS = value
	}
	if value, ok := asFloat(data["average"]); ok {
		s.perf.AverageFPS = value
	}
	if value, ok := asFloat(data["max"]); ok {
		s.perf.MaxFPS = value
	}

	s.perf.LastUpdated = time.Now()
}

// RecordLastGoal stores the most recent goal payload verbatim. No validation
// is applied, the payload is kept purely for later inspection.
func (s *Store) RecordLastGoal(data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastGoal = data
}

// LastGoal returns the most recent goal payload, or nil when no goal has
// been seen.
func (s *Store) LastGoal() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastGoal
}

// GameState returns a copy of the current game state snapshot.
func (s *Store) GameState() GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.game
}

// Performance returns a copy of the current performance snapshot.
func (s *Store) Performance() Performance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.perf
}

// Players returns all tracked players in first-seen order.
func (s *Store) Players() Players {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.playersLocked()
}

func (s *Store) playersLocked() Players {
	players := make(Players, 0, len(s.order))
	for _, clientID := range s.order {
		players = append(players, s.players[clientID])
	}

	return players
}

// Connected reports whether the game appears to be feeding us data: the game
// state or performance snapshot was touched within the last 30 seconds, or
// at least one player is tracked. This is a freshness heuristic, not a true
// liveness signal; use the connection manager for the exact socket state.
func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if time.Since(s.game.LastUpdated) < connectedWindow {
		return true
	}
	if time.Since(s.perf.LastUpdated) < connectedWindow {
		return true
	}

	return len(s.players) > 0
}
