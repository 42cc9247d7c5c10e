package state

import (
	"fmt"
	"sort"
	"strings"
)

// Summary is an aggregate view of the whole snapshot, suitable for status
// lines and monitoring output.
type Summary struct {
	Phase       string
	Time        float64
	Period      int
	BlueScore   int
	RedScore    int
	PlayerCount int
	BluePlayers int
	RedPlayers  int
	CurrentFPS  float64
	AverageFPS  float64
}

// TeamBalance counts players per side. Anyone not on blue or red counts as
// a spectator.
type TeamBalance struct {
	Blue       int
	Red        int
	Spectators int
}

// PlayersByTeam returns all players whose team matches, case-insensitively,
// in first-seen order.
func (s *Store) PlayersByTeam(team string) Players {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var players Players
	for _, player := range s.playersLocked() {
		if strings.EqualFold(player.Team, team) {
			players = append(players, player)
		}
	}

	return players
}

// ActivePlayers returns players on blue or red that are not spectating.
func (s *Store) ActivePlayers() Players {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var players Players
	for _, player := range s.playersLocked() {
		team := strings.ToLower(player.Team)
		if (team == "blue" || team == "red") && player.State != "spectating" {
			players = append(players, player)
		}
	}

	return players
}

// PlayerByID looks up a player by exact client id.
func (s *Store) PlayerByID(clientID int) (Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, found := s.players[clientID]

	return player, found
}

// PlayerByName finds a player by username, case-insensitively.
func (s *Store) PlayerByName(username string) (Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, player := range s.playersLocked() {
		if strings.EqualFold(player.Username, username) {
			return player, true
		}
	}

	return Player{}, false
}

// FindPlayersByPartialName returns players whose username contains the given
// fragment, case-insensitively.
func (s *Store) FindPlayersByPartialName(partial string) Players {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		players  Players
		fragment = strings.ToLower(partial)
	)
	for _, player := range s.playersLocked() {
		if strings.Contains(strings.ToLower(player.Username), fragment) {
			players = append(players, player)
		}
	}

	return players
}

// TopScorers returns up to limit players ordered by goals descending. Ties
// keep their first-seen order.
func (s *Store) TopScorers(limit int) Players {
	s.mu.RLock()
	players := s.playersLocked()
	s.mu.RUnlock()

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Goals > players[j].Goals
	})

	if limit >= 0 && len(players) > limit {
		players = players[:limit]
	}

	return players
}

// LeadingTeam returns "blue" or "red" for a strictly higher score, otherwise
// "tied".
func (s *Store) LeadingTeam() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.game.BlueScore > s.game.RedScore:
		return "blue"
	case s.game.RedScore > s.game.BlueScore:
		return "red"
	default:
		return "tied"
	}
}

// ScoreDifference returns the absolute score gap between the teams.
func (s *Store) ScoreDifference() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diff := s.game.BlueScore - s.game.RedScore
	if diff < 0 {
		diff = -diff
	}

	return diff
}

// Score returns the current blue and red scores.
func (s *Store) Score() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.game.BlueScore, s.game.RedScore
}

// Phase returns the current raw phase string.
func (s *Store) Phase() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.game.Phase
}

// GameTime returns the elapsed time in seconds within the current period.
func (s *Store) GameTime() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.game.Time
}

// Period returns the current period number.
func (s *Store) Period() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.game.Period
}

// PlayerCount returns the number of tracked players.
func (s *Store) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.players)
}

// TeamBalance returns the per-side player counts.
func (s *Store) TeamBalance() TeamBalance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var balance TeamBalance
	for _, player := range s.players {
		switch strings.ToLower(player.Team) {
		case "blue":
			balance.Blue++
		case "red":
			balance.Red++
		default:
			balance.Spectators++
		}
	}

	return balance
}

// Summary returns the aggregate snapshot view.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := Summary{
		Phase:       s.game.Phase,
		Time:        s.game.Time,
		Period:      s.game.Period,
		BlueScore:   s.game.BlueScore,
		RedScore:    s.game.RedScore,
		PlayerCount: len(s.players),
		CurrentFPS:  s.perf.CurrentFPS,
		AverageFPS:  s.perf.AverageFPS,
	}

	for _, player := range s.players {
		switch strings.ToLower(player.Team) {
		case "blue":
			summary.BluePlayers++
		case "red":
			summary.RedPlayers++
		}
	}

	return summary
}

// ScoreString renders the current score as "Blue 2 - Red 1".
func (s *Store) ScoreString() string {
	blue, red := s.Score()

	return fmt.Sprintf("Blue %d - Red %d", blue, red)
}

// FormatGameTime renders elapsed seconds as MM:SS.
func FormatGameTime(seconds float64) string {
	whole := int(seconds)

	return fmt.Sprintf("%02d:%02d", whole/60, whole%60)
}
