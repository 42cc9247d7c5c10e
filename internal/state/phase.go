package state

import (
	"strings"
)

// Phase strings are opaque values owned by the game. The bridge only
// recognizes a fixed vocabulary for the boolean predicates below; anything
// outside it simply fails every predicate.
const (
	PhaseNone       = "none"
	PhaseWarmup     = "warmup"
	PhasePlaying    = "playing"
	PhaseFaceoff    = "faceoff"
	PhaseBlueScore  = "bluescore"
	PhaseRedScore   = "redscore"
	PhaseReplay     = "replay"
	PhasePeriodOver = "periodover"
	PhaseGameOver   = "gameover"
)

func (s *Store) phaseLower() string {
	return strings.ToLower(s.Phase())
}

// IsGameInProgress reports whether play is actually happening, including the
// faceoff, goal celebration and replay moments between whistles.
func (s *Store) IsGameInProgress() bool {
	switch s.phaseLower() {
	case PhasePlaying, PhaseFaceoff, PhaseBlueScore, PhaseRedScore, PhaseReplay:
		return true
	default:
		return false
	}
}

// IsGamePaused reports whether the game sits in warmup or between periods.
func (s *Store) IsGamePaused() bool {
	switch s.phaseLower() {
	case PhaseWarmup, PhasePeriodOver:
		return true
	default:
		return false
	}
}

// IsGameActive reports whether any game exists at all, i.e. the phase is
// neither none nor gameover.
func (s *Store) IsGameActive() bool {
	switch s.phaseLower() {
	case PhaseNone, PhaseGameOver:
		return false
	default:
		return true
	}
}

// IsPeriodOver reports whether the current period has ended.
func (s *Store) IsPeriodOver() bool {
	return s.phaseLower() == PhasePeriodOver
}

// IsGameOver reports whether the game has completely finished.
func (s *Store) IsGameOver() bool {
	return s.phaseLower() == PhaseGameOver
}

// IsWarmup reports whether the game is in its warmup phase.
func (s *Store) IsWarmup() bool {
	return s.phaseLower() == PhaseWarmup
}

// IsScoringPhase reports whether a goal celebration is playing out.
func (s *Store) IsScoringPhase() bool {
	switch s.phaseLower() {
	case PhaseBlueScore, PhaseRedScore:
		return true
	default:
		return false
	}
}
