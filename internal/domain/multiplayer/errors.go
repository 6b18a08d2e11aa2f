package multiplayer

import "errors"

// Session errors.
var (
	ErrNotEnoughPlayers  = errors.New("at least two players are required")
	ErrEmptyName         = errors.New("player name cannot be empty")
	ErrEmptyWord         = errors.New("word cannot be empty")
	ErrInvalidPhase      = errors.New("invalid action for current phase")
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrScoringCancelled  = errors.New("round scoring was cancelled")
)
