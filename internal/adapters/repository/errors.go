package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrInvalidLimit  = errors.New("invalid leaderboard limit")
	ErrInvalidRecord = errors.New("ranking record needs a player name, prompt and response")
	ErrNotCacheable  = errors.New("error results are not cacheable")
	ErrEmptyUserID   = errors.New("user id cannot be empty")
)

// ErrConflict is returned when a ranking write kept losing optimistic
// transactions to concurrent writers.
var ErrConflict = errors.New("ranking write conflict")
