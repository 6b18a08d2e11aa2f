package service

import "errors"

// Service errors.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidRanking  = errors.New("ranking needs a player name, prompt and response")
	ErrEmptyUserID     = errors.New("user id cannot be empty")
)
