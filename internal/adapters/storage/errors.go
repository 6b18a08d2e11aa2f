package storage

import "errors"

var (
	ErrEmptyNickname = errors.New("nickname cannot be empty")
	ErrCorruptState  = errors.New("state file is corrupt")
)
