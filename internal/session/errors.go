package session

import "errors"

var (
	ErrAlreadyActive      = errors.New("session already active")
	ErrNotActive          = errors.New("session not active")
	ErrUnknownParticipant = errors.New("account is not a participant")
	ErrAlreadyChosen      = errors.New("move already recorded")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidMove        = errors.New("invalid move")
)
