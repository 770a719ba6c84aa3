package model

import "errors"

// Common errors used across the application
var (
	// Matchmaking errors
	ErrAlreadyQueued    = errors.New("player is already waiting in the queue")
	ErrAlreadyInSession = errors.New("player is already in a session")
	ErrQueueFull        = errors.New("matchmaking queue is full")
	ErrNotQueued        = errors.New("player is not in the queue")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionFinished = errors.New("session is already finished")
	ErrNotParticipant  = errors.New("player is not a session participant")

	// Delivery errors
	ErrNotConnected = errors.New("player has no registered connection")
)
