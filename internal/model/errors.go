package model

import "errors"

// Common errors used across the application
var (
	// Not-found errors
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrBackupNotFound     = errors.New("backup not found")
	ErrNoOpenMatch        = errors.New("no open match")

	// Invalid input errors
	ErrInvalidOutcome    = errors.New("invalid match outcome")
	ErrInvalidPlayerName = errors.New("invalid player name")
	ErrUnknownDrawPolicy = errors.New("unknown draw policy")
	ErrInvalidSettings   = errors.New("invalid settings")
	ErrInvalidFormat     = errors.New("invalid tournament format")
	ErrInvalidTitle      = errors.New("invalid tournament title")

	// Policy violations
	ErrDrawsNotAllowed = errors.New("draws are not allowed")

	// Conflicts
	ErrResetInProgress      = errors.New("reset already in progress")
	ErrCannotUndo           = errors.New("cannot undo reset")
	ErrPlayerExists         = errors.New("player already exists")
	ErrTournamentExists     = errors.New("tournament already exists")
	ErrTournamentInProgress = errors.New("tournament is in progress")
	ErrInsufficientPlayers  = errors.New("insufficient players to start tournament")
	ErrTournamentEnded      = errors.New("tournament has ended")
)
