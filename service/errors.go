package service

import "errors"

// Domain failures surfaced to the user. All are recovered at the component
// boundary and returned as typed errors, never as uncaught faults; only
// storage failures propagate as hard errors of the enclosing action.
var (
	// ErrNotRegistered means the action requires a profile that does not exist.
	ErrNotRegistered = errors.New("profile not registered")

	// ErrAlreadyRegistered guards double registration; no state change.
	ErrAlreadyRegistered = errors.New("profile already registered")

	// ErrInsufficientFunds means the computed cost exceeds the balance. Wrapped
	// errors carry the shortfall for rendering.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoJob means the user has no job assigned yet.
	ErrNoJob = errors.New("no job assigned")

	// ErrUnknownJob means the requested job matched nothing in the catalog.
	ErrUnknownJob = errors.New("unknown job")

	// ErrAlreadyEmployed means the user already holds the requested job.
	ErrAlreadyEmployed = errors.New("already employed in that job")

	// ErrHealthFull means a heal was requested at full health.
	ErrHealthFull = errors.New("health already full")

	// ErrInvalidBet means a non-positive or malformed bet amount.
	ErrInvalidBet = errors.New("invalid bet")

	// ErrInvalidChoice means an unrecognized roulette option.
	ErrInvalidChoice = errors.New("invalid choice")

	// ErrGameInProgress means the user already has an open casino table.
	ErrGameInProgress = errors.New("game already in progress")

	// ErrNoActiveGame means there is no open casino table for the user.
	ErrNoActiveGame = errors.New("no active game")
)
