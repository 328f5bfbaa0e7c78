package service

import (
	"context"

	"cantina/game"
	"cantina/models"
)

// ProfileRepository defines the interface for profile data access layered on
// the users document.
type ProfileRepository interface {
	// Get retrieves a profile by Discord user ID, or (nil, nil) when absent.
	Get(ctx context.Context, userID string) (*models.Profile, error)

	// Register creates a profile with defaults and persists it. Returns
	// ErrAlreadyRegistered when one exists.
	Register(ctx context.Context, userID string) (*models.Profile, error)

	// Update applies mutate to the stored profile and persists the document,
	// holding the store lock across the whole read-modify-write. Returns
	// ErrNotRegistered when the profile does not exist; an error from mutate
	// aborts without writing. The returned profile is the post-mutation state.
	Update(ctx context.Context, userID string, mutate func(*models.Profile) error) (*models.Profile, error)

	// All returns every registered profile keyed by user ID.
	All(ctx context.Context) (map[string]*models.Profile, error)
}

// JobCatalog defines read access to the operator-authored job list.
type JobCatalog interface {
	// List returns jobs in catalog order. Missing or malformed catalog data
	// yields an empty list, not an error.
	List(ctx context.Context) ([]*models.Job, error)

	// FindBySlugOrName matches the slug exactly or the name
	// case-insensitively, or returns (nil, nil).
	FindBySlugOrName(ctx context.Context, text string) (*models.Job, error)
}

// BalanceHistoryRepository defines the interface for the append-only balance
// audit log.
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns the most recent balance history for a specific user
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error)
}

// EconomyService defines the economy operations behind the /play, /profile,
// /jobs, /apply, /work, /heal and /history commands.
type EconomyService interface {
	// Register creates a profile for the user; ErrAlreadyRegistered on repeat.
	Register(ctx context.Context, userID string) (*models.Profile, error)

	// Profile returns the user's profile; ErrNotRegistered when absent.
	Profile(ctx context.Context, userID string) (*models.Profile, error)

	// Jobs lists the job catalog in order.
	Jobs(ctx context.Context) ([]*models.Job, error)

	// ApplyForJob resolves a job application by slug or name.
	ApplyForJob(ctx context.Context, userID, query string) (*models.ApplyOutcome, error)

	// Work resolves a work shift against the user's job.
	Work(ctx context.Context, userID string) (*models.WorkOutcome, error)

	// Heal restores up to amount health for money; amount <= 0 heals to full.
	Heal(ctx context.Context, userID string, amount int) (*models.HealOutcome, error)

	// History returns the user's most recent balance changes.
	History(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error)
}

// CasinoService defines the single-player gambling operations.
type CasinoService interface {
	// SpinRoulette resolves one roulette spin betting on red, black or zero.
	SpinRoulette(ctx context.Context, userID, choice string, bet int64) (*models.RouletteOutcome, error)

	// StartBlackjack deals a new table for the user, deducting the bet.
	StartBlackjack(ctx context.Context, userID string, bet int64) (*game.BlackjackView, error)

	// BlackjackAction applies a player action to the user's open table,
	// settling the bet when the hand finishes.
	BlackjackAction(ctx context.Context, userID string, action game.BlackjackAction) (*game.BlackjackView, error)
}
