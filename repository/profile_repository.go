package repository

import (
	"context"
	"fmt"

	"cantina/models"
	"cantina/service"
	"cantina/storage"
)

// usersDoc is the shape of the users document: profiles keyed by Discord
// user ID.
type usersDoc map[string]*models.Profile

// ProfileRepository implements the ProfileRepository interface over the
// document store.
type ProfileRepository struct {
	store *storage.Store
	doc   string
}

// NewProfileRepository creates a new profile repository persisting to the
// named document.
func NewProfileRepository(store *storage.Store, doc string) *ProfileRepository {
	return &ProfileRepository{store: store, doc: doc}
}

// Get retrieves a profile by Discord user ID, or (nil, nil) when absent.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	users := usersDoc{}
	if err := r.store.Load(r.doc, &users); err != nil {
		return nil, fmt.Errorf("failed to load users document: %w", err)
	}
	return users[userID], nil
}

// Register creates a profile with defaults. The existence check and the
// insert run inside one store Update so two concurrent registrations cannot
// both succeed.
func (r *ProfileRepository) Register(ctx context.Context, userID string) (*models.Profile, error) {
	var created *models.Profile
	users := usersDoc{}
	err := r.store.Update(r.doc, &users, func() error {
		if _, ok := users[userID]; ok {
			return service.ErrAlreadyRegistered
		}
		created = models.NewProfile()
		users[userID] = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies mutate to the stored profile under the store lock and
// persists the whole document.
func (r *ProfileRepository) Update(ctx context.Context, userID string, mutate func(*models.Profile) error) (*models.Profile, error) {
	var updated *models.Profile
	users := usersDoc{}
	err := r.store.Update(r.doc, &users, func() error {
		profile, ok := users[userID]
		if !ok {
			return service.ErrNotRegistered
		}
		if err := mutate(profile); err != nil {
			return err
		}
		updated = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// All returns every registered profile keyed by user ID.
func (r *ProfileRepository) All(ctx context.Context) (map[string]*models.Profile, error) {
	users := usersDoc{}
	if err := r.store.Load(r.doc, &users); err != nil {
		return nil, fmt.Errorf("failed to load users document: %w", err)
	}
	return users, nil
}
