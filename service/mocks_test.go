package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cantina/models"
)

// MockProfileRepository is a mock implementation of ProfileRepository.
type MockProfileRepository struct {
	mock.Mock

	// profiles backs the mutate-style Update calls so tests observe real
	// state transitions instead of canned returns.
	profiles map[string]*models.Profile
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{profiles: make(map[string]*models.Profile)}
}

// Seed installs a profile directly, bypassing Register.
func (m *MockProfileRepository) Seed(userID string, profile *models.Profile) {
	m.profiles[userID] = profile
}

func (m *MockProfileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return m.profiles[userID], nil
}

func (m *MockProfileRepository) Register(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	if _, ok := m.profiles[userID]; ok {
		return nil, ErrAlreadyRegistered
	}
	p := models.NewProfile()
	m.profiles[userID] = p
	return p, nil
}

func (m *MockProfileRepository) Update(ctx context.Context, userID string, mutate func(*models.Profile) error) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotRegistered
	}
	if err := mutate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *MockProfileRepository) All(ctx context.Context) (map[string]*models.Profile, error) {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return m.profiles, nil
}

// MockJobCatalog is a mock implementation of JobCatalog.
type MockJobCatalog struct {
	mock.Mock
}

func (m *MockJobCatalog) List(ctx context.Context) ([]*models.Job, error) {
	args := m.Called(ctx)
	if jobs := args.Get(0); jobs != nil {
		return jobs.([]*models.Job), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJobCatalog) FindBySlugOrName(ctx context.Context, text string) (*models.Job, error) {
	args := m.Called(ctx, text)
	if job := args.Get(0); job != nil {
		return job.(*models.Job), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of
// BalanceHistoryRepository recording entries in memory.
type MockBalanceHistoryRepository struct {
	mock.Mock

	entries []*models.BalanceHistory
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	if err := args.Error(0); err != nil {
		return err
	}
	history.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, history)
	return nil
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, userID, limit)
	if entries := args.Get(0); entries != nil {
		return entries.([]*models.BalanceHistory), args.Error(1)
	}
	var out []*models.BalanceHistory
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].UserID == userID {
			out = append(out, m.entries[i])
		}
	}
	return out, args.Error(1)
}
