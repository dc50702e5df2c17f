package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nz1manager/ielts-backend/internal/models"
)

// MemoryRepo is an in-memory UserRepository used for unit tests and local
// development without Postgres. Semantics mirror PostgresUserRepository.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	store  map[int64]*models.User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, store: make(map[int64]*models.User)}
}

func (m *MemoryRepo) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.GoogleID == googleID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryRepo) Create(ctx context.Context, u *models.User) (*models.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.GoogleID == u.GoogleID {
			cp := *existing
			return &cp, false, nil
		}
	}
	now := time.Now().UTC()
	cp := *u
	cp.ID = m.nextID
	m.nextID++
	cp.IsProfileComplete = false
	cp.CreatedAt = now
	cp.UpdatedAt = now
	m.store[cp.ID] = &cp
	out := cp
	return &out, true, nil
}

func (m *MemoryRepo) UpdateAvatar(ctx context.Context, id int64, avatarURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil
	}
	u.AvatarURL = avatarURL
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryRepo) CompleteProfile(ctx context.Context, id int64, p ProfileUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil, nil
	}
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	phone, group := p.Phone, p.GroupName
	u.Phone = &phone
	u.GroupName = &group
	u.IsProfileComplete = true
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (m *MemoryRepo) List(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, 0, len(m.store))
	for _, u := range m.store {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
