package crew

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryStore is an in-memory Store for tests.
type memoryStore struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[int]*User)}
}

func (m *memoryStore) Create(_ context.Context, nu NewUser) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, nu.Email) {
			return nil, ErrUserExists
		}
	}
	m.nextID++
	now := time.Now()
	u := &User{
		ID:           m.nextID,
		FirstName:    nu.FirstName,
		Email:        strings.ToLower(nu.Email),
		PasswordHash: nu.PasswordHash,
		AvatarURL:    nu.AvatarURL,
		Role:         nu.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (m *memoryStore) FindByID(_ context.Context, id int) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memoryStore) UpdateRole(_ context.Context, id int, role Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (m *memoryStore) List(_ context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}
