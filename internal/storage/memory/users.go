package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

var _ sqlconfig.IUserTable = (*UsersTable)(nil)

type UsersTable struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]sqlconfig.User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

func NewUsersTable(now func() time.Time) *UsersTable {
	return &UsersTable{
		byID:    make(map[uuid.UUID]sqlconfig.User),
		byEmail: make(map[string]uuid.UUID),
		now:     now,
	}
}

func (t *UsersTable) FindByID(_ context.Context, id uuid.UUID) (*sqlconfig.User, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	user, ok := t.byID[id]
	if !ok {
		return nil, sqlconfig.ErrNotFound
	}
	return &user, nil
}

func (t *UsersTable) FindByEmail(_ context.Context, email string) (*sqlconfig.User, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	id, ok := t.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, sqlconfig.ErrNotFound
	}
	user := t.byID[id]
	return &user, nil
}

func (t *UsersTable) Insert(_ context.Context, create *sqlconfig.UserCreate) (*sqlconfig.User, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := strings.ToLower(create.Email)
	if _, taken := t.byEmail[key]; taken {
		return nil, sqlconfig.ErrDuplicate
	}
	now := t.now()
	user := sqlconfig.User{
		ID:           id,
		Name:         create.Name,
		Email:        create.Email,
		PasswordHash: create.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	t.byID[id] = user
	t.byEmail[key] = id
	return &user, nil
}

func (t *UsersTable) Update(_ context.Context, id uuid.UUID, update *sqlconfig.UserUpdate) (*sqlconfig.User, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	user, ok := t.byID[id]
	if !ok {
		return nil, sqlconfig.ErrNotFound
	}
	user.Name = update.Name
	user.AvatarURL = update.AvatarURL
	user.UpdatedAt = t.now()
	t.byID[id] = user
	return &user, nil
}
