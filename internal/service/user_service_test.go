package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/storage"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

type fakeTokens struct{}

func (fakeTokens) Issue(userID uuid.UUID) (string, error) {
	return "token-" + userID.String(), nil
}

func newUserTestService(t *testing.T) (*UserService, *sqlconfig.MockIUserTable) {
	t.Helper()
	mockTable := sqlconfig.NewMockIUserTable(t)
	store := &storage.Storage{Reader: storage.Reader{Users: mockTable}}
	return NewUserService(store, directProcessor{store: store}, fakeTokens{}), mockTable
}

func userRow(t *testing.T, password string) *sqlconfig.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &sqlconfig.User{
		ID:           uuid.Must(uuid.NewV4()),
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: hash,
		CreatedAt:    time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
	}
}

// -- Register tests --

func TestRegister_Success(t *testing.T) {
	svc, mockTable := newUserTestService(t)
	row := userRow(t, "secret1")

	mockTable.EXPECT().Insert(mock.Anything, mock.MatchedBy(func(c *sqlconfig.UserCreate) bool {
		ok, err := auth.CheckPassword(c.PasswordHash, "secret1")
		return c.Name == "Ada" && c.Email == "ada@example.com" && err == nil && ok
	})).Return(row, nil)

	session, err := svc.Register(context.Background(), " Ada ", "ada@example.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, "token-"+row.ID.String(), session.Token)
	assert.Equal(t, row.ID, session.User.ID)
	assert.Equal(t, "ada@example.com", session.User.Email)
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, mockTable := newUserTestService(t)

	mockTable.EXPECT().Insert(mock.Anything, mock.Anything).Return(nil, sqlconfig.ErrDuplicate)

	session, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1")

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Nil(t, session)
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _ := newUserTestService(t)

	tests := []struct {
		name, user, email, password string
	}{
		{"short name", "A", "a@example.com", "secret1"},
		{"blank email", "Ada", "  ", "secret1"},
		{"short password", "Ada", "a@example.com", "12345"},
		{"password over 72 bytes", "Ada", "a@example.com", strings.Repeat("é", 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.user, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

// -- Login tests --

func TestLogin(t *testing.T) {
	svc, mockTable := newUserTestService(t)
	row := userRow(t, "secret1")

	mockTable.EXPECT().FindByEmail(mock.Anything, "ada@example.com").Return(row, nil)
	mockTable.EXPECT().FindByEmail(mock.Anything, "nobody@example.com").Return(nil, sqlconfig.ErrNotFound)
	mockTable.EXPECT().FindByEmail(mock.Anything, "broken@example.com").Return(nil, errors.New("connection reset"))

	session, err := svc.Login(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, row.ID, session.User.ID)

	_, err = svc.Login(context.Background(), "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "broken@example.com", "secret1")
	assert.EqualError(t, err, "connection reset")
}

// -- Profile tests --

func TestGetUser_NotFound(t *testing.T) {
	svc, mockTable := newUserTestService(t)
	id := uuid.Must(uuid.NewV4())

	mockTable.EXPECT().FindByID(mock.Anything, id).Return(nil, sqlconfig.ErrNotFound)

	_, err := svc.GetUser(context.Background(), id)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser_MergesFields(t *testing.T) {
	svc, mockTable := newUserTestService(t)
	row := userRow(t, "secret1")
	row.AvatarURL = "https://example.com/old.png"
	avatar := "data:image/png;base64,iVBORw0KGgo="

	mockTable.EXPECT().FindByID(mock.Anything, row.ID).Return(row, nil)
	mockTable.EXPECT().Update(mock.Anything, row.ID, &sqlconfig.UserUpdate{Name: "Ada", AvatarURL: avatar}).
		Return(&sqlconfig.User{ID: row.ID, Name: "Ada", Email: row.Email, AvatarURL: avatar}, nil)

	user, err := svc.UpdateUser(context.Background(), row.ID, ProfileUpdate{AvatarURL: &avatar})

	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, avatar, user.AvatarURL)
}

func TestUpdateUser_Rejects(t *testing.T) {
	svc, mockTable := newUserTestService(t)
	row := userRow(t, "secret1")
	mockTable.EXPECT().FindByID(mock.Anything, row.ID).Return(row, nil)

	badAvatar := "javascript:alert(1)"
	_, err := svc.UpdateUser(context.Background(), row.ID, ProfileUpdate{AvatarURL: &badAvatar})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateUser(context.Background(), row.ID, ProfileUpdate{Name: "A"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateAvatarURL(t *testing.T) {
	assert.NoError(t, validateAvatarURL(""))
	assert.NoError(t, validateAvatarURL("https://cdn.example.com/a.jpg"))
	assert.NoError(t, validateAvatarURL("data:image/jpeg;base64,/9j/4AAQ"))
	assert.Error(t, validateAvatarURL("ftp://example.com/a.png"))
	assert.Error(t, validateAvatarURL("data:text/html;base64,PHA+"))
	assert.Error(t, validateAvatarURL("not a url"))
}
