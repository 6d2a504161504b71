package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/operator/actions"
	"github.com/carson-networks/expense-server/internal/storage"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

const (
	MinNameLength     = 2
	MinPasswordLength = 6
)

var dataImageURL = regexp.MustCompile(`^data:image/(png|jpg|jpeg);base64,[A-Za-z0-9+/=]+$`)

type tokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// UserService handles registration, login and profiles.
type UserService struct {
	storage  *storage.Storage
	operator actionProcessor
	tokens   tokenIssuer
}

func NewUserService(store *storage.Storage, op actionProcessor, tokens tokenIssuer) *UserService {
	return &UserService{storage: store, operator: op, tokens: tokens}
}

// Register creates a user and signs them in. A taken email returns ErrEmailTaken.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if utf8.RuneCountInString(name) < MinNameLength {
		return nil, fmt.Errorf("%w: name must be at least %d characters", ErrInvalidInput, MinNameLength)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, auth.MaxPasswordBytes)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	action := &actions.CreateUser{Name: name, Email: email, PasswordHash: hash}
	if err := s.operator.Process(ctx, action); err != nil {
		if errors.Is(err, sqlconfig.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.session(action.Created)
}

// Login checks the credentials. Unknown emails and wrong passwords both return
// ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	row, err := s.storage.Users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, sqlconfig.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := auth.CheckPassword(row.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.session(row)
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	row, err := s.storage.Users.FindByID(ctx, id)
	if err != nil {
		return nil, translateError(err)
	}
	user := userFromStorage(row)
	return &user, nil
}

// UpdateUser applies update to the user's profile and returns the result.
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*User, error) {
	current, err := s.storage.Users.FindByID(ctx, id)
	if err != nil {
		return nil, translateError(err)
	}

	name := current.Name
	if trimmed := strings.TrimSpace(update.Name); trimmed != "" {
		if utf8.RuneCountInString(trimmed) < MinNameLength {
			return nil, fmt.Errorf("%w: name must be at least %d characters", ErrInvalidInput, MinNameLength)
		}
		name = trimmed
	}
	avatarURL := current.AvatarURL
	if update.AvatarURL != nil {
		avatarURL = strings.TrimSpace(*update.AvatarURL)
		if err := validateAvatarURL(avatarURL); err != nil {
			return nil, err
		}
	}

	action := &actions.UpdateUser{ID: id, Name: name, AvatarURL: avatarURL}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, translateError(err)
	}
	user := userFromStorage(action.Updated)
	return &user, nil
}

// validateAvatarURL accepts an empty value, an absolute http(s) URL or an inline png/jpeg data
// URL.
func validateAvatarURL(raw string) error {
	if raw == "" || dataImageURL.MatchString(raw) {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: avatarUrl must be an http(s) or image data URL", ErrInvalidInput)
	}
	return nil
}

func (s *UserService) session(row *sqlconfig.User) (*Session, error) {
	token, err := s.tokens.Issue(row.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: userFromStorage(row)}, nil
}
