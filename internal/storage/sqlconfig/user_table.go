package sqlconfig

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

const usersTable = "users"

var userColumns = []any{"id", "name", "email", "password_hash", "avatar_url", "created_at", "updated_at"}

// Ensure UsersTable implements IUserTable at compile time.
var _ IUserTable = (*UsersTable)(nil)

// UsersTable provides access to the users table.
type UsersTable struct {
	exec bob.Executor
}

// NewUsersTable creates a UsersTable for the given executor.
func NewUsersTable(exec bob.Executor) *UsersTable {
	return &UsersTable{exec: exec}
}

// FindByID retrieves a user by primary key.
func (t *UsersTable) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	q := psql.Select(
		sm.Columns(userColumns...),
		sm.From(usersTable),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return t.one(ctx, q)
}

// FindByEmail retrieves a user by email, ignoring case.
func (t *UsersTable) FindByEmail(ctx context.Context, email string) (*User, error) {
	q := psql.Select(
		sm.Columns(userColumns...),
		sm.From(usersTable),
		sm.Where(psql.Raw("lower(email) = lower(?)", email)),
	)
	return t.one(ctx, q)
}

// Insert creates a new user and returns the stored row.
func (t *UsersTable) Insert(ctx context.Context, create *UserCreate) (*User, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	q := psql.Insert(
		im.Into(usersTable, "id", "name", "email", "password_hash"),
		im.Values(psql.Arg(id, create.Name, create.Email, create.PasswordHash)),
		im.Returning(userColumns...),
	)
	return t.one(ctx, q)
}

// Update changes the profile fields of a user.
func (t *UsersTable) Update(ctx context.Context, id uuid.UUID, update *UserUpdate) (*User, error) {
	q := psql.Update(
		um.Table(usersTable),
		um.SetCol("name").ToArg(update.Name),
		um.SetCol("avatar_url").ToArg(update.AvatarURL),
		um.SetCol("updated_at").To(psql.Raw("now()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(userColumns...),
	)
	return t.one(ctx, q)
}

func (t *UsersTable) one(ctx context.Context, q bob.Query) (*User, error) {
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[User]())
	if err != nil {
		return nil, translateError(err)
	}
	return &row, nil
}
