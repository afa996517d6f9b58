package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/hsm-gustavo/userauth-api/internal/common"
)

// MySQL error number for ER_DUP_ENTRY.
const errDuplicateEntry = 1062

// UserRepository stores users in MySQL.
type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// FindByEmail returns the full record, password hash included. It is the only
// lookup that reads the hash.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, name, email, COALESCE(password_hash, ''), created_at, updated_at
		FROM users
		WHERE email = ?`

	var u User
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, oops.Code("DB_QUERY_FAILED").With("op", "find user by email").Wrapf(err, "db error")
	}

	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE id = ?`

	var u User
	err := r.db.QueryRowContext(ctx, query, id.String()).
		Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, oops.Code("DB_QUERY_FAILED").
			With("op", "find user by id").
			With("user_id", id.String()).
			Wrapf(err, "db error")
	}

	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]User, error) {
	query := `SELECT id, name, email, created_at, updated_at
		FROM users
		ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, oops.Code("DB_QUERY_FAILED").With("op", "list users").Wrapf(err, "db error")
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, oops.Code("DB_SCAN_FAILED").With("op", "list users").Wrapf(err, "db error")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("DB_QUERY_FAILED").With("op", "list users").Wrapf(err, "db error")
	}

	return users, nil
}

// Create inserts u, filling in its timestamps. The password hash must
// already be computed.
func (r *UserRepository) Create(ctx context.Context, u *User) error {
	now := r.now().UTC().Truncate(time.Microsecond)

	query := `INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, u.ID.String(), u.Name, u.Email, nullableHash(u.PasswordHash), now, now)
	if err != nil {
		if isDuplicateEntry(err) {
			return common.ErrDuplicateEmail
		}
		return oops.Code("DB_EXEC_FAILED").With("op", "create user").Wrapf(err, "db error")
	}

	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

// Update applies the non-nil fields of changes and bumps updated_at.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, changes UserChanges) error {
	var (
		sets []string
		args []any
	)
	if changes.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *changes.Name)
	}
	if changes.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *changes.Email)
	}
	if changes.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *changes.PasswordHash)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, r.now().UTC().Truncate(time.Microsecond), id.String())

	query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicateEntry(err) {
			return common.ErrDuplicateEmail
		}
		return oops.Code("DB_EXEC_FAILED").
			With("op", "update user").
			With("user_id", id.String()).
			Wrapf(err, "db error")
	}

	return expectAffected(res, id, "update user")
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String())
	if err != nil {
		return oops.Code("DB_EXEC_FAILED").
			With("op", "delete user").
			With("user_id", id.String()).
			Wrapf(err, "db error")
	}

	return expectAffected(res, id, "delete user")
}

func expectAffected(res sql.Result, id uuid.UUID, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return oops.Code("DB_EXEC_FAILED").With("op", op).With("user_id", id.String()).Wrapf(err, "db error")
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func isDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errDuplicateEntry
}

func nullableHash(hash string) sql.NullString {
	return sql.NullString{String: hash, Valid: hash != ""}
}
