package sqlite

import (
	"context"
	"database/sql"

	"github.com/readlog/readlog-server/internal/domain"
)

// userColumns must match the scan order in scanUser.
const userColumns = `id, email, username, password_hash, created_at, updated_at, last_login_at`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u                    domain.User
		createdAt, updatedAt string
		lastLogin            sql.NullString
	)

	if err := scanner.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &createdAt, &updatedAt, &lastLogin); err != nil {
		return nil, err
	}

	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if u.LastLoginAt, err = parseNullableTime(lastLogin); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new account.
// Returns store.ErrAlreadyExists if the email or username is taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
		nullTimeString(user.LastLoginAt),
	)
	return mapWriteError(err)
}

// GetUser retrieves an account by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserWhere(ctx, "id = ?", id)
}

// GetUserByEmail retrieves an account by email, ignoring case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUserWhere(ctx, "email = ?", email)
}

// GetUserByUsername retrieves an account by username, ignoring case.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUserWhere(ctx, "username = ?", username)
}

func (s *Store) getUserWhere(ctx context.Context, predicate string, arg string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+predicate, arg)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapReadError(err)
	}
	return u, nil
}

// UpdateUser replaces the mutable fields of an account.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			email = ?, username = ?, password_hash = ?,
			updated_at = ?, last_login_at = ?
		WHERE id = ?`,
		user.Email,
		user.Username,
		user.PasswordHash,
		formatTime(user.UpdatedAt),
		nullTimeString(user.LastLoginAt),
		user.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return expectOneRow(result)
}
