package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/placefinder/placefinder/internal/apperr"
	"github.com/placefinder/placefinder/internal/infra"
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user User) error
	EmailExists(ctx context.Context, email string) (bool, error)
	FindByUsername(ctx context.Context, username string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	UpdateUsername(ctx context.Context, id, username string) error
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePassword(ctx context.Context, id, salt, hash string) error
	UpdatePasswordByEmail(ctx context.Context, email, salt, hash string) error
	Delete(ctx context.Context, id string) error
}

// ErrUserNotFound is returned when no row matches.
var ErrUserNotFound = apperr.NotFound("Not Found: User not found.")

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db infra.DB
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db infra.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectUser = `SELECT id, username, email, password_salt, password_hash, created_at FROM users`

// Create inserts a new user. Unique violations surface as duplicate errors.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return apperr.Storage("parse user id", err)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (id, username, email, password_salt, password_hash, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, userID, user.Username, user.Email, user.PasswordSalt, user.PasswordHash, user.CreatedAt.UTC())
	if err != nil {
		return apperr.Storage("insert user", err)
	}
	return nil
}

// EmailExists reports whether a user already registered email.
func (r *PostgresRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, apperr.Storage("check email", err)
	}
	return exists, nil
}

// FindByUsername fetches a user by username.
func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (User, error) {
	return r.scan(r.db.QueryRow(ctx, selectUser+` WHERE username = $1`, username), "select user by username")
}

// FindByID fetches a user by id. Malformed ids cannot exist and report not found.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrUserNotFound
	}
	return r.scan(r.db.QueryRow(ctx, selectUser+` WHERE id = $1`, userID), "select user by id")
}

func (r *PostgresRepository) scan(row pgx.Row, op string) (User, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		user      User
	)
	if err := row.Scan(&id, &user.Username, &user.Email, &user.PasswordSalt, &user.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, apperr.Storage(op, err)
	}
	user.ID = id.String()
	user.CreatedAt = createdAt.UTC()
	return user, nil
}

// UpdateUsername renames the user.
func (r *PostgresRepository) UpdateUsername(ctx context.Context, id, username string) error {
	return r.updateByID(ctx, "update username", `UPDATE users SET username = $1 WHERE id = $2`, id, username)
}

// UpdateEmail changes the user's email.
func (r *PostgresRepository) UpdateEmail(ctx context.Context, id, email string) error {
	return r.updateByID(ctx, "update email", `UPDATE users SET email = $1 WHERE id = $2`, id, email)
}

// UpdatePassword overwrites salt and hash in one statement.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, salt, hash string) error {
	return r.updateByID(ctx, "update password", `UPDATE users SET password_salt = $1, password_hash = $2 WHERE id = $3`, id, salt, hash)
}

// UpdatePasswordByEmail overwrites salt and hash for the account owning email.
func (r *PostgresRepository) UpdatePasswordByEmail(ctx context.Context, email, salt, hash string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET password_salt = $1, password_hash = $2 WHERE email = $3`, salt, hash, email)
	if err != nil {
		return apperr.Storage("update password by email", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the user row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrUserNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return apperr.Storage("delete user", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// updateByID runs query with args followed by the parsed id.
func (r *PostgresRepository) updateByID(ctx context.Context, op, query, id string, args ...any) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrUserNotFound
	}
	cmd, err := r.db.Exec(ctx, query, append(args, userID)...)
	if err != nil {
		return apperr.Storage(op, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
