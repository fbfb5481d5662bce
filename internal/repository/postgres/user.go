package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/enrollment-server/internal/model"
)

const uniqueViolation = "23505"

const userColumns = `id, email, username, password_hash, is_email_verified,
	email_verification_token, email_verification_expiry, refresh_token_hash,
	created_at, updated_at`

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db querier
}

func NewUserRepository(db querier) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR username = $2 LIMIT 1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to find user by email or username: %w", err)
	}

	return user, nil
}

// Create inserts user. The unique indexes on email and username are the
// authority on duplicates; a violation is reported as model.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, username, password_hash, is_email_verified, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.IsEmailVerified,
		user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByEmailVerificationToken(ctx context.Context, digest []byte) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email_verification_token = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, digest))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by verification token: %w", err)
	}

	return user, nil
}

// SetEmailVerificationToken touches only the verification columns.
func (r *UserRepository) SetEmailVerificationToken(ctx context.Context, id uuid.UUID, digest []byte, expiresAt time.Time) error {
	query := `UPDATE users
			  SET email_verification_token = $2, email_verification_expiry = $3, updated_at = NOW()
			  WHERE id = $1`

	return r.exec(ctx, "set email verification token", model.ErrNotFound, query, id, digest, expiresAt)
}

// MarkEmailVerified clears the token only if it still matches digest, so
// concurrent redemptions of one token update at most one row.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID, digest []byte) error {
	query := `UPDATE users
			  SET is_email_verified = TRUE, email_verification_token = NULL, email_verification_expiry = NULL, updated_at = NOW()
			  WHERE id = $1 AND email_verification_token = $2`

	return r.exec(ctx, "mark email verified", model.ErrInvalidToken, query, id, digest)
}

func (r *UserRepository) SetRefreshTokenHash(ctx context.Context, id uuid.UUID, digest []byte) error {
	query := `UPDATE users SET refresh_token_hash = $2, updated_at = NOW() WHERE id = $1`

	return r.exec(ctx, "set refresh token hash", model.ErrNotFound, query, id, digest)
}

// exec runs an update and returns missing when it touched no rows.
func (r *UserRepository) exec(ctx context.Context, op string, missing error, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if affected == 0 {
		return missing
	}

	return nil
}

func scanUser(row *sql.Row) (model.User, error) {
	var (
		user   model.User
		expiry sql.NullTime
	)

	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.IsEmailVerified,
		&user.EmailVerificationToken, &expiry, &user.RefreshTokenHash,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}

	if expiry.Valid {
		user.EmailVerificationExpiry = &expiry.Time
	}

	return user, nil
}
