// Package repository persists accounts, business profiles and settings in
// Postgres, with an optional Redis read-through cache for profiles.
package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"apex-business/internal/common/errors"
	"apex-business/internal/common/logger"
	"apex-business/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewUserRepository(db *sql.DB, log logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"repository": "users"}),
	}
}

// NormalizeEmail is applied to every email before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a user with an already hashed password.
func (r *UserRepository) Create(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	query := `INSERT INTO users (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, errors.NewEmailAlreadyRegisteredError(user.Email)
		}
		return nil, errors.NewDatabaseQueryFailedError("create user", err)
	}

	r.logger.Info("User created", map[string]interface{}{"userId": user.ID})
	return user, nil
}

// GetByEmail returns nil, nil when no account uses email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`
	return r.scanOne(ctx, "get user by email", query, NormalizeEmail(email))
}

// GetByID returns USER_NOT_FOUND when the id is unknown.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1`
	user, err := r.scanOne(ctx, "get user by id", query, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewUserNotFoundError(id)
	}
	return user, nil
}

func (r *UserRepository) scanOne(ctx context.Context, op, query string, arg interface{}) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError(op, err)
	}
	return &u, nil
}
