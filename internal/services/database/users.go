// Package database provides database operations for the claims engine.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"healthcare-claims-engine/internal/models"
)

// UserRepository handles accounts, roles, and profiles.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetRole resolves a user's role. Returns the empty role with nil error when
// the user has no role row.
func (r *UserRepository) GetRole(ctx context.Context, userID string) (models.Role, error) {
	var role string
	err := r.db.QueryRowContext(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID).Scan(&role)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get role: %w", err)
	}
	return models.Role(role), nil
}

// GetProfile retrieves a user's profile. Returns (nil, nil) when absent.
func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT user_id, name, email, hospital_id, specialization FROM profiles WHERE user_id = $1`

	var profile models.Profile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Name,
		&profile.Email,
		&profile.HospitalID,
		&profile.Specialization,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// CreateAccount provisions a user, their profile, and their role row in one
// transaction.
func (r *UserRepository) CreateAccount(ctx context.Context, account *models.AccountCreate) (*models.Account, error) {
	userID := uuid.New().String()
	now := time.Now().UTC()

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, password_hash, created_at)
			VALUES ($1, $2, $3, $4)`,
			userID, account.Email, account.PasswordHash, now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return models.Conflict("An account with this email already exists")
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO profiles (user_id, name, email, hospital_id, specialization)
			VALUES ($1, $2, $3, $4, $5)`,
			userID, account.Name, account.Email, account.HospitalID, account.Specialization,
		)
		if err != nil {
			return fmt.Errorf("failed to insert profile: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role)
			VALUES ($1, $2)`,
			userID, string(account.Role),
		)
		if err != nil {
			return fmt.Errorf("failed to insert role: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.Account{ID: userID, Email: account.Email, Role: account.Role}, nil
}

// UpdateProfile patches a user's profile fields; nil fields are untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, update *models.ProfileUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	query := `
		UPDATE profiles
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    specialization = COALESCE($4, specialization)
		WHERE user_id = $1`

	affected, err := r.db.ExecContext(ctx, query, userID, update.Name, update.Email, update.Specialization)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("profile %s not found", userID)
	}

	// Keep the account email in sync with the profile.
	if update.Email != nil {
		if _, err := r.db.ExecContext(ctx, `UPDATE users SET email = $2 WHERE id = $1`, userID, *update.Email); err != nil {
			return fmt.Errorf("failed to update account email: %w", err)
		}
	}

	return nil
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	affected, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s not found", userID)
	}
	return nil
}

// DeleteAccount removes a user; profile and role rows cascade via FK.
func (r *UserRepository) DeleteAccount(ctx context.Context, userID string) error {
	affected, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s not found", userID)
	}
	return nil
}
