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

const claimColumns = `id, patient_id, insurance_provider, amount, status, ai_risk_score, ai_explanation, submitted_by, appointment_id, hospital_id, submitted_at, processed_at`

// ClaimRepository handles claim database operations.
type ClaimRepository struct {
	db *DB
}

// NewClaimRepository creates a new claim repository.
func NewClaimRepository(db *DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// Create inserts a new claim with status PENDING and returns the stored row.
func (r *ClaimRepository) Create(ctx context.Context, claim *models.ClaimCreate) (*models.Claim, error) {
	query := `
		INSERT INTO claims (id, patient_id, insurance_provider, amount, status, ai_risk_score, ai_explanation, submitted_by, appointment_id, hospital_id, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + claimColumns

	row := r.db.QueryRowContext(ctx, query,
		uuid.New().String(),
		claim.PatientID,
		claim.InsuranceProvider,
		claim.Amount,
		string(models.ClaimStatusPending),
		claim.AIRiskScore,
		claim.AIExplanation,
		claim.SubmittedBy,
		claim.AppointmentID,
		claim.HospitalID,
		time.Now().UTC(),
	)

	created, err := scanClaim(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.Conflict("A claim already exists for this appointment")
		}
		return nil, fmt.Errorf("failed to create claim: %w", err)
	}
	return created, nil
}

// GetByID retrieves a claim by id. Returns (nil, nil) when absent.
func (r *ClaimRepository) GetByID(ctx context.Context, id string) (*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`

	claim, err := scanClaim(r.db.QueryRowContext(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	return claim, nil
}

// GetByAppointmentID retrieves the claim referencing an appointment, if any.
func (r *ClaimRepository) GetByAppointmentID(ctx context.Context, appointmentID string) (*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE appointment_id = $1`

	claim, err := scanClaim(r.db.QueryRowContext(ctx, query, appointmentID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claim by appointment: %w", err)
	}
	return claim, nil
}

// SetStatus updates a claim's status and processed timestamp and returns the
// updated row. Returns (nil, nil) when the claim does not exist.
func (r *ClaimRepository) SetStatus(ctx context.Context, id string, status models.ClaimStatus, processedAt time.Time) (*models.Claim, error) {
	query := `
		UPDATE claims
		SET status = $2, processed_at = $3
		WHERE id = $1
		RETURNING ` + claimColumns

	claim, err := scanClaim(r.db.QueryRowContext(ctx, query, id, string(status), processedAt))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update claim status: %w", err)
	}
	return claim, nil
}

// GetAll retrieves every claim, oldest first.
func (r *ClaimRepository) GetAll(ctx context.Context) ([]*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims ORDER BY submitted_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query claims: %w", err)
	}
	defer rows.Close()

	var claims []*models.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, claim)
	}

	return claims, rows.Err()
}

// scanClaim reads one claim row from a pgx.Row or pgx.Rows.
func scanClaim(row pgx.Row) (*models.Claim, error) {
	var claim models.Claim
	var status string

	err := row.Scan(
		&claim.ID,
		&claim.PatientID,
		&claim.InsuranceProvider,
		&claim.Amount,
		&status,
		&claim.AIRiskScore,
		&claim.AIExplanation,
		&claim.SubmittedBy,
		&claim.AppointmentID,
		&claim.HospitalID,
		&claim.SubmittedAt,
		&claim.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}

	claim.Status = models.ClaimStatus(status)
	return &claim, nil
}
