// Package database provides database operations for the claims engine.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"healthcare-claims-engine/internal/models"
)

// AILogRepository handles the append-only risk prediction audit trail.
type AILogRepository struct {
	db *DB
}

// NewAILogRepository creates a new AI log repository.
func NewAILogRepository(db *DB) *AILogRepository {
	return &AILogRepository{db: db}
}

// Create appends one audit row for a claim's risk prediction.
func (r *AILogRepository) Create(ctx context.Context, log *models.AILogCreate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ai_logs (id, claim_id, prediction_score, confidence, flagged, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(),
		log.ClaimID,
		log.PredictionScore,
		log.Confidence,
		log.Flagged,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create ai log: %w", err)
	}
	return nil
}

// GetByClaimID retrieves the audit rows for a claim, newest first.
func (r *AILogRepository) GetByClaimID(ctx context.Context, claimID string) ([]*models.AILog, error) {
	query := `
		SELECT id, claim_id, prediction_score, confidence, flagged, created_at
		FROM ai_logs
		WHERE claim_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ai logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.AILog
	for rows.Next() {
		var log models.AILog
		if err := rows.Scan(&log.ID, &log.ClaimID, &log.PredictionScore, &log.Confidence, &log.Flagged, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ai log: %w", err)
		}
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
