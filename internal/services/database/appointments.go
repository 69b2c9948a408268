// Package database provides database operations for the claims engine.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"healthcare-claims-engine/internal/models"
)

// AppointmentRepository handles appointment database operations.
type AppointmentRepository struct {
	db *DB
}

// NewAppointmentRepository creates a new appointment repository.
func NewAppointmentRepository(db *DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// GetByID retrieves an appointment by id. Returns (nil, nil) when absent.
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	query := `SELECT id, patient_id, doctor_id, status, scheduled_at FROM appointments WHERE id = $1`

	var appt models.Appointment
	var status string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&appt.ID,
		&appt.PatientID,
		&appt.DoctorID,
		&status,
		&appt.ScheduledAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	appt.Status = models.AppointmentStatus(status)
	return &appt, nil
}
