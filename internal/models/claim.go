// Package models defines the data structures for the claims engine.
package models

import (
	"time"
)

// ClaimStatus represents the lifecycle state of an insurance claim.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "PENDING"
	ClaimStatusApproved ClaimStatus = "APPROVED"
	ClaimStatusDenied   ClaimStatus = "DENIED"
)

// ValidClaimStatuses returns all valid claim status values.
func ValidClaimStatuses() []ClaimStatus {
	return []ClaimStatus{
		ClaimStatusPending,
		ClaimStatusApproved,
		ClaimStatusDenied,
	}
}

// IsValid checks if the claim status is valid.
func (s ClaimStatus) IsValid() bool {
	for _, valid := range ValidClaimStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// ClaimAction is a disposition request against a pending claim.
type ClaimAction string

const (
	ClaimActionApprove ClaimAction = "approve"
	ClaimActionReject  ClaimAction = "reject"
)

// TargetStatus maps a disposition action to the claim status it produces.
func (a ClaimAction) TargetStatus() (ClaimStatus, bool) {
	switch a {
	case ClaimActionApprove:
		return ClaimStatusApproved, true
	case ClaimActionReject:
		return ClaimStatusDenied, true
	default:
		return "", false
	}
}

// AppointmentStatus represents the state of a patient appointment.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow    AppointmentStatus = "NO_SHOW"
)

// Appointment is a patient visit record; claims may reference a completed one.
type Appointment struct {
	ID          string            `json:"id" db:"id"`
	PatientID   string            `json:"patient_id" db:"patient_id"`
	DoctorID    *string           `json:"doctor_id,omitempty" db:"doctor_id"`
	Status      AppointmentStatus `json:"status" db:"status"`
	ScheduledAt time.Time         `json:"scheduled_at" db:"scheduled_at"`
}

// Claim represents an insurance reimbursement claim.
type Claim struct {
	ID                string      `json:"id" db:"id"`
	PatientID         string      `json:"patient_id" db:"patient_id"`
	InsuranceProvider string      `json:"insurance_provider" db:"insurance_provider"`
	Amount            float64     `json:"amount" db:"amount"`
	Status            ClaimStatus `json:"status" db:"status"`
	AIRiskScore       float64     `json:"ai_risk_score" db:"ai_risk_score"`
	AIExplanation     string      `json:"ai_explanation" db:"ai_explanation"`
	SubmittedBy       string      `json:"submitted_by" db:"submitted_by"`
	AppointmentID     *string     `json:"appointment_id,omitempty" db:"appointment_id"`
	HospitalID        *string     `json:"hospital_id,omitempty" db:"hospital_id"`
	SubmittedAt       time.Time   `json:"submitted_at" db:"submitted_at"`
	ProcessedAt       *time.Time  `json:"processed_at,omitempty" db:"processed_at"`
}

// ClaimCreate represents the data needed to submit a new claim.
// Status is always PENDING on insert.
type ClaimCreate struct {
	PatientID         string  `json:"patient_id"`
	InsuranceProvider string  `json:"insurance_provider"`
	Amount            float64 `json:"amount"`
	AppointmentID     *string `json:"appointment_id,omitempty"`
	HospitalID        *string `json:"hospital_id,omitempty"`
	SubmittedBy       string  `json:"submitted_by"`
	AIRiskScore       float64 `json:"ai_risk_score"`
	AIExplanation     string  `json:"ai_explanation"`
}

// AILog is an append-only audit record of a risk prediction, one per claim.
type AILog struct {
	ID              string    `json:"id" db:"id"`
	ClaimID         string    `json:"claim_id" db:"claim_id"`
	PredictionScore float64   `json:"prediction_score" db:"prediction_score"`
	Confidence      float64   `json:"confidence" db:"confidence"`
	Flagged         bool      `json:"flagged" db:"flagged"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// AILogCreate represents the data needed to record a risk prediction.
type AILogCreate struct {
	ClaimID         string  `json:"claim_id"`
	PredictionScore float64 `json:"prediction_score"`
	Confidence      float64 `json:"confidence"`
	Flagged         bool    `json:"flagged"`
}
