// Package handlers provides the Lambda request handlers for the claims engine.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"healthcare-claims-engine/internal/auth"
	appConfig "healthcare-claims-engine/internal/config"
	"healthcare-claims-engine/internal/models"
	"healthcare-claims-engine/internal/services/database"
	"healthcare-claims-engine/internal/services/risk"
	"healthcare-claims-engine/internal/utils"
)

type authorizer interface {
	Authorize(ctx context.Context, authHeader string, op auth.Operation) (*auth.Identity, error)
}

type claimStore interface {
	Create(ctx context.Context, claim *models.ClaimCreate) (*models.Claim, error)
	GetByAppointmentID(ctx context.Context, appointmentID string) (*models.Claim, error)
}

type appointmentStore interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
}

type aiLogStore interface {
	Create(ctx context.Context, log *models.AILogCreate) error
}

type riskScorer interface {
	Assess(amount float64, provider string) risk.Assessment
}

// CreateClaimHandler handles claim submission requests.
type CreateClaimHandler struct {
	gate         authorizer
	claims       claimStore
	appointments appointmentStore
	aiLogs       aiLogStore
	scorer       riskScorer
}

// NewCreateClaimHandler creates a handler wired to the configured database.
func NewCreateClaimHandler() (*CreateClaimHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	users := database.NewUserRepository(db)

	return &CreateClaimHandler{
		gate:         auth.NewGate(cfg.JWTSecret, users),
		claims:       database.NewClaimRepository(db),
		appointments: database.NewAppointmentRepository(db),
		aiLogs:       database.NewAILogRepository(db),
		scorer:       risk.NewScorer(),
	}, nil
}

// CreateClaimRequest is the request body for claim submission.
type CreateClaimRequest struct {
	PatientID         string  `json:"patient_id"`
	InsuranceProvider string  `json:"insurance_provider"`
	Amount            float64 `json:"amount"`
	AppointmentID     string  `json:"appointment_id,omitempty"`
}

// Handle processes claim submission requests.
func (h *CreateClaimHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()

	if request.HTTPMethod == "OPTIONS" {
		return preflightResponse(), nil
	}

	identity, err := h.gate.Authorize(ctx, bearerHeader(request), auth.OpCreateClaim)
	if err != nil {
		return respondError(err)
	}

	var req CreateClaimRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid JSON in request body")
	}

	if req.PatientID == "" || req.InsuranceProvider == "" || req.Amount == 0 {
		return errorResponse(http.StatusBadRequest, "patient_id, insurance_provider, and amount are required")
	}
	if req.Amount <= 0 {
		return errorResponse(http.StatusBadRequest, "Amount must be a positive number")
	}

	var appointmentID *string
	var hospitalID *string
	if req.AppointmentID != "" {
		appt, err := h.appointments.GetByID(ctx, req.AppointmentID)
		if err != nil {
			logger.Error("Failed to load appointment", zap.Error(err))
			return errorResponse(http.StatusInternalServerError, "Failed to load appointment")
		}
		if appt == nil {
			return errorResponse(http.StatusNotFound, "Appointment not found")
		}
		if appt.Status != models.AppointmentStatusCompleted {
			return errorResponse(http.StatusBadRequest, "Appointment must be COMPLETED before creating a claim")
		}
		if appt.PatientID != req.PatientID {
			return errorResponse(http.StatusBadRequest, "Appointment does not belong to the specified patient")
		}

		existing, err := h.claims.GetByAppointmentID(ctx, req.AppointmentID)
		if err != nil {
			logger.Error("Failed to check existing claim", zap.Error(err))
			return errorResponse(http.StatusInternalServerError, "Failed to check existing claim")
		}
		if existing != nil {
			return errorResponse(http.StatusConflict, "A claim already exists for this appointment")
		}

		appointmentID = &req.AppointmentID
	}

	assessment := h.scorer.Assess(req.Amount, req.InsuranceProvider)

	claim, err := h.claims.Create(ctx, &models.ClaimCreate{
		PatientID:         req.PatientID,
		InsuranceProvider: req.InsuranceProvider,
		Amount:            req.Amount,
		AppointmentID:     appointmentID,
		HospitalID:        hospitalID,
		SubmittedBy:       identity.UserID,
		AIRiskScore:       assessment.Score,
		AIExplanation:     assessment.Explanation,
	})
	if err != nil {
		return respondError(err)
	}

	// The prediction audit row is best-effort: a logging failure must not
	// fail an already persisted claim.
	if err := h.aiLogs.Create(ctx, &models.AILogCreate{
		ClaimID:         claim.ID,
		PredictionScore: assessment.Score,
		Confidence:      assessment.Confidence,
		Flagged:         assessment.Flagged,
	}); err != nil {
		logger.Warn("Failed to record ai log",
			zap.String("claim_id", claim.ID),
			zap.Error(err))
	}

	logger.Info("Claim created",
		zap.String("claim_id", claim.ID),
		zap.Float64("risk_score", assessment.Score),
		zap.Bool("flagged", assessment.Flagged))

	return jsonResponse(http.StatusCreated, map[string]interface{}{"claim": claim})
}
