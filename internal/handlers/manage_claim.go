// Package handlers provides the Lambda request handlers for the claims engine.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"healthcare-claims-engine/internal/auth"
	appConfig "healthcare-claims-engine/internal/config"
	"healthcare-claims-engine/internal/models"
	"healthcare-claims-engine/internal/services/database"
	sesService "healthcare-claims-engine/internal/services/ses"
	"healthcare-claims-engine/internal/utils"
)

type claimDispositionStore interface {
	SetStatus(ctx context.Context, id string, status models.ClaimStatus, processedAt time.Time) (*models.Claim, error)
}

type profileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type decisionNotifier interface {
	SendClaimDecision(ctx context.Context, n sesService.DecisionNotification) (*sesService.SendEmailResult, error)
}

// ManageClaimHandler handles claim approval and denial requests.
type ManageClaimHandler struct {
	gate     authorizer
	claims   claimDispositionStore
	profiles profileStore
	notifier decisionNotifier // nil when notification email is not configured
}

// NewManageClaimHandler creates a handler wired to the configured database.
func NewManageClaimHandler() (*ManageClaimHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	users := database.NewUserRepository(db)

	h := &ManageClaimHandler{
		gate:     auth.NewGate(cfg.JWTSecret, users),
		claims:   database.NewClaimRepository(db),
		profiles: users,
	}

	if cfg.SESSenderEmail != "" {
		notifier, err := sesService.NewService(context.Background())
		if err != nil {
			utils.GetLogger().Warn("Decision notifications disabled", zap.Error(err))
		} else {
			h.notifier = notifier
		}
	}

	return h, nil
}

// ManageClaimRequest is the request body for a claim disposition.
type ManageClaimRequest struct {
	ClaimID string `json:"claim_id"`
	Action  string `json:"action"`
}

// Handle processes claim disposition requests.
func (h *ManageClaimHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()

	if request.HTTPMethod == "OPTIONS" {
		return preflightResponse(), nil
	}

	if _, err := h.gate.Authorize(ctx, bearerHeader(request), auth.OpManageClaim); err != nil {
		return respondError(err)
	}

	var req ManageClaimRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid JSON in request body")
	}

	if req.ClaimID == "" || req.Action == "" {
		return errorResponse(http.StatusBadRequest, "claim_id and action (approve/reject) are required")
	}

	newStatus, ok := models.ClaimAction(req.Action).TargetStatus()
	if !ok {
		return errorResponse(http.StatusBadRequest, "action must be 'approve' or 'reject'")
	}

	claim, err := h.claims.SetStatus(ctx, req.ClaimID, newStatus, time.Now().UTC())
	if err != nil {
		return respondError(err)
	}
	if claim == nil {
		return errorResponse(http.StatusNotFound, "Claim not found")
	}

	logger.Info("Claim disposed",
		zap.String("claim_id", claim.ID),
		zap.String("status", string(claim.Status)))

	// Notification is best-effort: the disposition is already committed.
	if h.notifier != nil {
		h.notifyPatient(ctx, claim)
	}

	return jsonResponse(http.StatusOK, map[string]interface{}{"claim": claim})
}

// notifyPatient emails the patient about the decision when their profile has
// an email address.
func (h *ManageClaimHandler) notifyPatient(ctx context.Context, claim *models.Claim) {
	logger := utils.GetLogger()

	profile, err := h.profiles.GetProfile(ctx, claim.PatientID)
	if err != nil || profile == nil || profile.Email == "" {
		logger.Debug("No patient email for decision notification",
			zap.String("claim_id", claim.ID))
		return
	}

	if _, err := h.notifier.SendClaimDecision(ctx, sesService.DecisionNotification{
		PatientName: profile.Name,
		ToEmail:     profile.Email,
		ClaimID:     claim.ID,
		Status:      claim.Status,
		Amount:      claim.Amount,
		Provider:    claim.InsuranceProvider,
	}); err != nil {
		logger.Warn("Failed to send decision notification",
			zap.String("claim_id", claim.ID),
			zap.Error(err))
	}
}
