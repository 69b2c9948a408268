// Package handlers provides the Lambda request handlers for the claims engine.
package handlers

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"healthcare-claims-engine/internal/auth"
	appConfig "healthcare-claims-engine/internal/config"
	"healthcare-claims-engine/internal/models"
	"healthcare-claims-engine/internal/services/analytics"
	"healthcare-claims-engine/internal/services/database"
	"healthcare-claims-engine/internal/utils"
)

type claimsLister interface {
	GetAll(ctx context.Context) ([]*models.Claim, error)
}

type invoicesLister interface {
	GetAll(ctx context.Context) ([]*models.Invoice, error)
}

// AnalyticsHandler serves the aggregated claims/billing report.
type AnalyticsHandler struct {
	gate     authorizer
	claims   claimsLister
	invoices invoicesLister
}

// NewAnalyticsHandler creates a handler wired to the configured database.
func NewAnalyticsHandler() (*AnalyticsHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	return &AnalyticsHandler{
		gate:     auth.NewGate(cfg.JWTSecret, database.NewUserRepository(db)),
		claims:   database.NewClaimRepository(db),
		invoices: database.NewInvoiceRepository(db),
	}, nil
}

// Handle processes analytics requests.
func (h *AnalyticsHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()

	if request.HTTPMethod == "OPTIONS" {
		return preflightResponse(), nil
	}

	if _, err := h.gate.Authorize(ctx, bearerHeader(request), auth.OpViewAnalytics); err != nil {
		return respondError(err)
	}

	claims, err := h.claims.GetAll(ctx)
	if err != nil {
		logger.Error("Failed to load claims", zap.Error(err))
		return errorResponse(http.StatusInternalServerError, "Failed to load claims")
	}

	invoices, err := h.invoices.GetAll(ctx)
	if err != nil {
		logger.Error("Failed to load invoices", zap.Error(err))
		return errorResponse(http.StatusInternalServerError, "Failed to load invoices")
	}

	report := analytics.Compute(claims, invoices)

	logger.Info("Analytics computed",
		zap.Int("claims", len(claims)),
		zap.Int("invoices", len(invoices)))

	return jsonResponse(http.StatusOK, report)
}
