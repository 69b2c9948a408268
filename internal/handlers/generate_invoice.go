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
	"healthcare-claims-engine/internal/utils"
)

type claimReader interface {
	GetByID(ctx context.Context, id string) (*models.Claim, error)
}

type invoiceStore interface {
	GetByClaimID(ctx context.Context, claimID string) (*models.Invoice, error)
	CreateWithItems(ctx context.Context, invoice *models.InvoiceCreate, items []models.InvoiceItemCreate) (*models.Invoice, error)
}

// GenerateInvoiceHandler handles invoice generation requests.
type GenerateInvoiceHandler struct {
	gate     authorizer
	claims   claimReader
	invoices invoiceStore
}

// NewGenerateInvoiceHandler creates a handler wired to the configured database.
func NewGenerateInvoiceHandler() (*GenerateInvoiceHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	return &GenerateInvoiceHandler{
		gate:     auth.NewGate(cfg.JWTSecret, database.NewUserRepository(db)),
		claims:   database.NewClaimRepository(db),
		invoices: database.NewInvoiceRepository(db),
	}, nil
}

// GenerateInvoiceRequest is the request body for invoice generation.
type GenerateInvoiceRequest struct {
	ClaimID   string                     `json:"claim_id"`
	LineItems []models.InvoiceItemCreate `json:"line_items,omitempty"`
}

// Handle processes invoice generation requests.
func (h *GenerateInvoiceHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()

	if request.HTTPMethod == "OPTIONS" {
		return preflightResponse(), nil
	}

	if _, err := h.gate.Authorize(ctx, bearerHeader(request), auth.OpGenerateInvoice); err != nil {
		return respondError(err)
	}

	var req GenerateInvoiceRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid JSON in request body")
	}

	if req.ClaimID == "" {
		return errorResponse(http.StatusBadRequest, "claim_id is required")
	}

	claim, err := h.claims.GetByID(ctx, req.ClaimID)
	if err != nil {
		return respondError(err)
	}
	if claim == nil {
		return errorResponse(http.StatusNotFound, "Claim not found")
	}
	if claim.Status != models.ClaimStatusApproved {
		return errorResponse(http.StatusBadRequest, "Invoice can only be generated for APPROVED claims")
	}

	existing, err := h.invoices.GetByClaimID(ctx, req.ClaimID)
	if err != nil {
		return respondError(err)
	}
	if existing != nil {
		return errorResponse(http.StatusConflict, "Invoice already exists for this claim")
	}

	items := req.LineItems
	totalAmount := claim.Amount
	if len(items) > 0 {
		totalAmount = 0
		for _, item := range items {
			totalAmount += item.Amount
		}
	} else {
		items = []models.InvoiceItemCreate{{
			Description: "Doctor Consultation Fee",
			Amount:      claim.Amount,
			ItemType:    models.ItemTypeConsultation,
		}}
	}

	invoice, err := h.invoices.CreateWithItems(ctx, &models.InvoiceCreate{
		ClaimID:       claim.ID,
		PatientID:     claim.PatientID,
		TotalAmount:   totalAmount,
		PaymentStatus: models.PaymentStatusUnpaid,
		HospitalID:    claim.HospitalID,
	}, items)
	if err != nil {
		return respondError(err)
	}

	logger.Info("Invoice generated",
		zap.String("invoice_id", invoice.ID),
		zap.String("claim_id", claim.ID),
		zap.Float64("total_amount", totalAmount),
		zap.Int("line_items", len(items)))

	return jsonResponse(http.StatusCreated, map[string]interface{}{"invoice": invoice})
}
