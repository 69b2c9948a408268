// Package handlers provides the Lambda request handlers for the claims engine.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthcare-claims-engine/internal/auth"
	appConfig "healthcare-claims-engine/internal/config"
	"healthcare-claims-engine/internal/services/database"
	s3service "healthcare-claims-engine/internal/services/s3"
	"healthcare-claims-engine/internal/utils"
)

// allowedDocumentExtensions are the claim attachment types accepted.
var allowedDocumentExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

const documentURLExpiryMinutes = 15

type documentPresigner interface {
	GeneratePresignedUploadURL(ctx context.Context, key, contentType string, expiryMinutes int) (*s3service.PresignedURLResult, error)
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiryMinutes int) (*s3service.PresignedURLResult, error)
}

// ClaimDocumentHandler issues presigned URLs for claim supporting documents.
type ClaimDocumentHandler struct {
	gate      authorizer
	claims    claimReader
	presigner documentPresigner
}

// NewClaimDocumentHandler creates a handler wired to the configured database
// and document bucket.
func NewClaimDocumentHandler() (*ClaimDocumentHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	presigner, err := s3service.NewService(context.Background())
	if err != nil {
		return nil, err
	}

	return &ClaimDocumentHandler{
		gate:      auth.NewGate(cfg.JWTSecret, database.NewUserRepository(db)),
		claims:    database.NewClaimRepository(db),
		presigner: presigner,
	}, nil
}

// DocumentRequest is the request body for a document URL.
type DocumentRequest struct {
	Action      string `json:"action"`
	ClaimID     string `json:"claim_id,omitempty"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Key         string `json:"key,omitempty"`
}

// DocumentResponse carries the presigned URL back to the caller.
type DocumentResponse struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

// Handle processes claim document requests.
func (h *ClaimDocumentHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()

	if request.HTTPMethod == "OPTIONS" {
		return preflightResponse(), nil
	}

	if _, err := h.gate.Authorize(ctx, bearerHeader(request), auth.OpClaimDocuments); err != nil {
		return respondError(err)
	}

	var req DocumentRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid JSON in request body")
	}

	switch req.Action {
	case "", "upload":
		return h.handleUpload(ctx, logger, req)
	case "download":
		return h.handleDownload(ctx, req)
	default:
		return errorResponse(http.StatusBadRequest, "Invalid action. Use 'upload' or 'download'")
	}
}

func (h *ClaimDocumentHandler) handleUpload(ctx context.Context, logger *zap.Logger, req DocumentRequest) (events.APIGatewayProxyResponse, error) {
	if req.ClaimID == "" || req.Filename == "" {
		return errorResponse(http.StatusBadRequest, "claim_id and filename are required")
	}

	ext := strings.ToLower(path.Ext(req.Filename))
	if !allowedDocumentExtensions[ext] {
		return errorResponse(http.StatusBadRequest, "Only PDF and image documents are allowed")
	}

	claim, err := h.claims.GetByID(ctx, req.ClaimID)
	if err != nil {
		return respondError(err)
	}
	if claim == nil {
		return errorResponse(http.StatusNotFound, "Claim not found")
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := "claims/" + claim.ID + "/" + uuid.New().String() + "_" + sanitizeFilename(req.Filename)

	result, err := h.presigner.GeneratePresignedUploadURL(ctx, key, contentType, documentURLExpiryMinutes)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, "Failed to generate upload URL")
	}

	logger.Info("Generated document upload URL",
		zap.String("claim_id", claim.ID),
		zap.String("key", key))

	return jsonResponse(http.StatusOK, DocumentResponse{
		URL:       result.URL,
		Key:       result.Key,
		ExpiresIn: documentURLExpiryMinutes * 60,
	})
}

func (h *ClaimDocumentHandler) handleDownload(ctx context.Context, req DocumentRequest) (events.APIGatewayProxyResponse, error) {
	if req.Key == "" || !strings.HasPrefix(req.Key, "claims/") {
		return errorResponse(http.StatusBadRequest, "A valid document key is required")
	}

	result, err := h.presigner.GeneratePresignedDownloadURL(ctx, req.Key, documentURLExpiryMinutes)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, "Failed to generate download URL")
	}

	return jsonResponse(http.StatusOK, DocumentResponse{
		URL:       result.URL,
		Key:       result.Key,
		ExpiresIn: documentURLExpiryMinutes * 60,
	})
}

// sanitizeFilename removes unsafe characters from filename.
func sanitizeFilename(filename string) string {
	var safe strings.Builder
	for _, r := range filename {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			safe.WriteRune(r)
		}
	}
	s := safe.String()
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
