// Package handlers provides the Lambda request handlers for the claims engine.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"healthcare-claims-engine/internal/auth"
	appConfig "healthcare-claims-engine/internal/config"
	"healthcare-claims-engine/internal/models"
	"healthcare-claims-engine/internal/services/database"
	"healthcare-claims-engine/internal/utils"
)

type accountManager interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update *models.ProfileUpdate) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	DeleteAccount(ctx context.Context, userID string) error
}

// AdminManageUserHandler updates and deletes staff accounts.
type AdminManageUserHandler struct {
	gate     authorizer
	accounts accountManager
}

// NewAdminManageUserHandler creates a handler wired to the configured database.
func NewAdminManageUserHandler() (*AdminManageUserHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	users := database.NewUserRepository(db)

	return &AdminManageUserHandler{
		gate:     auth.NewGate(cfg.JWTSecret, users),
		accounts: users,
	}, nil
}

// ManageUserRequest is the request body for account update/delete.
type ManageUserRequest struct {
	Action         string  `json:"action"`
	TargetUserID   string  `json:"target_user_id"`
	Name           *string `json:"name,omitempty"`
	Email          *string `json:"email,omitempty"`
	Password       *string `json:"password,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
}

// Handle processes account management requests.
func (h *AdminManageUserHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()

	if request.HTTPMethod == "OPTIONS" {
		return preflightResponse(), nil
	}

	identity, err := h.gate.Authorize(ctx, bearerHeader(request), auth.OpProvisionUsers)
	if err != nil {
		return respondError(err)
	}

	var req ManageUserRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid JSON in request body")
	}

	if req.Action == "" || req.TargetUserID == "" {
		return errorResponse(http.StatusBadRequest, "action and target_user_id are required")
	}

	targetProfile, err := h.accounts.GetProfile(ctx, req.TargetUserID)
	if err != nil {
		return respondError(err)
	}
	if targetProfile == nil {
		return errorResponse(http.StatusNotFound, "Target user not found")
	}

	// Hospital admins can only manage accounts in their own hospital.
	if identity.Role != models.RoleSuperAdmin {
		callerProfile, err := h.accounts.GetProfile(ctx, identity.UserID)
		if err != nil {
			return respondError(err)
		}
		if !sameHospital(callerProfile, targetProfile) {
			return errorResponse(http.StatusForbidden, "Cannot manage users from another hospital")
		}
	}

	if req.TargetUserID == identity.UserID {
		return errorResponse(http.StatusBadRequest, "Cannot modify your own account from here")
	}

	switch req.Action {
	case "update":
		if req.Password != nil && *req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				return errorResponse(http.StatusInternalServerError, "Failed to hash password")
			}
			if err := h.accounts.UpdatePassword(ctx, req.TargetUserID, string(hash)); err != nil {
				return respondError(err)
			}
		}

		update := &models.ProfileUpdate{
			Name:           req.Name,
			Email:          req.Email,
			Specialization: req.Specialization,
		}
		if !update.IsEmpty() {
			if err := h.accounts.UpdateProfile(ctx, req.TargetUserID, update); err != nil {
				return respondError(err)
			}
		}

		logger.Info("Account updated",
			zap.String("target_user_id", req.TargetUserID),
			zap.String("updated_by", identity.UserID))

		return jsonResponse(http.StatusOK, map[string]string{"message": "User updated successfully"})

	case "delete":
		if err := h.accounts.DeleteAccount(ctx, req.TargetUserID); err != nil {
			return respondError(err)
		}

		logger.Info("Account deleted",
			zap.String("target_user_id", req.TargetUserID),
			zap.String("deleted_by", identity.UserID))

		return jsonResponse(http.StatusOK, map[string]string{"message": "User deleted successfully"})

	default:
		return errorResponse(http.StatusBadRequest, "Invalid action. Use 'update' or 'delete'")
	}
}

// sameHospital reports whether both profiles carry the same non-empty
// hospital reference.
func sameHospital(caller, target *models.Profile) bool {
	if caller == nil || caller.HospitalID == nil || target.HospitalID == nil {
		return false
	}
	return *caller.HospitalID == *target.HospitalID
}
