// Package handlers provides the Lambda request handlers for the claims engine.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"healthcare-claims-engine/internal/auth"
	appConfig "healthcare-claims-engine/internal/config"
	"healthcare-claims-engine/internal/models"
	"healthcare-claims-engine/internal/services/database"
	"healthcare-claims-engine/internal/utils"
)

type accountStore interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	CreateAccount(ctx context.Context, account *models.AccountCreate) (*models.Account, error)
}

// AdminCreateUserHandler provisions staff accounts.
type AdminCreateUserHandler struct {
	gate     authorizer
	accounts accountStore
}

// NewAdminCreateUserHandler creates a handler wired to the configured database.
func NewAdminCreateUserHandler() (*AdminCreateUserHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	users := database.NewUserRepository(db)

	return &AdminCreateUserHandler{
		gate:     auth.NewGate(cfg.JWTSecret, users),
		accounts: users,
	}, nil
}

// CreateUserRequest is the request body for staff provisioning.
type CreateUserRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	HospitalID     string `json:"hospital_id,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// Handle processes staff provisioning requests.
func (h *AdminCreateUserHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()

	if request.HTTPMethod == "OPTIONS" {
		return preflightResponse(), nil
	}

	identity, err := h.gate.Authorize(ctx, bearerHeader(request), auth.OpProvisionUsers)
	if err != nil {
		return respondError(err)
	}

	var req CreateUserRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid JSON in request body")
	}

	if req.Email == "" || req.Password == "" || req.Name == "" || req.Role == "" {
		return errorResponse(http.StatusBadRequest, "Missing required fields")
	}

	role := models.Role(req.Role)

	// Staff emails must live on the domain assigned to their role.
	if expectedDomain, ok := models.RoleDomains[role]; ok {
		emailDomain := ""
		if at := strings.Index(req.Email, "@"); at >= 0 {
			emailDomain = req.Email[at+1:]
		}
		if emailDomain != expectedDomain {
			return errorResponse(http.StatusBadRequest,
				fmt.Sprintf("Email domain must be @%s for role %s", expectedDomain, role))
		}
	}

	// Which roles the caller may provision depends on the caller's role.
	var hospitalID *string
	switch identity.Role {
	case models.RoleSuperAdmin:
		if !models.RoleIn(role, models.SuperAdminCreatableRoles) {
			return errorResponse(http.StatusBadRequest, "Super Admin can only create Hospital Admins")
		}
		if req.HospitalID != "" {
			hospitalID = &req.HospitalID
		}
	default:
		if !models.RoleIn(role, models.HospitalAdminCreatableRoles) {
			names := make([]string, len(models.HospitalAdminCreatableRoles))
			for i, r := range models.HospitalAdminCreatableRoles {
				names[i] = string(r)
			}
			return errorResponse(http.StatusBadRequest,
				"Hospital Admin can only create: "+strings.Join(names, ", "))
		}

		// Hospital admins provision staff into their own hospital.
		callerProfile, err := h.accounts.GetProfile(ctx, identity.UserID)
		if err != nil {
			return respondError(err)
		}
		if callerProfile == nil || callerProfile.HospitalID == nil {
			return errorResponse(http.StatusBadRequest,
				"Your admin profile is not linked to a hospital. Please contact Super Admin.")
		}
		hospitalID = callerProfile.HospitalID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, "Failed to hash password")
	}

	var specialization *string
	if role == models.RoleDoctor && req.Specialization != "" {
		specialization = &req.Specialization
	}

	account, err := h.accounts.CreateAccount(ctx, &models.AccountCreate{
		Email:          req.Email,
		PasswordHash:   string(hash),
		Name:           req.Name,
		Role:           role,
		HospitalID:     hospitalID,
		Specialization: specialization,
	})
	if err != nil {
		return respondError(err)
	}

	logger.Info("Account provisioned",
		zap.String("user_id", account.ID),
		zap.String("role", string(account.Role)),
		zap.String("created_by", identity.UserID))

	return jsonResponse(http.StatusCreated, map[string]interface{}{
		"message": "Account created successfully",
		"user":    account,
	})
}
