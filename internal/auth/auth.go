// Package auth implements the authorization gate shared by all handlers.
//
// Every request re-authenticates: the bearer token is verified, the caller's
// role is resolved from the role store, and the role is checked against the
// operation's allow-list. No session state is held between requests.
package auth

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"healthcare-claims-engine/internal/models"
)

// Operation identifies a protected API operation.
type Operation string

const (
	OpCreateClaim     Operation = "create_claim"
	OpManageClaim     Operation = "manage_claim"
	OpGenerateInvoice Operation = "generate_invoice"
	OpViewAnalytics   Operation = "view_analytics"
	OpProvisionUsers  Operation = "provision_users"
	OpClaimDocuments  Operation = "claim_documents"
)

// allowedRoles is the access-control table: which roles may invoke which
// operation. Roles absent from an operation's list are rejected with 403.
var allowedRoles = map[Operation][]models.Role{
	OpCreateClaim:     {models.RoleSuperAdmin, models.RoleHospitalAdmin, models.RoleBilling},
	OpManageClaim:     {models.RoleSuperAdmin, models.RoleHospitalAdmin, models.RoleInsurance},
	OpGenerateInvoice: {models.RoleSuperAdmin, models.RoleHospitalAdmin, models.RoleBilling},
	OpViewAnalytics:   {models.RoleSuperAdmin, models.RoleHospitalAdmin, models.RoleBilling, models.RoleAIAnalyst, models.RoleInsurance},
	OpProvisionUsers:  {models.RoleSuperAdmin, models.RoleHospitalAdmin},
	OpClaimDocuments:  {models.RoleSuperAdmin, models.RoleHospitalAdmin, models.RoleBilling, models.RoleDoctor},
}

// forbiddenMessages preserves the operation-specific 403 bodies of the API.
var forbiddenMessages = map[Operation]string{
	OpCreateClaim:     "Forbidden: Only Billing staff can create claims",
	OpManageClaim:     "Forbidden: Only Insurance or Admin roles can manage claims",
	OpGenerateInvoice: "Forbidden: Only admins or BILLING roles can generate invoices",
	OpViewAnalytics:   "Forbidden",
	OpProvisionUsers:  "Forbidden: Admin access required",
	OpClaimDocuments:  "Forbidden",
}

// AllowedRoles returns the allow-list for an operation.
func AllowedRoles(op Operation) []models.Role {
	return allowedRoles[op]
}

// Identity is the resolved caller of a request.
type Identity struct {
	UserID string
	Role   models.Role
}

// RoleStore resolves a user's role. An empty role with nil error means the
// user has no role row (implicit PATIENT).
type RoleStore interface {
	GetRole(ctx context.Context, userID string) (models.Role, error)
}

// Gate authenticates bearer tokens and authorizes operations.
type Gate struct {
	secret []byte
	roles  RoleStore
}

// NewGate creates a gate verifying HS256 tokens signed with secret.
func NewGate(secret string, roles RoleStore) *Gate {
	return &Gate{secret: []byte(secret), roles: roles}
}

// Authenticate verifies the Authorization header and returns the caller's
// user id. The header must carry a valid bearer token.
func (g *Gate) Authenticate(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", models.Unauthorized("Unauthorized")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", models.Unauthorized("Unauthorized")
	}

	return claims.Subject, nil
}

// Authorize authenticates the caller and checks their role against the
// operation's allow-list.
func (g *Gate) Authorize(ctx context.Context, authHeader string, op Operation) (*Identity, error) {
	userID, err := g.Authenticate(authHeader)
	if err != nil {
		return nil, err
	}

	role, err := g.roles.GetRole(ctx, userID)
	if err != nil {
		return nil, err
	}

	if role == "" || !models.RoleIn(role, allowedRoles[op]) {
		return nil, models.Forbidden(forbiddenMessages[op])
	}

	return &Identity{UserID: userID, Role: role}, nil
}
