package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimStatus_IsValid(t *testing.T) {
	assert.True(t, ClaimStatusPending.IsValid())
	assert.True(t, ClaimStatusApproved.IsValid())
	assert.True(t, ClaimStatusDenied.IsValid())
	assert.False(t, ClaimStatus("REVIEWING").IsValid())
	assert.False(t, ClaimStatus("").IsValid())
}

func TestClaimAction_TargetStatus(t *testing.T) {
	status, ok := ClaimActionApprove.TargetStatus()
	assert.True(t, ok)
	assert.Equal(t, ClaimStatusApproved, status)

	status, ok = ClaimActionReject.TargetStatus()
	assert.True(t, ok)
	assert.Equal(t, ClaimStatusDenied, status)

	_, ok = ClaimAction("deny").TargetStatus()
	assert.False(t, ok, "Only approve and reject are valid actions")
}

func TestPaymentStatus_IsValid(t *testing.T) {
	assert.True(t, PaymentStatusUnpaid.IsValid())
	assert.True(t, PaymentStatusPaid.IsValid())
	assert.True(t, PaymentStatusPartial.IsValid())
	assert.False(t, PaymentStatus("REFUNDED").IsValid())
}

func TestRole_IsValid(t *testing.T) {
	for _, role := range []Role{RoleSuperAdmin, RoleHospitalAdmin, RoleBilling, RoleInsurance, RoleAIAnalyst, RoleDoctor, RolePatient} {
		assert.True(t, role.IsValid(), "role %s should be valid", role)
	}
	assert.False(t, Role("NURSE").IsValid())
}

func TestRoleIn(t *testing.T) {
	assert.True(t, RoleIn(RoleBilling, []Role{RoleSuperAdmin, RoleBilling}))
	assert.False(t, RoleIn(RoleDoctor, []Role{RoleSuperAdmin, RoleBilling}))
	assert.False(t, RoleIn(RoleDoctor, nil))
}

func TestRoleDomains_CoverStaffRoles(t *testing.T) {
	for _, role := range []Role{RoleHospitalAdmin, RoleDoctor, RoleBilling, RoleInsurance, RoleAIAnalyst} {
		domain, ok := RoleDomains[role]
		assert.True(t, ok, "staff role %s needs an email domain", role)
		assert.NotEmpty(t, domain)
	}

	_, ok := RoleDomains[RolePatient]
	assert.False(t, ok, "PATIENT accounts are not domain-restricted")
}

func TestErrorKind_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindValidation.HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, KindUnauthorized.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, KindForbidden.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, KindNotFound.HTTPStatus())
	assert.Equal(t, http.StatusConflict, KindConflict.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, KindUpstream.HTTPStatus())
}

func TestRequestError_MessageIsErrorString(t *testing.T) {
	err := NotFound("Claim not found")
	assert.Equal(t, "Claim not found", err.Error())
	assert.Equal(t, KindNotFound, err.Kind)
}

func TestAsRequestError_UnwrapsChain(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", Conflict("Invoice already exists for this claim"))

	reqErr, ok := AsRequestError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindConflict, reqErr.Kind)
	assert.Equal(t, "Invoice already exists for this claim", reqErr.Message)
}

func TestAsRequestError_PlainError(t *testing.T) {
	_, ok := AsRequestError(errors.New("connection refused"))
	assert.False(t, ok)
}
