// Package models defines the data structures for the claims engine.
package models

// Role represents an authorization role assigned to a platform user.
type Role string

const (
	RoleSuperAdmin    Role = "SUPER_ADMIN"
	RoleHospitalAdmin Role = "HOSPITAL_ADMIN"
	RoleBilling       Role = "BILLING"
	RoleInsurance     Role = "INSURANCE"
	RoleAIAnalyst     Role = "AI_ANALYST"
	RoleDoctor        Role = "DOCTOR"
	RolePatient       Role = "PATIENT"
)

// ValidRoles returns all valid role values.
func ValidRoles() []Role {
	return []Role{
		RoleSuperAdmin,
		RoleHospitalAdmin,
		RoleBilling,
		RoleInsurance,
		RoleAIAnalyst,
		RoleDoctor,
		RolePatient,
	}
}

// IsValid checks if the role is valid.
func (r Role) IsValid() bool {
	for _, valid := range ValidRoles() {
		if r == valid {
			return true
		}
	}
	return false
}

// RoleDomains maps staff roles to the email domain their accounts must use.
// Roles without an entry have no domain restriction.
var RoleDomains = map[Role]string{
	RoleHospitalAdmin: "admin.medibots.com",
	RoleDoctor:        "doctor.medibots.com",
	RoleBilling:       "billingcare.medibots.com",
	RoleInsurance:     "insurance.medibots.com",
	RoleAIAnalyst:     "analyst.medibots.com",
}

// SuperAdminCreatableRoles are the roles a SUPER_ADMIN may provision.
var SuperAdminCreatableRoles = []Role{RoleHospitalAdmin, RoleSuperAdmin}

// HospitalAdminCreatableRoles are the roles a HOSPITAL_ADMIN may provision
// within their own hospital.
var HospitalAdminCreatableRoles = []Role{RoleDoctor, RoleBilling, RoleInsurance, RoleAIAnalyst}

// RoleIn reports whether r is contained in roles.
func RoleIn(r Role, roles []Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}
