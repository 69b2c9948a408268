// Package models defines the data structures for the claims engine.
package models

// Profile holds the display data for a platform user.
type Profile struct {
	UserID         string  `json:"user_id" db:"user_id"`
	Name           string  `json:"name" db:"name"`
	Email          string  `json:"email" db:"email"`
	HospitalID     *string `json:"hospital_id,omitempty" db:"hospital_id"`
	Specialization *string `json:"specialization,omitempty" db:"specialization"`
}

// ProfileUpdate carries the mutable profile fields for a provisioning update.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name           *string `json:"name,omitempty"`
	Email          *string `json:"email,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
}

// IsEmpty reports whether the update patches nothing.
func (u *ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Specialization == nil
}

// AccountCreate represents the data needed to provision a staff account.
type AccountCreate struct {
	Email          string  `json:"email"`
	PasswordHash   string  `json:"-"`
	Name           string  `json:"name"`
	Role           Role    `json:"role"`
	HospitalID     *string `json:"hospital_id,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
}

// Account is a provisioned user with its resolved role.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
