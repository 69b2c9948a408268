// Package models defines the data structures for the claims engine.
package models

import (
	"time"
)

// PaymentStatus represents the payment state of an invoice.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
)

// ValidPaymentStatuses returns all valid payment status values.
func ValidPaymentStatuses() []PaymentStatus {
	return []PaymentStatus{
		PaymentStatusUnpaid,
		PaymentStatusPaid,
		PaymentStatusPartial,
	}
}

// IsValid checks if the payment status is valid.
func (s PaymentStatus) IsValid() bool {
	for _, valid := range ValidPaymentStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// ItemType categorizes an invoice line item.
type ItemType string

const (
	ItemTypeConsultation ItemType = "CONSULTATION"
	ItemTypeProcedure    ItemType = "PROCEDURE"
	ItemTypeMedication   ItemType = "MEDICATION"
	ItemTypeLabTest      ItemType = "LAB_TEST"
	ItemTypeOther        ItemType = "OTHER"
)

// Invoice is a billable summary derived from an approved claim.
// At most one invoice exists per claim.
type Invoice struct {
	ID            string        `json:"id" db:"id"`
	ClaimID       string        `json:"claim_id" db:"claim_id"`
	PatientID     string        `json:"patient_id" db:"patient_id"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	HospitalID    *string       `json:"hospital_id,omitempty" db:"hospital_id"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// InvoiceCreate represents the data needed to generate an invoice.
type InvoiceCreate struct {
	ClaimID       string        `json:"claim_id"`
	PatientID     string        `json:"patient_id"`
	TotalAmount   float64       `json:"total_amount"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	HospitalID    *string       `json:"hospital_id,omitempty"`
}

// InvoiceItem is a single billable line on an invoice.
type InvoiceItem struct {
	ID          string   `json:"id" db:"id"`
	InvoiceID   string   `json:"invoice_id" db:"invoice_id"`
	Description string   `json:"description" db:"description"`
	Amount      float64  `json:"amount" db:"amount"`
	ItemType    ItemType `json:"item_type" db:"item_type"`
}

// InvoiceItemCreate represents a line item supplied at invoice generation.
type InvoiceItemCreate struct {
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	ItemType    ItemType `json:"item_type"`
}
