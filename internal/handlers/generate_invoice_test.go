package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthcare-claims-engine/internal/models"
)

func newGenerateInvoiceHandler(claims *fakeClaims, invoices *fakeInvoices) *GenerateInvoiceHandler {
	return &GenerateInvoiceHandler{
		gate:     billingGate(),
		claims:   claims,
		invoices: invoices,
	}
}

func approvedClaim(id string) *models.Claim {
	return &models.Claim{
		ID:                id,
		PatientID:         "patient-1",
		InsuranceProvider: "Cigna",
		Amount:            1500,
		Status:            models.ClaimStatusApproved,
		HospitalID:        strPtr("hospital-1"),
	}
}

func TestGenerateInvoice_MissingClaimID(t *testing.T) {
	handler := newGenerateInvoiceHandler(newFakeClaims(), newFakeInvoices())

	response, err := handler.Handle(context.Background(), postRequest(`{}`))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Equal(t, "claim_id is required", errorBody(t, response))
}

func TestGenerateInvoice_ClaimNotFound(t *testing.T) {
	handler := newGenerateInvoiceHandler(newFakeClaims(), newFakeInvoices())

	response, err := handler.Handle(context.Background(), postRequest(`{"claim_id":"missing"}`))

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
	assert.Equal(t, "Claim not found", errorBody(t, response))
}

func TestGenerateInvoice_ClaimNotApproved(t *testing.T) {
	claims := newFakeClaims()
	claims.byID["c1"] = &models.Claim{ID: "c1", Status: models.ClaimStatusPending}
	handler := newGenerateInvoiceHandler(claims, newFakeInvoices())

	response, err := handler.Handle(context.Background(), postRequest(`{"claim_id":"c1"}`))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Equal(t, "Invoice can only be generated for APPROVED claims", errorBody(t, response))
}

func TestGenerateInvoice_DuplicateInvoice(t *testing.T) {
	claims := newFakeClaims()
	claims.byID["c1"] = approvedClaim("c1")
	invoices := newFakeInvoices()
	invoices.byClaimID["c1"] = &models.Invoice{ID: "existing"}
	handler := newGenerateInvoiceHandler(claims, invoices)

	response, err := handler.Handle(context.Background(), postRequest(`{"claim_id":"c1"}`))

	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, response.StatusCode)
	assert.Equal(t, "Invoice already exists for this claim", errorBody(t, response))
}

func TestGenerateInvoice_DefaultLineItem(t *testing.T) {
	claims := newFakeClaims()
	claims.byID["c1"] = approvedClaim("c1")
	invoices := newFakeInvoices()
	handler := newGenerateInvoiceHandler(claims, invoices)

	response, err := handler.Handle(context.Background(), postRequest(`{"claim_id":"c1"}`))

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, response.StatusCode)

	require.Len(t, invoices.createdItems, 1)
	assert.Equal(t, "Doctor Consultation Fee", invoices.createdItems[0].Description)
	assert.Equal(t, 1500.0, invoices.createdItems[0].Amount, "Default line item carries the claim amount")
	assert.Equal(t, models.ItemTypeConsultation, invoices.createdItems[0].ItemType)
	assert.Equal(t, 1500.0, invoices.created.TotalAmount)
}

func TestGenerateInvoice_CustomLineItemsSumToTotal(t *testing.T) {
	claims := newFakeClaims()
	claims.byID["c1"] = approvedClaim("c1")
	invoices := newFakeInvoices()
	handler := newGenerateInvoiceHandler(claims, invoices)

	body := `{
		"claim_id": "c1",
		"line_items": [
			{"description": "MRI scan", "amount": 800, "item_type": "PROCEDURE"},
			{"description": "Contrast dye", "amount": 150, "item_type": "MEDICATION"}
		]
	}`
	response, err := handler.Handle(context.Background(), postRequest(body))

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, response.StatusCode)

	require.Len(t, invoices.createdItems, 2)
	assert.Equal(t, 950.0, invoices.created.TotalAmount, "Total must sum the provided items, not the claim amount")
}

func TestGenerateInvoice_ResponseCarriesInvoice(t *testing.T) {
	claims := newFakeClaims()
	claims.byID["c1"] = approvedClaim("c1")
	handler := newGenerateInvoiceHandler(claims, newFakeInvoices())

	response, err := handler.Handle(context.Background(), postRequest(`{"claim_id":"c1"}`))

	require.NoError(t, err)

	var body struct {
		Invoice models.Invoice `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
	assert.Equal(t, "c1", body.Invoice.ClaimID)
	assert.Equal(t, "patient-1", body.Invoice.PatientID)
	assert.Equal(t, models.PaymentStatusUnpaid, body.Invoice.PaymentStatus, "New invoices start UNPAID")
	require.NotNil(t, body.Invoice.HospitalID)
	assert.Equal(t, "hospital-1", *body.Invoice.HospitalID, "Invoice inherits the claim's hospital")
}
