package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthcare-claims-engine/internal/auth"
	"healthcare-claims-engine/internal/models"
	"healthcare-claims-engine/internal/services/analytics"
)

type fakeClaimsLister struct {
	claims []*models.Claim
	err    error
}

func (f *fakeClaimsLister) GetAll(_ context.Context) ([]*models.Claim, error) {
	return f.claims, f.err
}

type fakeInvoicesLister struct {
	invoices []*models.Invoice
	err      error
}

func (f *fakeInvoicesLister) GetAll(_ context.Context) ([]*models.Invoice, error) {
	return f.invoices, f.err
}

func analystGate() *fakeGate {
	return &fakeGate{identity: &auth.Identity{UserID: "analyst-1", Role: models.RoleAIAnalyst}}
}

func TestAnalytics_Forbidden(t *testing.T) {
	handler := &AnalyticsHandler{
		gate:     &fakeGate{err: models.Forbidden("Forbidden")},
		claims:   &fakeClaimsLister{},
		invoices: &fakeInvoicesLister{},
	}

	response, err := handler.Handle(context.Background(), postRequest(""))

	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, response.StatusCode)
	assert.Equal(t, "Forbidden", errorBody(t, response))
}

func TestAnalytics_ClaimsLoadFailure(t *testing.T) {
	handler := &AnalyticsHandler{
		gate:     analystGate(),
		claims:   &fakeClaimsLister{err: errors.New("connection refused")},
		invoices: &fakeInvoicesLister{},
	}

	response, err := handler.Handle(context.Background(), postRequest(""))

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	assert.Equal(t, "Failed to load claims", errorBody(t, response))
}

func TestAnalytics_ReportBody(t *testing.T) {
	submitted := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	handler := &AnalyticsHandler{
		gate: analystGate(),
		claims: &fakeClaimsLister{claims: []*models.Claim{
			{ID: "c1", InsuranceProvider: "Aetna", Amount: 1000, Status: models.ClaimStatusApproved, AIRiskScore: 20, SubmittedAt: submitted},
			{ID: "c2", InsuranceProvider: "Aetna", Amount: 500, Status: models.ClaimStatusDenied, AIRiskScore: 80, SubmittedAt: submitted},
		}},
		invoices: &fakeInvoicesLister{invoices: []*models.Invoice{
			{TotalAmount: 1000, PaymentStatus: models.PaymentStatusPaid},
		}},
	}

	response, err := handler.Handle(context.Background(), postRequest(""))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)

	var report analytics.Report
	require.NoError(t, json.Unmarshal([]byte(response.Body), &report))
	assert.Equal(t, 2, report.Summary.TotalClaims)
	assert.Equal(t, 1000.0, report.Summary.TotalRevenue)
	assert.Equal(t, 50.0, report.Summary.DenialRate)
	assert.Equal(t, 100.0, report.Summary.CollectionRate)
	assert.Equal(t, []analytics.NameValue{{Name: "Aetna", Value: 2}}, report.ClaimsByPayer)
	require.Len(t, report.MonthlyTrend, 1)
	assert.Equal(t, "2026-05", report.MonthlyTrend[0].Month)
}

func TestAnalytics_EmptyDataStillWellFormed(t *testing.T) {
	handler := &AnalyticsHandler{
		gate:     analystGate(),
		claims:   &fakeClaimsLister{},
		invoices: &fakeInvoicesLister{},
	}

	response, err := handler.Handle(context.Background(), postRequest(""))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)

	var report analytics.Report
	require.NoError(t, json.Unmarshal([]byte(response.Body), &report))
	assert.Equal(t, 0, report.Summary.TotalClaims)
	assert.Len(t, report.RiskDistribution, 3)
}
