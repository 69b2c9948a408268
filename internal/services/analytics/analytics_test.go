package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"healthcare-claims-engine/internal/models"
)

// mockClaim creates a test claim with default values
func mockClaim(overrides map[string]interface{}) *models.Claim {
	claim := &models.Claim{
		ID:                "claim-001",
		PatientID:         "patient-001",
		InsuranceProvider: "Aetna",
		Amount:            1000,
		Status:            models.ClaimStatusPending,
		AIRiskScore:       50,
		SubmittedAt:       time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}

	if v, ok := overrides["status"]; ok {
		claim.Status = v.(models.ClaimStatus)
	}
	if v, ok := overrides["amount"]; ok {
		claim.Amount = v.(float64)
	}
	if v, ok := overrides["risk"]; ok {
		claim.AIRiskScore = v.(float64)
	}
	if v, ok := overrides["provider"]; ok {
		claim.InsuranceProvider = v.(string)
	}
	if v, ok := overrides["submitted_at"]; ok {
		claim.SubmittedAt = v.(time.Time)
	}

	return claim
}

func TestCompute_EmptyInput(t *testing.T) {
	report := Compute(nil, nil)

	assert.Equal(t, 0, report.Summary.TotalClaims)
	assert.Equal(t, 0.0, report.Summary.DenialRate, "Denial rate must be 0 with no claims")
	assert.Equal(t, 0.0, report.Summary.AvgRiskScore, "Average risk must be 0 with no claims")
	assert.Equal(t, 0.0, report.Summary.CollectionRate, "Collection rate must be 0 with no invoices")
	assert.Empty(t, report.ClaimsByPayer)
	assert.Empty(t, report.MonthlyTrend)
	assert.Len(t, report.RiskDistribution, 3, "Risk distribution always has three buckets")
}

func TestCompute_StatusCounts(t *testing.T) {
	claims := []*models.Claim{
		mockClaim(map[string]interface{}{"status": models.ClaimStatusApproved, "amount": float64(1200)}),
		mockClaim(map[string]interface{}{"status": models.ClaimStatusApproved, "amount": float64(800)}),
		mockClaim(map[string]interface{}{"status": models.ClaimStatusDenied}),
		mockClaim(map[string]interface{}{"status": models.ClaimStatusPending}),
	}

	report := Compute(claims, nil)

	assert.Equal(t, 4, report.Summary.TotalClaims)
	assert.Equal(t, 2, report.Summary.ApprovedClaims)
	assert.Equal(t, 1, report.Summary.DeniedClaims)
	assert.Equal(t, 1, report.Summary.PendingClaims)
	assert.Equal(t, 2000.0, report.Summary.TotalRevenue, "Revenue sums approved claims only")
	assert.Equal(t, 25.0, report.Summary.DenialRate, "1 of 4 denied is 25%")
}

func TestCompute_DenialRateRounding(t *testing.T) {
	claims := []*models.Claim{
		mockClaim(map[string]interface{}{"status": models.ClaimStatusDenied}),
		mockClaim(map[string]interface{}{"status": models.ClaimStatusPending}),
		mockClaim(map[string]interface{}{"status": models.ClaimStatusPending}),
	}

	report := Compute(claims, nil)

	// 1/3 = 33.333...% rounds to 33.33
	assert.Equal(t, 33.33, report.Summary.DenialRate)
}

func TestCompute_AvgRiskScore(t *testing.T) {
	claims := []*models.Claim{
		mockClaim(map[string]interface{}{"risk": float64(20)}),
		mockClaim(map[string]interface{}{"risk": float64(45)}),
		mockClaim(map[string]interface{}{"risk": float64(90)}),
	}

	report := Compute(claims, nil)

	// (20+45+90)/3 = 51.666... rounds to 51.67
	assert.Equal(t, 51.67, report.Summary.AvgRiskScore)
}

func TestCompute_CollectionRate(t *testing.T) {
	invoices := []*models.Invoice{
		{TotalAmount: 1000, PaymentStatus: models.PaymentStatusPaid},
		{TotalAmount: 2000, PaymentStatus: models.PaymentStatusUnpaid},
		{TotalAmount: 1000, PaymentStatus: models.PaymentStatusPartial},
	}

	report := Compute(nil, invoices)

	assert.Equal(t, 4000.0, report.Summary.TotalBilled)
	assert.Equal(t, 1000.0, report.Summary.TotalCollected, "Only PAID invoices count as collected")
	assert.Equal(t, 25.0, report.Summary.CollectionRate)
}

func TestCompute_ClaimsByPayerSortedByCountDescending(t *testing.T) {
	claims := []*models.Claim{
		mockClaim(map[string]interface{}{"provider": "Cigna"}),
		mockClaim(map[string]interface{}{"provider": "Aetna"}),
		mockClaim(map[string]interface{}{"provider": "Cigna"}),
		mockClaim(map[string]interface{}{"provider": "Cigna"}),
		mockClaim(map[string]interface{}{"provider": "Aetna"}),
		mockClaim(map[string]interface{}{"provider": "United Health"}),
	}

	report := Compute(claims, nil)

	assert.Equal(t, []NameValue{
		{Name: "Cigna", Value: 3},
		{Name: "Aetna", Value: 2},
		{Name: "United Health", Value: 1},
	}, report.ClaimsByPayer)
}

func TestCompute_ClaimsByPayerTiesBreakByName(t *testing.T) {
	claims := []*models.Claim{
		mockClaim(map[string]interface{}{"provider": "Zeta Care"}),
		mockClaim(map[string]interface{}{"provider": "Aetna"}),
	}

	report := Compute(claims, nil)

	assert.Equal(t, "Aetna", report.ClaimsByPayer[0].Name, "Equal counts sort alphabetically")
	assert.Equal(t, "Zeta Care", report.ClaimsByPayer[1].Name)
}

func TestCompute_MonthlyTrendBuckets(t *testing.T) {
	january := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	march := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	claims := []*models.Claim{
		mockClaim(map[string]interface{}{"submitted_at": march, "status": models.ClaimStatusApproved, "amount": float64(500)}),
		mockClaim(map[string]interface{}{"submitted_at": january, "status": models.ClaimStatusDenied}),
		mockClaim(map[string]interface{}{"submitted_at": march, "status": models.ClaimStatusPending}),
	}

	report := Compute(claims, nil)

	assert.Len(t, report.MonthlyTrend, 2)
	assert.Equal(t, MonthBucket{Month: "2026-01", Total: 1, Denied: 1}, report.MonthlyTrend[0],
		"Months must sort ascending")
	assert.Equal(t, MonthBucket{Month: "2026-03", Total: 2, Approved: 1, Revenue: 500}, report.MonthlyTrend[1])
}

func TestCompute_ZeroSubmittedAtFallsIntoUnknownBucket(t *testing.T) {
	claims := []*models.Claim{
		mockClaim(map[string]interface{}{"submitted_at": time.Time{}}),
	}

	report := Compute(claims, nil)

	assert.Len(t, report.MonthlyTrend, 1)
	assert.Equal(t, "unknown", report.MonthlyTrend[0].Month)
}

func TestCompute_RiskDistributionBoundaries(t *testing.T) {
	claims := []*models.Claim{
		mockClaim(map[string]interface{}{"risk": float64(0)}),
		mockClaim(map[string]interface{}{"risk": float64(29.99)}),
		mockClaim(map[string]interface{}{"risk": float64(30)}),
		mockClaim(map[string]interface{}{"risk": float64(69.99)}),
		mockClaim(map[string]interface{}{"risk": float64(70)}),
		mockClaim(map[string]interface{}{"risk": float64(99)}),
	}

	report := Compute(claims, nil)

	assert.Equal(t, []NameValue{
		{Name: "Low (<30)", Value: 2},
		{Name: "Medium (30-70)", Value: 2},
		{Name: "High (>70)", Value: 2},
	}, report.RiskDistribution, "30 is medium, 70 is high")
}
