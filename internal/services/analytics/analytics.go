// Package analytics computes summary statistics over claims and invoices.
//
// Every report is computed from scratch on request; nothing is cached or
// maintained incrementally.
package analytics

import (
	"math"
	"sort"

	"healthcare-claims-engine/internal/models"
)

// Summary holds the headline figures of a report.
type Summary struct {
	TotalClaims    int     `json:"totalClaims"`
	ApprovedClaims int     `json:"approvedClaims"`
	DeniedClaims   int     `json:"deniedClaims"`
	PendingClaims  int     `json:"pendingClaims"`
	TotalRevenue   float64 `json:"totalRevenue"`
	DenialRate     float64 `json:"denialRate"`
	AvgRiskScore   float64 `json:"avgRiskScore"`
	TotalBilled    float64 `json:"totalBilled"`
	TotalCollected float64 `json:"totalCollected"`
	CollectionRate float64 `json:"collectionRate"`
}

// NameValue is a labeled count used for payer and risk groupings.
type NameValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// MonthBucket aggregates claims submitted in one calendar month.
type MonthBucket struct {
	Month    string  `json:"month"`
	Total    int     `json:"total"`
	Approved int     `json:"approved"`
	Denied   int     `json:"denied"`
	Revenue  float64 `json:"revenue"`
}

// Report is the full analytics response body.
type Report struct {
	Summary          Summary       `json:"summary"`
	ClaimsByPayer    []NameValue   `json:"claimsByPayer"`
	MonthlyTrend     []MonthBucket `json:"monthlyTrend"`
	RiskDistribution []NameValue   `json:"riskDistribution"`
}

// Compute builds a report from the full claims and invoices collections.
func Compute(claims []*models.Claim, invoices []*models.Invoice) *Report {
	total := len(claims)

	var approved, denied, pending int
	var totalRevenue, riskSum float64
	byPayer := make(map[string]int)
	byMonth := make(map[string]*MonthBucket)
	var lowRisk, mediumRisk, highRisk int

	for _, c := range claims {
		switch c.Status {
		case models.ClaimStatusApproved:
			approved++
			totalRevenue += c.Amount
		case models.ClaimStatusDenied:
			denied++
		case models.ClaimStatusPending:
			pending++
		}

		riskSum += c.AIRiskScore
		byPayer[c.InsuranceProvider]++

		month := "unknown"
		if !c.SubmittedAt.IsZero() {
			month = c.SubmittedAt.Format("2006-01")
		}
		bucket, ok := byMonth[month]
		if !ok {
			bucket = &MonthBucket{Month: month}
			byMonth[month] = bucket
		}
		bucket.Total++
		if c.Status == models.ClaimStatusApproved {
			bucket.Approved++
			bucket.Revenue += c.Amount
		}
		if c.Status == models.ClaimStatusDenied {
			bucket.Denied++
		}

		switch {
		case c.AIRiskScore < 30:
			lowRisk++
		case c.AIRiskScore < 70:
			mediumRisk++
		default:
			highRisk++
		}
	}

	var totalBilled, totalCollected float64
	for _, inv := range invoices {
		totalBilled += inv.TotalAmount
		if inv.PaymentStatus == models.PaymentStatusPaid {
			totalCollected += inv.TotalAmount
		}
	}

	summary := Summary{
		TotalClaims:    total,
		ApprovedClaims: approved,
		DeniedClaims:   denied,
		PendingClaims:  pending,
		TotalRevenue:   totalRevenue,
		DenialRate:     rate(float64(denied), float64(total)),
		TotalBilled:    totalBilled,
		TotalCollected: totalCollected,
		CollectionRate: rate(totalCollected, totalBilled),
	}
	if total > 0 {
		summary.AvgRiskScore = math.Round(riskSum/float64(total)*100) / 100
	}

	claimsByPayer := make([]NameValue, 0, len(byPayer))
	for name, value := range byPayer {
		claimsByPayer = append(claimsByPayer, NameValue{Name: name, Value: value})
	}
	sort.Slice(claimsByPayer, func(i, j int) bool {
		if claimsByPayer[i].Value != claimsByPayer[j].Value {
			return claimsByPayer[i].Value > claimsByPayer[j].Value
		}
		return claimsByPayer[i].Name < claimsByPayer[j].Name
	})

	monthlyTrend := make([]MonthBucket, 0, len(byMonth))
	for _, bucket := range byMonth {
		monthlyTrend = append(monthlyTrend, *bucket)
	}
	sort.Slice(monthlyTrend, func(i, j int) bool {
		return monthlyTrend[i].Month < monthlyTrend[j].Month
	})

	return &Report{
		Summary:       summary,
		ClaimsByPayer: claimsByPayer,
		MonthlyTrend:  monthlyTrend,
		RiskDistribution: []NameValue{
			{Name: "Low (<30)", Value: lowRisk},
			{Name: "Medium (30-70)", Value: mediumRisk},
			{Name: "High (>70)", Value: highRisk},
		},
	}
}

// rate computes numerator/denominator as a percentage rounded to two
// decimals. Zero when the denominator is zero.
func rate(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return math.Round(numerator/denominator*10000) / 100
}
