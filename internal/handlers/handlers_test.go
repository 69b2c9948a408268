package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"healthcare-claims-engine/internal/auth"
	"healthcare-claims-engine/internal/models"
	"healthcare-claims-engine/internal/services/risk"
	s3service "healthcare-claims-engine/internal/services/s3"
	sesService "healthcare-claims-engine/internal/services/ses"
)

// fakeGate returns a canned identity or error for every request.
type fakeGate struct {
	identity *auth.Identity
	err      error
}

func (f *fakeGate) Authorize(_ context.Context, _ string, _ auth.Operation) (*auth.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func billingGate() *fakeGate {
	return &fakeGate{identity: &auth.Identity{UserID: "billing-user", Role: models.RoleBilling}}
}

// fakeClaims backs the claim store interfaces with in-memory state.
type fakeClaims struct {
	byID          map[string]*models.Claim
	byAppointment map[string]*models.Claim
	created       []*models.ClaimCreate
	createErr     error
	setStatusErr  error
}

func newFakeClaims() *fakeClaims {
	return &fakeClaims{
		byID:          make(map[string]*models.Claim),
		byAppointment: make(map[string]*models.Claim),
	}
}

func (f *fakeClaims) Create(_ context.Context, claim *models.ClaimCreate) (*models.Claim, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, claim)
	return &models.Claim{
		ID:                "claim-new",
		PatientID:         claim.PatientID,
		InsuranceProvider: claim.InsuranceProvider,
		Amount:            claim.Amount,
		Status:            models.ClaimStatusPending,
		AIRiskScore:       claim.AIRiskScore,
		AIExplanation:     claim.AIExplanation,
		SubmittedBy:       claim.SubmittedBy,
		AppointmentID:     claim.AppointmentID,
		HospitalID:        claim.HospitalID,
		SubmittedAt:       time.Now().UTC(),
	}, nil
}

func (f *fakeClaims) GetByID(_ context.Context, id string) (*models.Claim, error) {
	return f.byID[id], nil
}

func (f *fakeClaims) GetByAppointmentID(_ context.Context, appointmentID string) (*models.Claim, error) {
	return f.byAppointment[appointmentID], nil
}

func (f *fakeClaims) SetStatus(_ context.Context, id string, status models.ClaimStatus, processedAt time.Time) (*models.Claim, error) {
	if f.setStatusErr != nil {
		return nil, f.setStatusErr
	}
	claim, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	claim.Status = status
	claim.ProcessedAt = &processedAt
	return claim, nil
}

// fakeAppointments serves appointments from a map.
type fakeAppointments struct {
	byID map[string]*models.Appointment
}

func (f *fakeAppointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	return f.byID[id], nil
}

// fakeAILogs records prediction audit rows.
type fakeAILogs struct {
	created []*models.AILogCreate
	err     error
}

func (f *fakeAILogs) Create(_ context.Context, log *models.AILogCreate) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, log)
	return nil
}

// fixedScorer returns the same assessment for every claim.
type fixedScorer struct {
	assessment risk.Assessment
}

func (f *fixedScorer) Assess(_ float64, _ string) risk.Assessment {
	return f.assessment
}

// fakeInvoices backs the invoice store with in-memory state.
type fakeInvoices struct {
	byClaimID    map[string]*models.Invoice
	createdItems []models.InvoiceItemCreate
	created      *models.InvoiceCreate
}

func newFakeInvoices() *fakeInvoices {
	return &fakeInvoices{byClaimID: make(map[string]*models.Invoice)}
}

func (f *fakeInvoices) GetByClaimID(_ context.Context, claimID string) (*models.Invoice, error) {
	return f.byClaimID[claimID], nil
}

func (f *fakeInvoices) CreateWithItems(_ context.Context, invoice *models.InvoiceCreate, items []models.InvoiceItemCreate) (*models.Invoice, error) {
	f.created = invoice
	f.createdItems = items
	return &models.Invoice{
		ID:            "invoice-new",
		ClaimID:       invoice.ClaimID,
		PatientID:     invoice.PatientID,
		TotalAmount:   invoice.TotalAmount,
		PaymentStatus: invoice.PaymentStatus,
		HospitalID:    invoice.HospitalID,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// fakeAccounts backs both the provisioning and management account stores.
type fakeAccounts struct {
	profiles        map[string]*models.Profile
	createdAccount  *models.AccountCreate
	createErr       error
	updatedProfile  *models.ProfileUpdate
	updatedPassword string
	deletedUserID   string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{profiles: make(map[string]*models.Profile)}
}

func (f *fakeAccounts) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	return f.profiles[userID], nil
}

func (f *fakeAccounts) CreateAccount(_ context.Context, account *models.AccountCreate) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdAccount = account
	return &models.Account{ID: "account-new", Email: account.Email, Role: account.Role}, nil
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, _ string, update *models.ProfileUpdate) error {
	f.updatedProfile = update
	return nil
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	f.updatedPassword = passwordHash
	return nil
}

func (f *fakeAccounts) DeleteAccount(_ context.Context, userID string) error {
	f.deletedUserID = userID
	return nil
}

// fakeNotifier records decision notifications.
type fakeNotifier struct {
	sent []sesService.DecisionNotification
}

func (f *fakeNotifier) SendClaimDecision(_ context.Context, n sesService.DecisionNotification) (*sesService.SendEmailResult, error) {
	f.sent = append(f.sent, n)
	return &sesService.SendEmailResult{MessageID: "msg-1", SentAt: time.Now()}, nil
}

// fakePresigner returns deterministic presigned URLs.
type fakePresigner struct {
	uploadKeys   []string
	downloadKeys []string
}

func (f *fakePresigner) GeneratePresignedUploadURL(_ context.Context, key, _ string, expiryMinutes int) (*s3service.PresignedURLResult, error) {
	f.uploadKeys = append(f.uploadKeys, key)
	return &s3service.PresignedURLResult{
		URL:       "https://bucket.s3.amazonaws.com/" + key,
		Key:       key,
		ExpiresAt: time.Now().Add(time.Duration(expiryMinutes) * time.Minute),
	}, nil
}

func (f *fakePresigner) GeneratePresignedDownloadURL(_ context.Context, key string, expiryMinutes int) (*s3service.PresignedURLResult, error) {
	f.downloadKeys = append(f.downloadKeys, key)
	return &s3service.PresignedURLResult{
		URL:       "https://bucket.s3.amazonaws.com/" + key,
		Key:       key,
		ExpiresAt: time.Now().Add(time.Duration(expiryMinutes) * time.Minute),
	}, nil
}

// postRequest builds an authenticated POST event with a JSON body.
func postRequest(body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod: "POST",
		Headers:    map[string]string{"Authorization": "Bearer test-token"},
		Body:       body,
	}
}

// errorBody extracts the error message from a response body.
func errorBody(t *testing.T, response events.APIGatewayProxyResponse) string {
	t.Helper()
	var parsed map[string]string
	require.NoError(t, json.Unmarshal([]byte(response.Body), &parsed))
	return parsed["error"]
}

func strPtr(s string) *string {
	return &s
}
