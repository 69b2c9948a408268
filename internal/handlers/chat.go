// Package handlers provides the Lambda request handlers for the claims engine.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	appConfig "healthcare-claims-engine/internal/config"
	"healthcare-claims-engine/internal/utils"
)

// systemPrompt is the fixed assistant persona forwarded with every chat.
const systemPrompt = `You are MediBots Assistant, a helpful AI chatbot for the MediBots healthcare claims management platform. You help patients and staff with questions about:

**For Patients:**
- How to submit a new claim
- Checking claim status and processing times
- Understanding insurance information and policy details
- Payment and billing questions
- Account and profile management

**For Staff (Admin, Billing, Insurance, AI Analyst):**
- Claims management workflows
- Billing and invoice generation
- AI monitoring and risk scores
- Analytics and reporting
- Patient onboarding

**FAQ Knowledge Base:**
1. "How do I submit a new claim?" → Go to the Claims page and click "New Claim". Fill in the patient, insurance provider, and amount, then submit. AI will automatically assess the risk score.
2. "When will my claim be processed?" → Claims are typically processed within 2-5 business days. AI-flagged claims may take longer due to manual review.
3. "How do I update my insurance information?" → Go to Settings > Profile and update your insurance provider and policy number.
4. "What does the AI risk score mean?" → The AI risk score (0-100) indicates the likelihood of claim denial. Scores above 70 are flagged for manual review.
5. "How do I view my payment history?" → Navigate to Payment History from the sidebar to see all past transactions.
6. "How do I generate an invoice?" → On the Billing page, find an approved claim and click "Generate Invoice".
7. "What payment methods are accepted?" → We accept credit cards, debit cards, and bank transfers.
8. "How do I contact support?" → Visit the Support page or email support@medibots.com or call 1-800-MEDIBOTS.

Be concise, friendly, and helpful. If you don't know something, suggest contacting support. Always respond in a professional healthcare context.`

// ChatMessage is a single turn in the conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request body for the assistant.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatHandler proxies conversations to the upstream completion gateway with
// the fixed system prompt and model. The upstream response body is relayed
// unmodified.
type ChatHandler struct {
	gatewayURL string
	apiKey     string
	model      string
	client     *http.Client
}

// NewChatHandler creates a chat handler from the environment.
func NewChatHandler() (*ChatHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, err
	}

	return &ChatHandler{
		gatewayURL: cfg.AIGatewayURL,
		apiKey:     cfg.AIGatewayAPIKey,
		model:      cfg.ChatModel,
		client:     &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Handle processes chat requests.
func (h *ChatHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()

	if request.HTTPMethod == "OPTIONS" {
		return preflightResponse(), nil
	}

	var req ChatRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid JSON in request body")
	}

	if h.apiKey == "" {
		return errorResponse(http.StatusInternalServerError, "AI gateway API key is not configured")
	}

	messages := append([]ChatMessage{{Role: "system", Content: systemPrompt}}, req.Messages...)
	payload, err := json.Marshal(map[string]interface{}{
		"model":    h.model,
		"messages": messages,
		"stream":   true,
	})
	if err != nil {
		return errorResponse(http.StatusInternalServerError, "Failed to build upstream request")
	}

	upstreamReq, err := http.NewRequestWithContext(ctx, "POST", h.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return errorResponse(http.StatusInternalServerError, "Failed to build upstream request")
	}
	upstreamReq.Header.Set("Authorization", "Bearer "+h.apiKey)
	upstreamReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(upstreamReq)
	if err != nil {
		logger.Error("AI gateway request failed", zap.Error(err))
		return errorResponse(http.StatusInternalServerError, "AI service unavailable")
	}
	defer resp.Body.Close()

	// Rate-limit and payment statuses pass through verbatim.
	if resp.StatusCode == http.StatusTooManyRequests {
		return errorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again shortly.")
	}
	if resp.StatusCode == http.StatusPaymentRequired {
		return errorResponse(http.StatusPaymentRequired, "AI credits exhausted. Please add funds.")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logger.Error("AI gateway error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return errorResponse(http.StatusInternalServerError, "AI service unavailable")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Failed to read AI gateway response", zap.Error(err))
		return errorResponse(http.StatusInternalServerError, "AI service unavailable")
	}

	headers := map[string]string{
		"Access-Control-Allow-Origin":  corsHeaders["Access-Control-Allow-Origin"],
		"Access-Control-Allow-Headers": corsHeaders["Access-Control-Allow-Headers"],
		"Content-Type":                 "text/event-stream",
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers,
		Body:       string(body),
	}, nil
}
