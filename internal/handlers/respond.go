// Package handlers provides the Lambda request handlers for the claims engine.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"healthcare-claims-engine/internal/models"
)

// corsHeaders are attached to every response, including errors.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
	"Content-Type":                 "application/json",
}

// preflightResponse answers a CORS OPTIONS request.
func preflightResponse() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    corsHeaders,
	}
}

// jsonResponse serializes v as the response body.
func jsonResponse(statusCode int, v interface{}) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(v)
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    corsHeaders,
		Body:       string(body),
	}, nil
}

// errorResponse creates an `{"error": message}` response.
func errorResponse(statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	return jsonResponse(statusCode, map[string]string{"error": message})
}

// respondError maps a handler error to its HTTP response. Typed request
// errors carry their own status; anything else is an internal failure.
func respondError(err error) (events.APIGatewayProxyResponse, error) {
	if reqErr, ok := models.AsRequestError(err); ok {
		return errorResponse(reqErr.Kind.HTTPStatus(), reqErr.Message)
	}
	return errorResponse(http.StatusInternalServerError, err.Error())
}

// bearerHeader extracts the Authorization header; API Gateway does not
// normalize header casing.
func bearerHeader(request events.APIGatewayProxyRequest) string {
	if v, ok := request.Headers["Authorization"]; ok {
		return v
	}
	return request.Headers["authorization"]
}
