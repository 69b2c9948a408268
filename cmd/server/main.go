// Package main provides a local HTTP server for development and testing.
// It exposes the same handlers that run as Lambdas behind API Gateway,
// adapting plain HTTP requests into API Gateway proxy events.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"healthcare-claims-engine/internal/handlers"
	"healthcare-claims-engine/internal/utils"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/cors"
)

// gatewayHandler is the common shape of every Lambda handler in this project.
type gatewayHandler func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

func main() {
	// Initialize logger first
	if err := utils.InitLogger("info"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()

	mux := http.NewServeMux()

	register(mux, "/health", func() (gatewayHandler, error) {
		h, err := handlers.NewHealthHandler()
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	})
	register(mux, "/api/create-claim", func() (gatewayHandler, error) {
		h, err := handlers.NewCreateClaimHandler()
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	})
	register(mux, "/api/manage-claim", func() (gatewayHandler, error) {
		h, err := handlers.NewManageClaimHandler()
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	})
	register(mux, "/api/generate-invoice", func() (gatewayHandler, error) {
		h, err := handlers.NewGenerateInvoiceHandler()
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	})
	register(mux, "/api/analytics", func() (gatewayHandler, error) {
		h, err := handlers.NewAnalyticsHandler()
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	})
	register(mux, "/api/admin-create-user", func() (gatewayHandler, error) {
		h, err := handlers.NewAdminCreateUserHandler()
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	})
	register(mux, "/api/admin-manage-user", func() (gatewayHandler, error) {
		h, err := handlers.NewAdminManageUserHandler()
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	})
	register(mux, "/api/chat", func() (gatewayHandler, error) {
		h, err := handlers.NewChatHandler()
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	})
	register(mux, "/api/claim-document", func() (gatewayHandler, error) {
		h, err := handlers.NewClaimDocumentHandler()
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	})

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	port := getEnvOrDefault("PORT", "8080")
	addr := fmt.Sprintf("0.0.0.0:%s", port)

	log.Printf("Healthcare Claims Engine API Server")
	log.Printf("Listening on http://localhost:%s", port)
	log.Printf("Health: http://localhost:%s/health", port)
	log.Println("")

	// Start server (this blocks until error)
	log.Printf("Starting HTTP server on %s...", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// register wires a Lambda handler constructor onto the mux. Construction
// failures (missing env vars, unreachable database) disable the route but
// keep the rest of the server running.
func register(mux *http.ServeMux, path string, construct func() (gatewayHandler, error)) {
	handle, err := construct()
	if err != nil {
		log.Printf("Warning: route %s disabled: %v", path, err)
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Route unavailable: "+err.Error(), http.StatusServiceUnavailable)
		})
		return
	}

	mux.HandleFunc(path, adapt(handle))
}

// adapt converts an http.Request into an API Gateway proxy event, invokes the
// Lambda handler, and writes the proxy response back to the client.
func adapt(handle gatewayHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read body", http.StatusInternalServerError)
			return
		}
		defer r.Body.Close()

		headers := make(map[string]string, len(r.Header))
		for name := range r.Header {
			headers[name] = r.Header.Get(name)
		}

		query := make(map[string]string)
		for name, values := range r.URL.Query() {
			if len(values) > 0 {
				query[name] = values[0]
			}
		}

		request := events.APIGatewayProxyRequest{
			HTTPMethod:            r.Method,
			Path:                  r.URL.Path,
			Headers:               headers,
			QueryStringParameters: query,
			Body:                  string(body),
		}

		response, err := handle(r.Context(), request)
		if err != nil {
			log.Printf("Handler error on %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		for name, value := range response.Headers {
			w.Header().Set(name, value)
		}
		w.WriteHeader(response.StatusCode)
		if _, err := io.WriteString(w, response.Body); err != nil {
			log.Printf("Failed to write response: %v", err)
		}
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
