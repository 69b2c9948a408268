// Admin Create User Lambda entry point
package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"healthcare-claims-engine/internal/handlers"
	"healthcare-claims-engine/internal/utils"
)

func main() {
	// Initialize logger
	_ = utils.InitLogger("info")
	defer utils.Sync()

	// Create handler
	handler, err := handlers.NewAdminCreateUserHandler()
	if err != nil {
		panic("Failed to create handler: " + err.Error())
	}

	// Start Lambda
	lambda.Start(handler.Handle)
}
