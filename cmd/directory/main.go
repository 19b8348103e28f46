// Command directory serves the enterprise directory: identities, roles and
// scopes per tenant, session tokens, and the events that keep the other
// services in sync.
package main

import (
	"log"

	"github.com/openferp/directory/internal/directory/app"
)

func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
