package main

import (
	"log"

	"connectgate/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		log.Fatalf("failed to create application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
