package main

import (
	"log"

	"estate-agency/internal"
)

func main() {
	generator, err := internal.NewGeneratorApp()
	if err != nil {
		log.Fatalf("Failed to initialize generator: %v", err)
	}

	if err := generator.Run(); err != nil {
		log.Fatalf("Generator run failed: %v", err)
	}
}
