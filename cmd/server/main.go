package main

import (
	"log"

	"github.com/mahinrabby10101/farm-backend/internal/app"
	"github.com/mahinrabby10101/farm-backend/internal/app/config"
)

func main() {
	cfg := config.MustLoad()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	application.Run()
}
