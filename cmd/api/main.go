package main

import (
	"log"

	"exam-backend/internal/bootstrap"
	"exam-backend/internal/shared/config"
	"exam-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer func() {
		if app.DB != nil {
			_ = app.DB.Close()
		}
	}()

	addr := server.Addr(app.Config.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
