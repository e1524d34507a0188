package main

import (
	"context"
	"log"

	"feedback-backend/internal/bootstrap"
	"feedback-backend/internal/shared/config"
	"feedback-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	ctx := context.Background()
	app.Dispatcher.Start(ctx)
	if err := app.Service.RequeuePending(ctx); err != nil {
		log.Printf("requeue pending: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
