package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, cleanup, err := InitApp(ctx)
	if err != nil {
		log.Fatalf("init app failed: %v", err)
	}
	defer cleanup()
	defer app.Shutdown()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("app run failed: %v", err)
	}
}
