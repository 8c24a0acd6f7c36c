package main

import (
	"context"
	"log"

	"github.com/veriscan/deepfake-detection-service/internal/app/bootstrap"
)

func main() {
	ctx := context.Background()
	runtime, err := bootstrap.NewRuntime(ctx, "configs/default.yaml")
	if err != nil {
		log.Fatalf("bootstrap server runtime: %v", err)
	}
	if err := runtime.RunServer(ctx); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
