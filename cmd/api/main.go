package main

import (
	"context"
	"log"

	"github.com/shelfwise/rental-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("rental API exited: %v", err)
	}
}
