package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/wayplan/wayplan/internal/server"
	"github.com/wayplan/wayplan/internal/server/config"
)

func main() {

	// A missing .env file is fine, the environment may be set directly.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
