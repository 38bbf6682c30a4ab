package main

import (
	"context"

	"github.com/wayplan/wayplan/internal/client/cli"
	"github.com/wayplan/wayplan/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app := cli.NewApp(cfg)
	app.Run(ctx)

}
