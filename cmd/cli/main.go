package main

import (
	"context"
	"log"
	"os"

	"github.com/deuceleague/deucecli/internal/buildinfo"
	"github.com/deuceleague/deucecli/internal/client/cli"
	"github.com/deuceleague/deucecli/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
