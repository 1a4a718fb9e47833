package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/whisperapp/whisper/internal/buildinfo"
	"github.com/whisperapp/whisper/internal/cli"
	"github.com/whisperapp/whisper/internal/config"
	"github.com/whisperapp/whisper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	// optional .env for local development
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = zl.Sync() }()

	app, err := cli.NewApp(ctx, cfg, logging.NewZapLogger(zl))
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
