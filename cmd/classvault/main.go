package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/edkeeper/classvault/internal/buildinfo"
	"github.com/edkeeper/classvault/internal/cli"
	"github.com/edkeeper/classvault/internal/config"
	"github.com/edkeeper/classvault/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
