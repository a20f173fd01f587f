package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/go-scripts/topmovies/internal/app"
	"github.com/go-scripts/topmovies/internal/config"
)

func main() {
	var cli config.CLI
	kong.Parse(&cli,
		kong.Name("topmovies"),
		kong.Description("Crawl the IMDb Top 250 chart and print each movie as it is processed."),
		kong.UsageOnError(),
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           cli.Level(),
		Prefix:          "topmovies",
	})
	log.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, &cli, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", "err", err)
	}

	a.Run(ctx)
}
