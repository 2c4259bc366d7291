package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/vancomm/minesweeper-api/internal/app"
	"github.com/vancomm/minesweeper-api/internal/config"
	"github.com/vancomm/minesweeper-api/internal/logging"
)

func main() {
	fs := pflag.NewFlagSet("server", pflag.ExitOnError)
	config.Flags(fs)
	fs.Parse(os.Args[1:])

	c, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	logger.WithFields(logrus.Fields(c.Fields())).Debug("config loaded")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.New(logger, c).Start(ctx); err != nil {
		logger.WithError(err).Error("failed to start server")
		os.Exit(1)
	}
}
