package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/vancomm/minesweeper-api/internal/config"
	"github.com/vancomm/minesweeper-api/internal/database"
	"github.com/vancomm/minesweeper-api/internal/logging"
)

func main() {
	fs := pflag.NewFlagSet("migrator", pflag.ExitOnError)
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

	if c.Database == nil {
		logger.WithField("store", c.Store).Error("nothing to migrate, store is not postgres")
		os.Exit(1)
	}

	migrator, err := database.Migrate(c.Database.URL(), database.Migrations)
	if err != nil {
		logger.WithError(err).Error("failed to migrate db")
		os.Exit(1)
	}
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		logger.WithError(err).Error("failed to check migration version")
		return
	}
	logger.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
