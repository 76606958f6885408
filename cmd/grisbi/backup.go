package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgeck/grisbi/internal/config"
	"github.com/fgeck/grisbi/internal/passphrase"
	"github.com/fgeck/grisbi/internal/services/backup"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create one encrypted archive per configured directory",
	Long: `Create one encrypted archive per configured directory:
1. Parse the directive file and resolve backup targets
2. Read the passphrase (AGE_PASSPHRASE, pipe, or interactive prompt)
3. For each target, write <name>-<timestamp>.tar.gz.age to the current directory

All archives of one run share the same timestamp. Targets whose source
directory does not exist are skipped with a warning.`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func runBackup(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		log.Error().Err(err).Msg("cannot resolve config path")
		return err
	}

	parser := config.NewParser(log.Logger)
	targets, err := parser.LoadFile(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("failed to load config")
		return err
	}

	log.Info().Str("config", path).Int("targets", len(targets)).Msg("configuration loaded")

	pass, err := passphrase.NewSource().Read(true)
	if err != nil {
		log.Error().Err(err).Msg("failed to read passphrase")
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	svc := backup.New(log.Logger)
	if _, err := svc.Run(ctx, targets, pass); err != nil {
		log.Error().Err(err).Msg("backup failed")
		return err
	}
	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	return ctx, cancel
}
