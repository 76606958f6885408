package main

import (
	"github.com/fgeck/grisbi/internal/passphrase"
	"github.com/fgeck/grisbi/internal/services/restore"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <file.tar.gz.age>",
	Short: "Decrypt and extract an archive into the current directory",
	Long: `Decrypt an archive with the passphrase it was created with and extract
it into the current directory, recreating the directory tree exactly as it
was backed up.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	pass, err := passphrase.NewSource().Read(false)
	if err != nil {
		log.Error().Err(err).Msg("failed to read passphrase")
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	svc := restore.New(log.Logger)
	if err := svc.Restore(ctx, args[0], pass, "."); err != nil {
		log.Error().Err(err).Msg("restore failed")
		return err
	}
	return nil
}
