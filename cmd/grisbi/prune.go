package main

import (
	"fmt"
	"strconv"

	"github.com/fgeck/grisbi/internal/models"
	"github.com/fgeck/grisbi/internal/services/prune"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune <days>",
	Short: "Delete archives in the current directory older than <days> days",
	Long: `Delete .tar.gz.age archives in the current directory whose embedded
timestamp is older than <days> days. Files whose names cannot be parsed are
skipped, never deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, args []string) error {
	days, err := strconv.Atoi(args[0])
	if err != nil || days <= 0 {
		err := fmt.Errorf("%w: %q", models.ErrInvalidDays, args[0])
		log.Error().Err(err).Msg("invalid prune age")
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	svc := prune.New(log.Logger)
	if _, err := svc.Prune(ctx, ".", days); err != nil {
		log.Error().Err(err).Msg("prune failed")
		return err
	}
	return nil
}
