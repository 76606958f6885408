package main

import (
	"fmt"
	"os"

	"github.com/fgeck/grisbi/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the directive file and list resolved targets",
	Long: `Validate the directive file and list the directories a backup run would
archive, without reading a passphrase or producing any archives. Folder
directives are expanded against the current filesystem state, so the listing
matches what backup would do right now.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("Config: %s\n", path)
	fmt.Printf("Directories to back up (%d):\n", len(targets))
	for _, target := range targets {
		marker := ""
		if info, err := os.Stat(target.SourceDir); err != nil || !info.IsDir() {
			marker = "  (missing)"
		}
		fmt.Printf("  %s%s\n", target.SourceDir, marker)
	}
	return nil
}
