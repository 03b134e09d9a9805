package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpattn/sfs/internal/config"
	"github.com/rpattn/sfs/internal/repository"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate searchable entities and view declarations",
	Long: `Load the views file, resolve every searchable entity dependency and
construct each view without connecting to a database.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	settings, logger, err := loadSettings()
	if err != nil {
		return err
	}
	vf, err := config.LoadViews(settings.ViewsFile)
	if err != nil {
		return err
	}
	if err := checkViews(settings, vf); err != nil {
		return err
	}
	logger.Info("views file is valid", "views", len(vf.Views), "entities", len(vf.Entities))
	fmt.Fprintf(cmd.OutOrStdout(), "%d views, %d entities: ok\n", len(vf.Views), len(vf.Entities))
	return nil
}

// checkViews joins every unresolved dependency with the first view that fails
// to build.
func checkViews(settings config.Settings, vf *config.ViewsFile) error {
	_, errs := searchCompiler(settings, vf)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	store := repository.NewMemoryStore(vf.Schema())
	if _, err := buildViews(settings, vf, store, nil, nil); err != nil {
		return err
	}
	return nil
}
