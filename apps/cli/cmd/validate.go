package cmd

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/inttest/packages/output"
	"github.com/spf13/cobra"
)

var errValidation = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>...",
	Short: "Validate fixture files",
	Long: `Validate fixture files against the fixture schema: an input message
with a known type, an expected output and optional settings.

Examples:
  inttest validate ./packages/integrations/posthog
  inttest validate fixtures/track.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	files, err := collectFiles(args, cfg.FixturesDir)
	if err != nil {
		return &exitError{code: ExitUsageError, err: err}
	}
	if len(files) == 0 {
		return &exitError{code: ExitUsageError, err: fmt.Errorf("no fixture files found")}
	}

	formatter := output.New(cfg.Output, cmd.OutOrStdout(), cfg.GetVerbose(), cfg.GetNoColor())
	results, duration := loadFiles(files)
	formatter.FormatResults(results, duration)

	for _, r := range results {
		if !r.Passed() {
			return &exitError{code: ExitValidationError, err: errValidation}
		}
	}
	return nil
}
