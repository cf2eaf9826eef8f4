package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/inttest/packages/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <directory>...",
	Short: "List fixtures and their message types",
	Long: `List the fixtures found under directories, with the message type each
one exercises.

Examples:
  inttest list ./packages/integrations/`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
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

	results, _ := loadFiles(files)
	output.New(cfg.Output, cmd.OutOrStdout(), cfg.GetVerbose(), cfg.GetNoColor()).FormatList(results)
	return nil
}
