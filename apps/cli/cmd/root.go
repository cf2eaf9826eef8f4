package cmd

import (
	"os"

	"github.com/abdul-hamid-achik/inttest/packages/core/config"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag      string
	fixturesDirFlag string
	outputFlag      string
	verboseFlag     bool
	noColorFlag     bool
)

var rootCmd = &cobra.Command{
	Use:   "inttest",
	Short: "Fixture tooling for analytics integration tests.",
	Long: `inttest validates and lists the JSON and YAML fixtures used by
integration tests written with the tester package, and can watch them
for changes while you edit.`,
	SilenceUsage: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&fixturesDirFlag, "fixtures-dir", "", "Name of fixture directories (default \"fixtures\")")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "Output format: console or json")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show mapped output for valid fixtures")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, &exitError{code: ExitConfigError, err: err}
	}

	overrides := &config.Config{
		FixturesDir: fixturesDirFlag,
		Output:      outputFlag,
	}
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		overrides.Verbose = config.BoolPtr(verboseFlag)
	}
	if flags.Changed("no-color") {
		overrides.NoColor = config.BoolPtr(noColorFlag)
	}
	return cfg.Merge(overrides), nil
}
