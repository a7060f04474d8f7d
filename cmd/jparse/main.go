package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	app := &app{}

	rootCmd := &cobra.Command{
		Use:               "jparse",
		Short:             "A Java parser with completion, selection and diagnostics",
		SilenceUsage:      true,
		PersistentPreRunE: app.setup,
	}
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "configuration file (default .jparse.yaml)")
	rootCmd.PersistentFlags().CountVarP(&app.verbose, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().StringVar(&app.color, "color", "", "color problems: auto, always or never")

	rootCmd.AddCommand(newParseCmd(app))
	rootCmd.AddCommand(newCompleteCmd(app))
	rootCmd.AddCommand(newSelectCmd(app))
	rootCmd.AddCommand(newCheckCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newLSPCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
