package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/inkwell-sh/inkwell/pkg/config"
	"github.com/inkwell-sh/inkwell/pkg/log"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inkwellctl",
	Short: "Inkwell multi-blog publishing server",
	Long: `inkwellctl manages the Inkwell publishing server: run the API, migrate
the database, manage authors, seed content and inspect configuration.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		log.Setup(cfg.LogLevel, cfg.LogFormat)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
