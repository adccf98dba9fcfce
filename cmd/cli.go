package cmd

import (
	"fmt"
	"os"

	"github.com/habedi/suds/client"
	"github.com/habedi/suds/pkg/clierr"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the command tree and exits with the code of the error type.
func Execute() {
	a := &app{}
	rootCmd := createRootCmd(a)
	rootCmd.PersistentFlags().BoolP("help", "h", false, "Show help for a command")

	err := rootCmd.Execute()
	a.teardown()
	if err != nil {
		log.Error().Err(err).Msg("Command execution failed.")
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(clierr.Code(err))
	}
}

func createRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "suds",
		Short:         "Command-line admin client for the laundry service API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to a YAML config file (default: $SUDS_CONFIG)")
	pf.StringVar(&a.apiURL, "api-url", client.DefaultBaseURL, "Base URL of the laundry API")
	pf.StringVar(&a.dbPath, "db-path", "", "Path to the credential database")
	pf.DurationVar(&a.timeout, "timeout", 0, "HTTP timeout per request (e.g. 30s)")
	pf.Float64Var(&a.rateLimit, "rate-limit", 0, "Maximum API requests per second (0 disables the limit)")

	rootCmd.AddCommand(
		loginCmd(a),
		logoutCmd(a),
		registerCmd(a),
		statusCmd(a),
		clientsCmd(a),
		servicesCmd(a),
		ordersCmd(a),
		paymentsCmd(a),
		inventoryCmd(a),
		staffCmd(a),
		dashboardCmd(a),
		reportsCmd(a),
		versionCmd(),
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	return rootCmd
}
