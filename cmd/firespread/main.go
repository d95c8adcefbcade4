// Command firespread answers fire spread queries from the command line using
// the same configuration and engine as the API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/fire-spread-service/internal/config"
	"github.com/couchcryptid/fire-spread-service/internal/observability"
	"github.com/couchcryptid/fire-spread-service/internal/service"
)

var (
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "firespread",
	Short:         "Extract geocoded burned pixels from Cell2Fire simulation results",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log engine diagnostics at debug level")
}

// openService builds the engine. Logs follow LOG_LEVEL and LOG_FORMAT but go
// to stderr so stdout stays parseable.
func openService(ctx context.Context) (*service.Service, error) {
	if verbose {
		cfg.LogLevel = "debug"
	}
	logger := observability.NewStderrLogger(cfg)
	return service.Build(ctx, cfg, logger, observability.NewMetrics())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
