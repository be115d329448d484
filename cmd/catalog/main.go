package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/config"
	"github.com/Mustafaelfangary/Altavidatours-sub004/pkg/logger"
)

const appName = "travel-catalog"

var (
	cfg *config.Config
	log zerolog.Logger
)

// rootCmd loads configuration and the process logger for every subcommand.
var rootCmd = &cobra.Command{
	Use:           "catalog",
	Short:         "Travel catalog admin dashboard and public content site",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Context())
		if err != nil {
			return err
		}
		log = logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  cfg.Development(),
			Service: appName,
			Output:  os.Stderr,
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, localesCmd, userCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "catalog: %v\n", err)
		os.Exit(1)
	}
}
