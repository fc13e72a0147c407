package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/infrastructure/blob"
	"github.com/oksasatya/pulse-backoffice/internal/infrastructure/memory"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
)

var (
	// Global flags
	latency     time.Duration
	failureRate float64
	asJSON      bool
	verbose     bool

	logger *logrus.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pulsectl",
	Short: "Console views over the PULSE back-office mock data",
	Long: `pulsectl loads the seeded back-office data set through the same
controllers the dashboard uses and prints the resulting views.

Every invocation starts from a fresh in-memory store, so mutations only
live for the duration of the command.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logger = helpers.NewLogger("pulsectl", "development", level)
		logger.SetOutput(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&latency, "latency", 0, "simulated backend latency per call")
	rootCmd.PersistentFlags().Float64Var(&failureRate, "failure-rate", 0, "probability [0,1] that a call fails transiently")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log controller activity to stderr")

	rootCmd.AddCommand(kycCmd, ddCmd, commsCmd, docsCmd, fundsCmd, usersCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newServices builds services over a freshly seeded store.
func newServices() *application.Services {
	store := memory.NewStore()
	memory.Seed(store, time.Now(), "")
	return application.NewServices(store.Repositories(), application.Deps{
		Blobs:   blob.NewMemory(),
		Latency: application.NewLatency(latency, failureRate),
		Logger:  logger,
	})
}
