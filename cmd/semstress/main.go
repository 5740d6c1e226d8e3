package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/notorious-go/semaphorus/internal/stress"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitHash   = "unset"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "semstress",
		Short: "Contention stress driver for the guarded semaphore",
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("semstress version %s\nbuild time: %s\nhash: %s\n",
				version, buildTime, gitHash)
		},
	})

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a contention scenario",
		Run: func(cmd *cobra.Command, args []string) {
			configPath, _ := cmd.Flags().GetString("config")
			runScenario(configPath)
		},
	}

	runCmd.Flags().StringP("config", "c", "semstress.yml", "Path to scenario file")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runScenario(cfgPath string) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := stress.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("failed to load scenario: %s", err)
	}

	logger, err := stress.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to build logger: %s", err)
	}
	defer logger.Sync() //nolint:errcheck

	if _, err := stress.NewRunner(cfg, logger).Run(ctx); err != nil {
		log.Fatalf("scenario failed: %s", err)
	}
}
