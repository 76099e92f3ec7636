package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "walletledger-cli",
		Short:         "WalletLedger CLI tool",
		Long:          `A command line interface for operating the WalletLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&baseURL, "url", envOr("LEDGER_URL", "http://localhost:8080"), "Base URL of the WalletLedger API")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("LEDGER_TOKEN"), "Bearer token sent with API requests")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	root.AddCommand(
		tokenCmd(),
		reconcileCmd(),
		adminCmd(),
		migrateCmd(),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
