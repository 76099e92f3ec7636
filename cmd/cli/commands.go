package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/auth"
	"github.com/iho/walletledger/internal/infrastructure/logger"
	"github.com/iho/walletledger/internal/infrastructure/postgres"
)

func tokenCmd() *cobra.Command {
	var (
		secret string
		userID string
		email  string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			r := domain.Role(role)
			if !r.IsValid() {
				return fmt.Errorf("invalid role %q", role)
			}
			if userID == "" {
				return fmt.Errorf("--user is required")
			}

			signed, err := auth.NewJWTManager(secret, ttl).GenerateWithTTL(&domain.User{ID: userID, Email: email, Role: r}, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
			return err
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
	cmd.Flags().StringVar(&userID, "user", "", "Subject user ID")
	cmd.Flags().StringVar(&email, "email", "", "Subject email")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "Role claim (user or admin)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Ledger reconciliation",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Recompute every wallet balance from the transaction log",
			RunE: func(cmd *cobra.Command, args []string) error {
				return getAndPrint(cmd, "/api/v1/admin/reconciliation")
			},
		},
		&cobra.Command{
			Use:   "last",
			Short: "Show the most recent reconciliation report",
			RunE: func(cmd *cobra.Command, args []string) error {
				return getAndPrint(cmd, "/api/v1/admin/reconciliation/last")
			},
		},
	)
	return cmd
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations",
	}

	cmd.AddCommand(
		resolveCmd("approve"),
		resolveCmd("decline"),
		&cobra.Command{
			Use:   "clear-deposits",
			Short: "Mark all uncleared deposits as cleared",
			RunE: func(cmd *cobra.Command, args []string) error {
				return postAndPrint(cmd, "/api/v1/admin/deposits/clear", nil)
			},
		},
		queueCmd("deposits"),
		queueCmd("withdrawals"),
		adjustCmd("credit"),
		adjustCmd("debit"),
	)
	return cmd
}

func resolveCmd(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <transaction-id>",
		Short: fmt.Sprintf("%s a pending transaction", action),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/admin/transactions/%s/%s", url.PathEscape(args[0]), action)
			return postAndPrint(cmd, path, nil)
		},
	}
}

func queueCmd(queue string) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   queue,
		Short: fmt.Sprintf("List pending %s", queue),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", fmt.Sprint(limit))
			q.Set("offset", fmt.Sprint(offset))
			return getAndPrint(cmd, "/api/v1/admin/"+queue+"?"+q.Encode())
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of items")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of items to skip")
	return cmd
}

type adjustBody struct {
	OwnerID     string          `json:"ownerId"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	StatType    string          `json:"statType,omitempty"`
	Description string          `json:"description,omitempty"`
}

func adjustCmd(direction string) *cobra.Command {
	var (
		body   adjustBody
		amount string
	)

	cmd := &cobra.Command{
		Use:   direction,
		Short: fmt.Sprintf("Apply a settled %s adjustment to a wallet", direction),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			if !a.IsPositive() {
				return fmt.Errorf("amount must be positive")
			}
			body.Amount = a
			return postAndPrint(cmd, "/api/v1/admin/wallets/"+direction, body)
		},
	}

	cmd.Flags().StringVar(&body.OwnerID, "owner", "", "Wallet owner ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to apply")
	cmd.Flags().StringVar(&body.Currency, "currency", "", "Wallet currency")
	cmd.Flags().StringVar(&body.StatType, "stat-type", string(domain.StatTypeBalance), "Balance statistic to adjust")
	cmd.Flags().StringVar(&body.Description, "description", "", "Adjustment note")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("currency")
	return cmd
}

func migrateCmd() *cobra.Command {
	var (
		databaseURL string
		path        string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&path, "path", envOr("MIGRATIONS_PATH", "internal/infrastructure/postgres/migrations"), "Migrations directory")

	run := func(fn func(string, string, zerolog.Logger) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			log := logger.NewWithWriter(logger.Config{Level: "info", Format: "console"}, cmd.ErrOrStderr())
			return fn(databaseURL, path, log)
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", RunE: run(postgres.RunMigrations)},
		&cobra.Command{Use: "down", Short: "Roll back all migrations", RunE: run(postgres.RunMigrationsDown)},
	)
	return cmd
}

func getAndPrint(cmd *cobra.Command, path string) error {
	data, err := newAPIClient().do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), data)
}

func postAndPrint(cmd *cobra.Command, path string, body any) error {
	data, err := newAPIClient().do(http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), data)
}
