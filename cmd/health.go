package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/migrato/runner"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database connectivity",
	Long: `Check if the database is accessible and responsive.

Examples:
  migrato health                    # Check default database connection
  migrato health --timeout 10s      # Set custom timeout
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := checkDatabaseHealth(); err != nil {
			fmt.Printf("❌ Database health check failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Database is healthy and accessible")
	},
}

var healthTimeout time.Duration

func init() {
	healthCmd.Flags().DurationVarP(&healthTimeout, "timeout", "t", 5*time.Second, "Timeout for health check")
}

func checkDatabaseHealth() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	db, err := connect(ctx)
	if err != nil {
		return err
	}

	var version string
	if err := db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		return fmt.Errorf("failed to query server version: %w", err)
	}
	fmt.Println("🐬 MySQL server", version)

	table := appConfig.MigrationTable
	exists, err := runner.TableExists(ctx, db, table)
	if err != nil {
		return err
	}
	if !exists {
		fmt.Printf("⚠️  Database is accessible but %s table not found\n", table)
		fmt.Println("   It is created by the migration runner or by 'migrato generate --mark-migration'")
		return nil
	}

	applied, err := runner.AppliedVersions(ctx, db, table)
	if err != nil {
		return err
	}
	fmt.Printf("📊 Found %d applied migrations\n", len(applied))
	return nil
}
