package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/migrato/runner"
)

var (
	historyLimit    int
	historyDetailed bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the migration table history",
	Long: `Show the migrations recorded in the migration table, newest first.

Examples:
  migrato history                    # Show all migration history
  migrato history --limit 10         # Show last 10 migrations
  migrato history --detailed         # Show detailed information
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		db, err := connect(ctx)
		if err != nil {
			fmt.Printf("❌ Error connecting to database: %v\n", err)
			os.Exit(1)
		}

		exists, err := runner.TableExists(ctx, db, appConfig.MigrationTable)
		if err != nil {
			fmt.Printf("❌ Error getting migration history: %v\n", err)
			os.Exit(1)
		}
		if !exists {
			fmt.Println("📋 No migration history found")
			return
		}

		history, err := runner.History(ctx, db, appConfig.MigrationTable, historyLimit)
		if err != nil {
			fmt.Printf("❌ Error getting migration history: %v\n", err)
			os.Exit(1)
		}

		if len(history) == 0 {
			fmt.Println("📋 No migration history found")
			return
		}

		showMigrationHistory(history, historyDetailed)
	},
}

func showMigrationHistory(history []runner.MigrationRecord, detailed bool) {
	fmt.Println("📋 Migration History")
	fmt.Println(strings.Repeat("=", 60))

	if detailed {
		showDetailedHistory(history)
	} else {
		showSummaryHistory(history)
	}
}

func showDetailedHistory(history []runner.MigrationRecord) {
	yellow := color.New(color.FgYellow, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)
	cyan := color.New(color.FgCyan)

	for i, record := range history {
		fmt.Printf("\n%d. ", i+1)
		blue.Printf("%s\n", record.MigrationName)
		cyan.Printf("   🔢 Version: %d\n", record.Version)

		if !record.StartTime.IsZero() {
			cyan.Printf("   📅 Started: %s\n", record.StartTime.Format("2006-01-02 15:04:05"))
		}
		if d := record.ExecutionTime(); d > 0 {
			cyan.Printf("   ⏱️  Duration: %v\n", d)
		}
		if record.Breakpoint {
			yellow.Println("   🛑 Breakpoint set")
		}
	}
}

func showSummaryHistory(history []runner.MigrationRecord) {
	blue := color.New(color.FgBlue, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)

	fmt.Printf("%-4s %-16s %-32s %-12s %s\n", "ID", "Version", "Migration", "Duration", "Date")
	fmt.Println(strings.Repeat("-", 80))

	totalDuration := time.Duration(0)
	for i, record := range history {
		duration := "N/A"
		if d := record.ExecutionTime(); d > 0 {
			duration = d.String()
			totalDuration += d
		}

		migrationName := record.MigrationName
		if len(migrationName) > 30 {
			migrationName = migrationName[:27] + "..."
		}

		date := "N/A"
		if !record.StartTime.IsZero() {
			date = record.StartTime.Format("2006-01-02 15:04")
		}

		fmt.Printf("%-4d %-16d %-32s %-12s %s", i+1, record.Version, blue.Sprint(migrationName), duration, date)
		if record.Breakpoint {
			yellow.Print(" 🛑")
		}
		fmt.Println()
	}

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("📊 Summary: %d migrations\n", len(history))
	if totalDuration > 0 {
		fmt.Printf("⏱️  Total execution time: %v\n", totalDuration)
	}
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 0, "Limit number of records to show (0 = all)")
	historyCmd.Flags().BoolVarP(&historyDetailed, "detailed", "d", false, "Show detailed information")
}
