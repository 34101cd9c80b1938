package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/migrato/config"
	"github.com/ridoystarlord/migrato/loader"
)

var (
	initSnapshot bool
	initForce    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new migrato project",
	Long: `Write a migrato.yaml config file and create the migrations directory.

With --snapshot the current database is stored as the baseline, so the first
generated migration only contains changes made from now on. Without it the
first migration recreates the whole schema.

Examples:
  migrato init                    # Write migrato.yaml with the defaults
  migrato init --snapshot         # Also snapshot the current database
  migrato init --force            # Replace an existing migrato.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		path := cfgFile
		if path == "" {
			path = config.FileName + ".yaml"
		}

		exists, err := afero.Exists(config.AppFs, path)
		if err != nil {
			fmt.Println("❌ Checking config file:", err)
			os.Exit(1)
		}
		if exists && !initForce {
			fmt.Printf("❌ %s already exists!\n", path)
			return
		}

		if err := config.Save(path, appConfig); err != nil {
			fmt.Println("❌ Failed to write config:", err)
			os.Exit(1)
		}
		fmt.Println("✅ Config written:", path)

		if err := config.AppFs.MkdirAll(appConfig.MigrationsDir, 0755); err != nil {
			fmt.Println("❌ Failed to create migrations folder:", err)
			os.Exit(1)
		}
		fmt.Println("📁 Migrations directory:", appConfig.MigrationsDir)

		if initSnapshot {
			ctx := context.Background()
			db, err := connect(ctx)
			if err != nil {
				fmt.Println("❌ Connecting to database:", err)
				os.Exit(1)
			}
			current, err := newIntrospector(db, appConfig.ForeignKeys).Snapshot(ctx)
			if err != nil {
				fmt.Println("❌ Introspecting database:", err)
				os.Exit(1)
			}
			if err := loader.SaveSnapshot(config.AppFs, appConfig.SchemaFile, current); err != nil {
				fmt.Println("❌ Saving baseline:", err)
				os.Exit(1)
			}
			fmt.Printf("✅ Baseline written: %s (%d tables)\n", appConfig.SchemaFile, len(current.Tables))
		}

		fmt.Println("🔑 Set MIGRATO_DSN or DATABASE_URL (in .env or environment) to your MySQL connection")
		fmt.Println("🚀 Run 'migrato generate' to create your first migration")
	},
}

func init() {
	initCmd.Flags().BoolVar(&initSnapshot, "snapshot", false, "Store the current database as the baseline")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}
