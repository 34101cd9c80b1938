package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/migrato/config"
	"github.com/ridoystarlord/migrato/generator"
)

var (
	migrationName     string
	schemaFile        string
	migrationsDir     string
	overwriteBaseline bool
	dryRunGenerate    bool
	foreignKeys       bool
	markMigration     bool
	noInteraction     bool
)

func init() {
	generateCmd.Flags().StringVarP(&migrationName, "name", "n", "", "Migration class name (prompted when omitted)")
	generateCmd.Flags().StringVarP(&schemaFile, "file", "f", "", "Baseline schema file (.json, .yaml or .yml)")
	generateCmd.Flags().StringVarP(&migrationsDir, "path", "p", "", "Directory migrations are written to")
	generateCmd.Flags().BoolVar(&overwriteBaseline, "overwrite", false, "Replace the baseline without asking")
	generateCmd.Flags().BoolVar(&dryRunGenerate, "dry-run", false, "Print the migration without writing files")
	generateCmd.Flags().BoolVar(&foreignKeys, "foreign-keys", false, "Diff foreign key constraints")
	generateCmd.Flags().BoolVar(&markMigration, "mark-migration", false, "Record the new migration as applied in the migration table")
	generateCmd.Flags().BoolVar(&noInteraction, "no-interaction", false, "Never prompt; use a timestamped name when --name is omitted")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a migration from database changes since the last snapshot",
	Long: `Generate a Phinx migration from the difference between the live database
and the baseline schema file, then replace the baseline with the current schema.

Examples:
  migrato generate                          # Prompt for a name and for the baseline overwrite
  migrato generate --name AddUsersTable     # Explicit class name
  migrato generate --dry-run                # Print the migration only
  migrato generate --overwrite --no-interaction
  migrato generate --foreign-keys --mark-migration
`,
	Run: func(cmd *cobra.Command, args []string) {
		applyGenerateFlags(cmd, appConfig)
		ctx := context.Background()

		db, err := connect(ctx)
		if err != nil {
			fmt.Println("❌ Connecting to database:", err)
			os.Exit(1)
		}

		runCfg := generator.RunConfig{
			Source:        newIntrospector(db, appConfig.ForeignKeys),
			Fs:            config.AppFs,
			SchemaFile:    appConfig.SchemaFile,
			MigrationsDir: appConfig.MigrationsDir,
			Name:          migrationName,
			Overwrite:     appConfig.Overwrite,
			DryRun:        dryRunGenerate,
			MarkMigration: appConfig.MarkMigration,
			DB:            db,
			Diff:          appConfig.DiffOptions(logger),
			Vocabulary:    generator.Phinx,
			Logger:        logger,
		}
		if !noInteraction {
			runCfg.AskName = askMigrationName
			runCfg.Confirm = confirm
		}

		result, err := generator.Run(ctx, runCfg)
		if err != nil {
			if result != nil && result.Path != "" {
				fmt.Println("✅ Migration generated:", result.Path)
			}
			fmt.Println("❌ Generating migration:", err)
			os.Exit(1)
		}

		for _, w := range result.Warnings {
			color.Yellow("⚠️  [%s] %s", w.Table, w.Message)
		}

		switch result.Status {
		case generator.StatusNoChanges:
			fmt.Println("✅ No changes detected.")
		case generator.StatusAborted:
			fmt.Println("⚠️  No migration name given, aborted.")
		case generator.StatusDryRun:
			fmt.Println("\n================ DRY RUN: Migration Preview ================")
			fmt.Print(result.Content)
			fmt.Println("============================================================")
			fmt.Printf("(Dry run only. %d operations, no files were written.)\n", len(result.Operations))
		case generator.StatusGenerated:
			fmt.Println("✅ Migration generated:", result.Path)
			if result.BaselineSaved {
				fmt.Println("✅ Baseline updated:", appConfig.SchemaFile)
			} else {
				fmt.Println("ℹ️  Baseline left unchanged:", appConfig.SchemaFile)
			}
			if result.Marked {
				fmt.Printf("✅ Marked version %d as migrated in %s\n", result.Version, appConfig.MigrationTable)
			}
		}
	},
}

// applyGenerateFlags lets explicitly set flags override the config file.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.SchemaFile = schemaFile
	}
	if flags.Changed("path") {
		cfg.MigrationsDir = migrationsDir
	}
	if flags.Changed("overwrite") {
		cfg.Overwrite = overwriteBaseline
	}
	if flags.Changed("foreign-keys") {
		cfg.ForeignKeys = foreignKeys
	}
	if flags.Changed("mark-migration") {
		cfg.MarkMigration = markMigration
	}
}

func askMigrationName(suggested string) (string, error) {
	var name string
	prompt := &survey.Input{
		Message: "Migration name:",
		Help:    fmt.Sprintf("CamelCase class name, e.g. %s. Leave empty to abort.", suggested),
	}
	if err := survey.AskOne(prompt, &name); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", nil
		}
		return "", err
	}
	return name, nil
}

func confirm(question string) (bool, error) {
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: question, Default: false}, &ok); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
