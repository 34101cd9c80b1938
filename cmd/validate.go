package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/migrato/config"
	"github.com/ridoystarlord/migrato/loader"
	"github.com/ridoystarlord/migrato/schema"
	"github.com/ridoystarlord/migrato/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the baseline or the live schema",
	Long: `Check a schema for problems that would produce a broken migration:
identifier lengths, tables without columns or primary key, column types
without a portable equivalent, and index or foreign key references to
missing columns and tables.

Examples:
  migrato validate                    # Validate the baseline file
  migrato validate --live             # Validate the live database instead
  migrato validate --format json      # Output validation results as JSON
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateSchema(); err != nil {
			fmt.Printf("❌ Schema validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

var (
	validateSchemaFile string
	validateFormat     string
	validateLive       bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaFile, "schema", "s", "", "Baseline file to validate (default from config)")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
	validateCmd.Flags().BoolVar(&validateLive, "live", false, "Validate the live database schema")
}

func validateSchema() error {
	var (
		s   *schema.Snapshot
		err error
	)
	if validateLive {
		ctx := context.Background()
		db, err := connect(ctx)
		if err != nil {
			return err
		}
		s, err = newIntrospector(db, true).Snapshot(ctx)
		if err != nil {
			return err
		}
	} else {
		path := validateSchemaFile
		if path == "" {
			path = appConfig.SchemaFile
		}
		s, err = loader.LoadSnapshot(config.AppFs, path)
		if err != nil {
			return fmt.Errorf("failed to load schema: %w", err)
		}
	}

	result := validator.ValidateSnapshot(s)
	if validateFormat == "json" {
		return outputJSON(result)
	}
	return outputText(result)
}

func outputJSON(result *validator.ValidationResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *validator.ValidationResult) error {
	if result.Valid {
		color.Green("✅ Schema validation passed!")
	} else {
		color.Red("❌ Schema validation failed!")
	}

	printProblems("🔴 Errors", result.Errors)
	printProblems("🟡 Warnings", result.Warnings)
	printProblems("🔵 Info", result.Info)

	fmt.Printf("\n📊 Summary:\n")
	fmt.Printf("  • Errors: %d\n", len(result.Errors))
	fmt.Printf("  • Warnings: %d\n", len(result.Warnings))
	fmt.Printf("  • Info: %d\n", len(result.Info))

	if result.Valid {
		fmt.Printf("\n🎉 Your schema is valid and ready for migration generation!\n")
	} else {
		fmt.Printf("\n💡 Fix the errors above before generating migrations.\n")
	}
	return nil
}

func printProblems(title string, problems []validator.ValidationError) {
	if len(problems) == 0 {
		return
	}
	fmt.Printf("\n%s (%d):\n", title, len(problems))
	for i, p := range problems {
		fmt.Printf("  %d. ", i+1)
		if p.Table != "" {
			fmt.Printf("[%s]", p.Table)
		}
		if p.Column != "" {
			fmt.Printf(".%s", p.Column)
		}
		if p.Index != "" {
			fmt.Printf(" (index: %s)", p.Index)
		}
		fmt.Printf(": %s\n", p.Message)
	}
}
