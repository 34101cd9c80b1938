package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/migrato/config"
	"github.com/ridoystarlord/migrato/diff"
	"github.com/ridoystarlord/migrato/generator"
	"github.com/ridoystarlord/migrato/loader"
)

var (
	diffVisual bool
	diffFile   string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show differences between the baseline and the database",
	Long: `Show the operations a migration generated now would contain.

Examples:
  migrato diff                    # Print the change() body that would be generated
  migrato diff --visual           # Show differences in tree format with colors
  migrato diff -f schema.yaml     # Use a custom baseline file
`,
	Run: func(cmd *cobra.Command, args []string) {
		baselineFile := appConfig.SchemaFile
		if diffFile != "" {
			baselineFile = diffFile
		}
		if cmd.Flags().Changed("foreign-keys") {
			appConfig.ForeignKeys = foreignKeys
		}
		ctx := context.Background()

		db, err := connect(ctx)
		if err != nil {
			fmt.Printf("❌ Error connecting to database: %v\n", err)
			os.Exit(1)
		}

		current, err := newIntrospector(db, appConfig.ForeignKeys).Snapshot(ctx)
		if err != nil {
			fmt.Printf("❌ Error introspecting database: %v\n", err)
			os.Exit(1)
		}

		baseline, err := loader.LoadSnapshot(config.AppFs, baselineFile)
		if err != nil {
			fmt.Printf("❌ Error loading baseline: %v\n", err)
			os.Exit(1)
		}

		operations := diff.DiffSchemas(current, baseline, appConfig.DiffOptions(logger))
		if len(operations) == 0 {
			fmt.Println("✅ No differences found between baseline and database")
			return
		}

		if diffVisual {
			showVisualDiff(operations)
		} else {
			fmt.Print(generator.RenderBody(operations, generator.Phinx))
		}
	},
}

func init() {
	diffCmd.Flags().BoolVar(&diffVisual, "visual", false, "Show differences in tree format with colors")
	diffCmd.Flags().StringVarP(&diffFile, "file", "f", "", "Baseline schema file")
	diffCmd.Flags().BoolVar(&foreignKeys, "foreign-keys", false, "Diff foreign key constraints")
}

func showVisualDiff(operations []diff.Operation) {
	fmt.Println("🌳 Schema Changes (Visual Diff)")
	fmt.Println(strings.Repeat("=", 50))

	showDatabaseChanges(operations)
	showTableChanges(operations)
	showMemberChanges(operations)
}

func showDatabaseChanges(operations []diff.Operation) {
	yellow := color.New(color.FgYellow, color.Bold)
	first := true
	for _, op := range operations {
		var label string
		switch op.Type {
		case diff.AlterDatabaseCharset:
			label = "CHARACTER SET"
		case diff.AlterDatabaseCollation:
			label = "COLLATION"
		default:
			continue
		}
		if first {
			fmt.Println("\n🗄️  Database:")
			first = false
		}
		yellow.Printf("  ⚡ %s → %s\n", label, op.Value)
	}
}

func showTableChanges(operations []diff.Operation) {
	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)

	fmt.Println("\n📋 Tables:")
	for _, op := range operations {
		switch op.Type {
		case diff.CreateTable:
			green.Printf("  ➕ CREATE %s\n", op.TableName)
		case diff.SaveTable:
			yellow.Printf("  ⚡ MODIFY %s\n", op.TableName)
		case diff.DropTable:
			red.Printf("  ❌ DROP %s\n", op.TableName)
		case diff.SetTableOption:
			yellow.Printf("  ⚙️  %s %s = %s\n", op.TableName, op.Option, op.Value)
		}
	}
}

func showMemberChanges(operations []diff.Operation) {
	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)

	// Group operations by table, keeping their order.
	var tables []string
	tableOps := make(map[string][]diff.Operation)
	for _, op := range operations {
		switch op.Type {
		case diff.AddColumn, diff.ChangeColumn, diff.RemoveColumn,
			diff.AddIndex, diff.RemoveIndex, diff.AddForeignKey, diff.RemoveForeignKey:
		default:
			continue
		}
		if _, seen := tableOps[op.TableName]; !seen {
			tables = append(tables, op.TableName)
		}
		tableOps[op.TableName] = append(tableOps[op.TableName], op)
	}
	if len(tables) == 0 {
		return
	}

	fmt.Println("\n📝 Columns, indexes and foreign keys:")
	for _, table := range tables {
		fmt.Printf("  📋 %s:\n", table)
		for _, op := range tableOps[table] {
			switch op.Type {
			case diff.AddColumn:
				green.Printf("    ➕ ADD COLUMN %s (%s)\n", op.ColumnName, op.ColumnType)
			case diff.ChangeColumn:
				blue.Printf("    🔄 CHANGE COLUMN %s (%s)\n", op.ColumnName, op.ColumnType)
			case diff.RemoveColumn:
				red.Printf("    ❌ REMOVE COLUMN %s\n", op.ColumnName)
			case diff.AddIndex:
				green.Printf("    ➕ ADD INDEX %s (%s)\n", op.IndexName, strings.Join(op.Columns, ", "))
			case diff.RemoveIndex:
				red.Printf("    ❌ REMOVE INDEX %s\n", op.IndexName)
			case diff.AddForeignKey:
				green.Printf("    🔗 ADD FOREIGN KEY %s: %s → %s.%s\n", op.ForeignKey.Name,
					op.ForeignKey.Column, op.ForeignKey.ReferencedTable, op.ForeignKey.ReferencedColumn)
			case diff.RemoveForeignKey:
				red.Printf("    🔗 REMOVE FOREIGN KEY %s\n", op.ForeignKey.Name)
			}
		}
	}
}
