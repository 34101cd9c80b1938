package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/migrato/config"
	"github.com/ridoystarlord/migrato/database"
	"github.com/ridoystarlord/migrato/introspect"
	"github.com/ridoystarlord/migrato/utils"
)

var (
	cfgFile string
	verbose bool

	appConfig *config.Config
	logger    hclog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "migrato",
	Short: "Generate Phinx migrations from the difference between a MySQL database and its last snapshot",
	Long: `migrato compares the live MySQL schema with a baseline snapshot and
writes the changes as a Phinx migration class.

Examples:

  migrato init
  migrato diff --visual
  migrato generate --name AddUsersTable
  migrato status
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := hclog.Warn
		if verbose {
			level = hclog.Debug
		}
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   "migrato",
			Level:  level,
			Output: os.Stderr,
		})

		utils.LoadEnv(config.AppFs, logger)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default searches ./migrato.yaml, ~/migrato.yaml, ~/.config/migrato/migrato.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(docsCmd)
}

func connect(ctx context.Context) (*sql.DB, error) {
	db, err := database.GetDB(ctx, appConfig.DSN)
	if err != nil {
		return nil, err
	}
	logger.Debug("connected to database")
	return db, nil
}

func newIntrospector(db *sql.DB, foreignKeys bool) *introspect.Introspector {
	return introspect.New(db,
		introspect.WithForeignKeys(foreignKeys),
		introspect.WithLogger(logger),
	)
}
