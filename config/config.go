package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/ridoystarlord/migrato/diff"
	"github.com/ridoystarlord/migrato/typemap"
)

// AppFs is the filesystem every command reads and writes through.
var AppFs = afero.NewOsFs()

const (
	// FileName is the config file name without extension.
	FileName  = "migrato"
	envPrefix = "MIGRATO"
)

// Config holds the project settings.
type Config struct {
	DSN            string
	SchemaFile     string
	MigrationsDir  string
	MigrationTable string
	ForeignKeys    bool
	MarkMigration  bool
	Overwrite      bool

	IntDefaultWidths        map[string]int64
	DecimalDefaultPrecision int64
	DecimalDefaultScale     int64
	DefaultEngine           string
	DefaultEncoding         string
	DefaultCollation        string
}

func setDefaults(v *viper.Viper) {
	tm := typemap.DefaultOptions()

	v.SetDefault("schema_file", "schema.json")
	v.SetDefault("migrations_dir", filepath.Join("db", "migrations"))
	v.SetDefault("migration_table", diff.DefaultMigrationTable)
	v.SetDefault("foreign_keys", false)
	v.SetDefault("mark_migration", false)
	v.SetDefault("overwrite", false)
	v.SetDefault("int_default_widths", tm.IntDefaultWidths)
	v.SetDefault("decimal_default_precision", tm.DecimalDefaultPrecision)
	v.SetDefault("decimal_default_scale", tm.DecimalDefaultScale)
	v.SetDefault("default_engine", tm.DefaultEngine)
	v.SetDefault("default_encoding", tm.DefaultEncoding)
	v.SetDefault("default_collation", tm.DefaultCollation)
}

// Load reads the config file at path, or searches the working directory,
// the home directory and ~/.config/migrato for migrato.yaml when path is
// empty. A missing file in search mode is not an error. Environment
// variables prefixed with MIGRATO_ override the file, and DATABASE_URL is
// accepted for the connection string.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetFs(AppFs)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", FileName))
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("dsn", envPrefix+"_DSN", "DATABASE_URL"); err != nil {
		return nil, err
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		DSN:                     v.GetString("dsn"),
		SchemaFile:              v.GetString("schema_file"),
		MigrationsDir:           v.GetString("migrations_dir"),
		MigrationTable:          v.GetString("migration_table"),
		ForeignKeys:             v.GetBool("foreign_keys"),
		MarkMigration:           v.GetBool("mark_migration"),
		Overwrite:               v.GetBool("overwrite"),
		DecimalDefaultPrecision: v.GetInt64("decimal_default_precision"),
		DecimalDefaultScale:     v.GetInt64("decimal_default_scale"),
		DefaultEngine:           v.GetString("default_engine"),
		DefaultEncoding:         v.GetString("default_encoding"),
		DefaultCollation:        v.GetString("default_collation"),
	}
	if err := v.UnmarshalKey("int_default_widths", &cfg.IntDefaultWidths); err != nil {
		return nil, fmt.Errorf("reading int_default_widths: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path. The connection string is left out so secrets
// stay in the environment.
func Save(path string, cfg *Config) error {
	v := viper.New()
	v.SetFs(AppFs)

	v.Set("schema_file", cfg.SchemaFile)
	v.Set("migrations_dir", cfg.MigrationsDir)
	v.Set("migration_table", cfg.MigrationTable)
	v.Set("foreign_keys", cfg.ForeignKeys)
	v.Set("mark_migration", cfg.MarkMigration)
	v.Set("overwrite", cfg.Overwrite)
	v.Set("int_default_widths", cfg.IntDefaultWidths)
	v.Set("decimal_default_precision", cfg.DecimalDefaultPrecision)
	v.Set("decimal_default_scale", cfg.DecimalDefaultScale)
	v.Set("default_engine", cfg.DefaultEngine)
	v.Set("default_encoding", cfg.DefaultEncoding)
	v.Set("default_collation", cfg.DefaultCollation)

	if dir := filepath.Dir(path); dir != "." {
		if err := AppFs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return v.WriteConfigAs(path)
}

// TypeMap returns the type mapping defaults.
func (c *Config) TypeMap() typemap.Options {
	return typemap.Options{
		IntDefaultWidths:        c.IntDefaultWidths,
		DecimalDefaultPrecision: c.DecimalDefaultPrecision,
		DecimalDefaultScale:     c.DecimalDefaultScale,
		DefaultEngine:           c.DefaultEngine,
		DefaultEncoding:         c.DefaultEncoding,
		DefaultCollation:        c.DefaultCollation,
	}
}

// DiffOptions returns the options for operation generation.
func (c *Config) DiffOptions(logger hclog.Logger) diff.Options {
	return diff.Options{
		ForeignKeys:    c.ForeignKeys,
		MigrationTable: c.MigrationTable,
		TypeMap:        c.TypeMap(),
		Logger:         logger,
	}
}
