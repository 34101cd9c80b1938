package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/migrato/typemap"
)

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	prev := AppFs
	AppFs = afero.NewMemMapFs()
	t.Cleanup(func() { AppFs = prev })
	return AppFs
}

func TestLoadDefaults(t *testing.T) {
	useMemFs(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MIGRATO_DSN", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "schema.json", cfg.SchemaFile)
	assert.Equal(t, "db/migrations", cfg.MigrationsDir)
	assert.Equal(t, "phinxlog", cfg.MigrationTable)
	assert.False(t, cfg.ForeignKeys)
	assert.Equal(t, typemap.DefaultIntWidths(), cfg.IntDefaultWidths)
	assert.EqualValues(t, 10, cfg.DecimalDefaultPrecision)
	assert.Equal(t, "InnoDB", cfg.DefaultEngine)
	assert.Empty(t, cfg.DSN)
}

func TestLoadFile(t *testing.T) {
	fs := useMemFs(t)
	t.Setenv("MIGRATO_DSN", "")
	t.Setenv("DATABASE_URL", "")
	content := `schema_file: db/schema.yaml
migrations_dir: migrations
foreign_keys: true
int_default_widths:
  int: 10
  bigint: 20
default_encoding: utf8mb4
`
	require.NoError(t, afero.WriteFile(fs, "project/migrato.yaml", []byte(content), 0644))

	cfg, err := Load("project/migrato.yaml")
	require.NoError(t, err)

	assert.Equal(t, "db/schema.yaml", cfg.SchemaFile)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.True(t, cfg.ForeignKeys)
	assert.Equal(t, map[string]int64{"int": 10, "bigint": 20}, cfg.IntDefaultWidths)
	assert.Equal(t, "utf8mb4", cfg.DefaultEncoding)
	assert.Equal(t, "utf8_unicode_ci", cfg.DefaultCollation)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	useMemFs(t)
	_, err := Load("nope.yaml")
	assert.Error(t, err)
}

func TestLoadEnvironment(t *testing.T) {
	useMemFs(t)

	t.Run("database url", func(t *testing.T) {
		t.Setenv("MIGRATO_DSN", "")
		t.Setenv("DATABASE_URL", "mysql://root@localhost/app")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "mysql://root@localhost/app", cfg.DSN)
	})

	t.Run("prefixed variables win", func(t *testing.T) {
		t.Setenv("MIGRATO_DSN", "root@tcp(db:3306)/app")
		t.Setenv("DATABASE_URL", "mysql://root@localhost/other")
		t.Setenv("MIGRATO_FOREIGN_KEYS", "true")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "root@tcp(db:3306)/app", cfg.DSN)
		assert.True(t, cfg.ForeignKeys)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	useMemFs(t)
	t.Setenv("MIGRATO_DSN", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load("")
	require.NoError(t, err)
	cfg.DSN = "secret"
	cfg.MigrationsDir = "database/migrations"
	cfg.MarkMigration = true

	require.NoError(t, Save("conf/migrato.yaml", cfg))

	loaded, err := Load("conf/migrato.yaml")
	require.NoError(t, err)
	assert.Empty(t, loaded.DSN)
	assert.Equal(t, "database/migrations", loaded.MigrationsDir)
	assert.True(t, loaded.MarkMigration)
	assert.Equal(t, cfg.IntDefaultWidths, loaded.IntDefaultWidths)
}

func TestOptions(t *testing.T) {
	cfg := &Config{ForeignKeys: true, MigrationTable: "log", DefaultEngine: "MyISAM"}
	opts := cfg.DiffOptions(nil)
	assert.True(t, opts.ForeignKeys)
	assert.Equal(t, "log", opts.MigrationTable)
	assert.Equal(t, "MyISAM", opts.TypeMap.DefaultEngine)
}
