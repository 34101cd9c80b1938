package generator

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/ridoystarlord/migrato/diff"
	"github.com/ridoystarlord/migrato/loader"
	"github.com/ridoystarlord/migrato/runner"
	"github.com/ridoystarlord/migrato/schema"
	"github.com/ridoystarlord/migrato/validator"
)

// SnapshotSource produces the current schema, usually an *introspect.Introspector.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*schema.Snapshot, error)
}

// Status is the outcome of a generation run.
type Status int

const (
	StatusGenerated Status = iota
	StatusNoChanges
	StatusAborted
	StatusDryRun
)

func (s Status) String() string {
	switch s {
	case StatusGenerated:
		return "generated"
	case StatusNoChanges:
		return "no changes"
	case StatusAborted:
		return "aborted"
	case StatusDryRun:
		return "dry run"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// RunConfig holds everything a generation run needs.
type RunConfig struct {
	Source        SnapshotSource
	Fs            afero.Fs
	SchemaFile    string
	MigrationsDir string

	// Name is the explicit migration name. When empty and AskName is set the
	// user is asked, and an empty answer aborts the run.
	Name    string
	AskName func(suggested string) (string, error)
	// Confirm gates overwriting the baseline unless Overwrite is set.
	Confirm   func(question string) (bool, error)
	Overwrite bool
	DryRun    bool

	// MarkMigration records the new migration in the bookkeeping table of DB.
	MarkMigration bool
	DB            runner.DB

	Diff       diff.Options
	Vocabulary Vocabulary
	Logger     hclog.Logger
	Now        func() time.Time
}

// Result describes a finished run.
type Result struct {
	Status        Status
	Operations    []diff.Operation
	Name          string
	Path          string
	Content       string
	Version       int64
	BaselineSaved bool
	Marked        bool
	Warnings      []validator.ValidationError
}

// Run generates a migration from the difference between the live schema and
// the baseline file. The baseline is only replaced after the migration file
// has been written and the overwrite confirmed.
func Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("generate")
	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	vocab := cfg.Vocabulary
	if vocab.Table == "" {
		vocab = Phinx
	}
	start := now()

	newS, err := cfg.Source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	oldS, err := loader.LoadSnapshot(fs, cfg.SchemaFile)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	check := validator.ValidateSnapshot(newS)
	result.Warnings = slices.Concat(check.Errors, check.Warnings)
	for _, w := range result.Warnings {
		logger.Warn("schema problem", "table", w.Table, "column", w.Column, "index", w.Index, "message", w.Message)
	}

	opts := cfg.Diff
	if opts.Logger == nil {
		opts.Logger = logger
	}
	result.Operations = diff.DiffSchemas(newS, oldS, opts)
	if len(result.Operations) == 0 {
		logger.Info("no changes detected")
		result.Status = StatusNoChanges
		return result, nil
	}
	logger.Debug("operations generated", "count", len(result.Operations))

	input := cfg.Name
	if input == "" && cfg.AskName != nil {
		input, err = cfg.AskName(MigrationName("", start))
		if err != nil {
			return nil, fmt.Errorf("asking migration name: %w", err)
		}
		if input == "" {
			result.Status = StatusAborted
			return result, nil
		}
	}
	result.Name = MigrationName(input, start)
	if err := validator.ValidateMigrationName(result.Name); err != nil {
		return nil, err
	}

	result.Content = Render(result.Operations, result.Name, vocab)
	if cfg.DryRun {
		result.Status = StatusDryRun
		return result, nil
	}

	w := &Writer{Fs: fs, Dir: cfg.MigrationsDir, Extension: vocab.FileExtension}
	result.Path, err = w.Write(result.Name, result.Content, start)
	if err != nil {
		return nil, err
	}
	result.Version, _ = strconv.ParseInt(start.Format(VersionFormat), 10, 64)
	result.Status = StatusGenerated
	logger.Info("migration written", "path", result.Path)

	overwrite := cfg.Overwrite
	if !overwrite && cfg.Confirm != nil {
		overwrite, err = cfg.Confirm(fmt.Sprintf("Overwrite schema file %s?", cfg.SchemaFile))
		if err != nil {
			return result, fmt.Errorf("confirming baseline overwrite: %w", err)
		}
	}
	if overwrite {
		if err := loader.SaveSnapshot(fs, cfg.SchemaFile, newS); err != nil {
			return result, err
		}
		result.BaselineSaved = true
		logger.Debug("baseline saved", "path", cfg.SchemaFile)
	}

	if cfg.MarkMigration {
		if cfg.DB == nil {
			return result, fmt.Errorf("marking migration: no database connection")
		}
		table := opts.MigrationTable
		if table == "" {
			table = diff.DefaultMigrationTable
		}
		if err := runner.MarkMigrated(ctx, cfg.DB, table, result.Version, result.Name, start, now()); err != nil {
			return result, err
		}
		result.Marked = true
	}

	return result, nil
}
