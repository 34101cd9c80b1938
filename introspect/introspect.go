package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ridoystarlord/migrato/schema"
)

// Querier is the subset of *sql.DB used for introspection.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// IntrospectionError reports a failed metadata query. Introspection never
// returns a partial snapshot.
type IntrospectionError struct {
	Operation string
	Table     string
	Statement string
	Err       error
}

func (e *IntrospectionError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("introspecting %s of table %s: %v", e.Operation, e.Table, e.Err)
	}
	return fmt.Sprintf("introspecting %s: %v", e.Operation, e.Err)
}

func (e *IntrospectionError) Unwrap() error { return e.Err }

var errNoDatabase = errors.New("no database selected")

// Introspector reads the structure of the current MySQL database.
type Introspector struct {
	db          Querier
	schemaName  string
	foreignKeys bool
	logger      hclog.Logger
}

// Option configures an Introspector.
type Option func(*Introspector)

// WithForeignKeys controls whether foreign keys are queried. When disabled the
// tables' ForeignKeys stay nil.
func WithForeignKeys(enabled bool) Option {
	return func(i *Introspector) { i.foreignKeys = enabled }
}

// WithSchema introspects the named schema instead of DATABASE().
func WithSchema(name string) Option {
	return func(i *Introspector) { i.schemaName = name }
}

func WithLogger(logger hclog.Logger) Option {
	return func(i *Introspector) { i.logger = logger.Named("introspect") }
}

// New returns an Introspector with foreign keys enabled.
func New(db Querier, opts ...Option) *Introspector {
	i := &Introspector{
		db:          db,
		foreignKeys: true,
		logger:      hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

const currentDatabaseQuery = `SELECT DATABASE()`

const databaseQuery = `
	SELECT default_character_set_name, default_collation_name
	FROM information_schema.schemata
	WHERE schema_name = ?`

const tablesQuery = `
	SELECT
		t.table_name,
		COALESCE(t.engine, ''),
		COALESCE(t.table_comment, ''),
		COALESCE(t.table_collation, ''),
		COALESCE(ccsa.character_set_name, ''),
		COALESCE(t.row_format, '')
	FROM information_schema.tables t
	LEFT JOIN information_schema.collation_character_set_applicability ccsa
		ON ccsa.collation_name = t.table_collation
	WHERE t.table_schema = ? AND t.table_type = 'BASE TABLE'
	ORDER BY t.table_name`

const columnsQuery = `
	SELECT
		column_name,
		column_type,
		data_type,
		is_nullable,
		column_default,
		extra,
		numeric_precision,
		numeric_scale,
		character_maximum_length,
		character_set_name,
		collation_name,
		column_comment,
		ordinal_position,
		column_key
	FROM information_schema.columns
	WHERE table_schema = ? AND table_name = ?
	ORDER BY ordinal_position`

// Cardinality is left out on purpose: it changes between runs.
const indexesQuery = `
	SELECT
		index_name,
		column_name,
		seq_in_index,
		non_unique,
		index_type,
		sub_part
	FROM information_schema.statistics
	WHERE table_schema = ? AND table_name = ?
	ORDER BY index_name, seq_in_index`

const foreignKeysQuery = `
	SELECT
		kcu.constraint_name,
		kcu.column_name,
		kcu.referenced_table_name,
		kcu.referenced_column_name,
		rc.update_rule,
		rc.delete_rule
	FROM information_schema.key_column_usage kcu
	JOIN information_schema.referential_constraints rc
		ON rc.constraint_schema = kcu.constraint_schema
		AND rc.constraint_name = kcu.constraint_name
		AND rc.table_name = kcu.table_name
	WHERE kcu.table_schema = ?
		AND kcu.table_name = ?
		AND kcu.referenced_table_name IS NOT NULL
	ORDER BY kcu.constraint_name, kcu.ordinal_position`

// Snapshot introspects the whole database.
func (i *Introspector) Snapshot(ctx context.Context) (*schema.Snapshot, error) {
	db, err := i.FetchDatabaseMetadata(ctx)
	if err != nil {
		return nil, err
	}

	tables, err := i.FetchTables(ctx)
	if err != nil {
		return nil, err
	}

	s := schema.New()
	s.Database = db
	for _, tbl := range tables {
		if tbl.Columns, err = i.FetchColumns(ctx, tbl.Name); err != nil {
			return nil, err
		}
		if tbl.Indexes, err = i.FetchIndexes(ctx, tbl.Name); err != nil {
			return nil, err
		}
		if i.foreignKeys {
			if tbl.ForeignKeys, err = i.FetchForeignKeys(ctx, tbl.Name); err != nil {
				return nil, err
			}
		}
		s.Tables[tbl.Name] = tbl
	}

	i.logger.Debug("introspected database", "database", db.Name, "tables", len(s.Tables))
	return s, nil
}

// FetchDatabaseMetadata returns the name and defaults of the current database.
func (i *Introspector) FetchDatabaseMetadata(ctx context.Context) (schema.Database, error) {
	name, err := i.schema(ctx)
	if err != nil {
		return schema.Database{}, err
	}

	db := schema.Database{Name: name}
	err = i.db.QueryRowContext(ctx, databaseQuery, name).Scan(&db.CharacterSet, &db.Collation)
	if err != nil {
		return schema.Database{}, &IntrospectionError{Operation: "database defaults", Statement: databaseQuery, Err: err}
	}
	return db, nil
}

// FetchTables returns all base tables without their members. Views are excluded.
func (i *Introspector) FetchTables(ctx context.Context) ([]*schema.Table, error) {
	var tables []*schema.Table
	err := i.query(ctx, "tables", "", tablesQuery, func(rows *sql.Rows) error {
		tbl := schema.NewTable("")
		if err := rows.Scan(&tbl.Name, &tbl.Engine, &tbl.Comment, &tbl.Collation, &tbl.CharacterSet, &tbl.RowFormat); err != nil {
			return err
		}
		tables = append(tables, tbl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// FetchColumns returns the columns of table keyed by name.
func (i *Introspector) FetchColumns(ctx context.Context, table string) (map[string]*schema.Column, error) {
	columns := map[string]*schema.Column{}
	err := i.query(ctx, "columns", table, columnsQuery, func(rows *sql.Rows) error {
		var (
			col                         schema.Column
			nullable                    string
			def, charset, collation     sql.NullString
			precision, scale, maxLength sql.NullInt64
		)
		if err := rows.Scan(
			&col.Name,
			&col.Type,
			&col.DataType,
			&nullable,
			&def,
			&col.Extra,
			&precision,
			&scale,
			&maxLength,
			&charset,
			&collation,
			&col.Comment,
			&col.Position,
			&col.Key,
		); err != nil {
			return err
		}
		col.Nullable = strings.EqualFold(nullable, "YES")
		col.Default = nullString(def)
		col.Precision = nullInt(precision)
		col.Scale = nullInt(scale)
		col.CharacterMaxLength = nullInt(maxLength)
		col.CharacterSet = nullString(charset)
		col.Collation = nullString(collation)
		columns[col.Name] = &col
		return nil
	}, table)
	if err != nil {
		return nil, err
	}
	return columns, nil
}

// FetchIndexes returns the indexes of table, one entry per indexed column in
// index order.
func (i *Introspector) FetchIndexes(ctx context.Context, table string) (map[string][]schema.IndexEntry, error) {
	indexes := map[string][]schema.IndexEntry{}
	err := i.query(ctx, "indexes", table, indexesQuery, func(rows *sql.Rows) error {
		var (
			e         schema.IndexEntry
			column    sql.NullString
			nonUnique int64
			subPart   sql.NullInt64
		)
		if err := rows.Scan(&e.Name, &column, &e.Sequence, &nonUnique, &e.Kind, &subPart); err != nil {
			return err
		}
		if !column.Valid {
			i.logger.Debug("skipping functional index part", "table", table, "index", e.Name)
			return nil
		}
		e.Column = column.String
		e.Unique = nonUnique == 0
		e.SubPart = nullInt(subPart)
		indexes[e.Name] = append(indexes[e.Name], e)
		return nil
	}, table)
	if err != nil {
		return nil, err
	}
	return indexes, nil
}

// FetchForeignKeys returns the constraints of table keyed by constraint name.
// The result is never nil, so "no constraints" stays distinguishable from
// "not queried".
func (i *Introspector) FetchForeignKeys(ctx context.Context, table string) (map[string]*schema.ForeignKey, error) {
	fks := map[string]*schema.ForeignKey{}
	err := i.query(ctx, "foreign keys", table, foreignKeysQuery, func(rows *sql.Rows) error {
		var fk schema.ForeignKey
		if err := rows.Scan(&fk.Name, &fk.Column, &fk.ReferencedTable, &fk.ReferencedColumn, &fk.UpdateRule, &fk.DeleteRule); err != nil {
			return err
		}
		if _, ok := fks[fk.Name]; ok {
			i.logger.Warn("only the first column of a composite foreign key is kept", "table", table, "constraint", fk.Name, "column", fk.Column)
			return nil
		}
		fks[fk.Name] = &fk
		return nil
	}, table)
	if err != nil {
		return nil, err
	}
	return fks, nil
}

// schema returns the introspected schema name, asking the server once when
// none was configured.
func (i *Introspector) schema(ctx context.Context) (string, error) {
	if i.schemaName != "" {
		return i.schemaName, nil
	}
	var current sql.NullString
	if err := i.db.QueryRowContext(ctx, currentDatabaseQuery).Scan(&current); err != nil {
		return "", &IntrospectionError{Operation: "current database", Statement: currentDatabaseQuery, Err: err}
	}
	if !current.Valid || current.String == "" {
		return "", &IntrospectionError{Operation: "current database", Statement: currentDatabaseQuery, Err: errNoDatabase}
	}
	i.schemaName = current.String
	return i.schemaName, nil
}

// query runs stmt for table with the schema name prepended to args.
func (i *Introspector) query(ctx context.Context, op, table, stmt string, scan func(*sql.Rows) error, args ...any) error {
	fail := func(err error) error {
		return &IntrospectionError{Operation: op, Table: table, Statement: stmt, Err: err}
	}

	name, err := i.schema(ctx)
	if err != nil {
		return err
	}
	rows, err := i.db.QueryContext(ctx, stmt, append([]any{name}, args...)...)
	if err != nil {
		return fail(err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fail(err)
		}
	}
	if err := rows.Err(); err != nil {
		return fail(err)
	}
	return nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
