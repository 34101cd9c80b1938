package diff

import (
	"github.com/hashicorp/go-hclog"

	"github.com/ridoystarlord/migrato/schema"
	"github.com/ridoystarlord/migrato/typemap"
)

// DefaultMigrationTable is the bookkeeping table of the migration runner.
const DefaultMigrationTable = "phinxlog"

// Options controls operation generation.
type Options struct {
	// ForeignKeys enables foreign key diffing and the referential check toggles around the changes.
	ForeignKeys bool
	// MigrationTable is never diffed.
	MigrationTable string
	TypeMap        typemap.Options
	Logger         hclog.Logger
}

// DefaultOptions returns options with foreign keys disabled.
func DefaultOptions() Options {
	return Options{
		MigrationTable: DefaultMigrationTable,
		TypeMap:        typemap.DefaultOptions(),
	}
}

func (o Options) logger() hclog.Logger {
	if o.Logger == nil {
		return hclog.NewNullLogger()
	}
	return o.Logger.Named("diff")
}

// DiffSchemas compares the new snapshot with the old one and returns the
// ordered operations that turn old into new. Equal snapshots give no operations.
func DiffSchemas(newS, oldS *schema.Snapshot, opts Options) []Operation {
	logger := opts.logger()
	if newS == nil {
		newS = schema.New()
	}
	if oldS == nil {
		oldS = schema.New()
	}
	if opts.MigrationTable == "" {
		opts.MigrationTable = DefaultMigrationTable
	}

	var ops []Operation
	ops = append(ops, databaseOps(newS, oldS)...)

	for _, name := range newS.TableNames() {
		if name == opts.MigrationTable {
			continue
		}
		tableOps := diffTable(newS.Table(name), oldS.Table(name), opts)
		if len(tableOps) > 0 {
			logger.Debug("table changed", "table", name, "operations", len(tableOps))
		}
		ops = append(ops, tableOps...)
	}

	for _, name := range oldS.TableNames() {
		if name == opts.MigrationTable || newS.Table(name) != nil {
			continue
		}
		logger.Debug("table dropped", "table", name)
		ops = append(ops, Operation{Type: DropTable, TableName: name})
	}

	if len(ops) == 0 {
		return nil
	}
	if opts.ForeignKeys {
		ops = append([]Operation{toggleReferentialChecksOp(false)}, ops...)
		ops = append(ops, toggleReferentialChecksOp(true))
	}
	return ops
}

func databaseOps(newS, oldS *schema.Snapshot) []Operation {
	forward := Forward(TreeOf(newS), TreeOf(oldS)).Sub("database")

	var ops []Operation
	if forward.Has("character_set") && newS.Database.CharacterSet != "" {
		ops = append(ops, alterDatabaseOp(AlterDatabaseCharset, newS.Database.CharacterSet))
	}
	if forward.Has("collation") && newS.Database.Collation != "" {
		ops = append(ops, alterDatabaseOp(AlterDatabaseCollation, newS.Database.Collation))
	}
	return ops
}

// comparable strips what must not count as a structural change: column key
// roles, ordinal positions, and foreign keys when they are not diffed.
// Column order is compared on its own by movedColumns.
func comparable(t Tree, opts Options) Tree {
	if len(t) == 0 {
		return t
	}
	out := t.Without("columns")
	columns := Tree{}
	for name, c := range t.Sub("columns") {
		if ct, ok := c.(Tree); ok {
			columns[name] = ct.Without("key", "position")
		}
	}
	out["columns"] = columns
	if !opts.ForeignKeys {
		delete(out, "foreign_keys")
	}
	return out
}

func diffTable(newT, oldT *schema.Table, opts Options) []Operation {
	newTree := comparable(TableTree(newT), opts)
	oldTree := comparable(TableTree(oldT), opts)
	forward := Forward(newTree, oldTree)
	reverse := Reverse(newTree, oldTree)
	moved := movedColumns(newT, oldT)
	if len(forward) == 0 && len(reverse) == 0 && len(moved) == 0 {
		return nil
	}

	var ops []Operation
	if oldT != nil {
		ops = append(ops, tableOptionOps(newT, forward.Sub("table"))...)
	}
	ops = append(ops, declareTableOp(newT, opts.TypeMap))
	ops = append(ops, columnOps(newT, oldT, forward, moved, opts)...)
	ops = append(ops, indexOps(newT, oldT, forward, reverse)...)
	if opts.ForeignKeys {
		ops = append(ops, foreignKeyOps(newT, oldT, forward, reverse)...)
	}
	if oldT == nil {
		ops = append(ops, Operation{Type: CreateTable, TableName: newT.Name})
	} else {
		ops = append(ops, Operation{Type: SaveTable, TableName: newT.Name})
	}
	return ops
}

func tableOptionOps(tbl *schema.Table, changed Tree) []Operation {
	if len(changed) == 0 {
		return nil
	}
	var ops []Operation
	if changed.Has("engine") && tbl.Engine != "" {
		ops = append(ops, setTableOptionOp(tbl.Name, OptionEngine, tbl.Engine))
	}
	if changed.Has("character_set") && tbl.CharacterSet != "" {
		ops = append(ops, setTableOptionOp(tbl.Name, OptionCharset, tbl.CharacterSet))
	}
	if changed.Has("collation") && tbl.Collation != "" {
		ops = append(ops, setTableOptionOp(tbl.Name, OptionCollation, tbl.Collation))
	}
	if changed.Has("comment") {
		ops = append(ops, setTableOptionOp(tbl.Name, OptionComment, tbl.Comment))
	}
	if changed.Has("row_format") && tbl.RowFormat != "" {
		ops = append(ops, setTableOptionOp(tbl.Name, OptionRowFormat, tbl.RowFormat))
	}
	return ops
}
