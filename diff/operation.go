package diff

import (
	"github.com/ridoystarlord/migrato/schema"
	"github.com/ridoystarlord/migrato/typemap"
)

type OperationType string

const (
	AlterDatabaseCharset    OperationType = "ALTER_DATABASE_CHARSET"
	AlterDatabaseCollation  OperationType = "ALTER_DATABASE_COLLATION"
	DeclareTable            OperationType = "DECLARE_TABLE"
	CreateTable             OperationType = "CREATE_TABLE"
	SaveTable               OperationType = "SAVE_TABLE"
	DropTable               OperationType = "DROP_TABLE"
	SetTableOption          OperationType = "SET_TABLE_OPTION"
	AddColumn               OperationType = "ADD_COLUMN"
	ChangeColumn            OperationType = "CHANGE_COLUMN"
	RemoveColumn            OperationType = "REMOVE_COLUMN"
	AddIndex                OperationType = "ADD_INDEX"
	RemoveIndex             OperationType = "REMOVE_INDEX"
	AddForeignKey           OperationType = "ADD_FOREIGN_KEY"
	RemoveForeignKey        OperationType = "REMOVE_FOREIGN_KEY"
	ToggleReferentialChecks OperationType = "TOGGLE_REFERENTIAL_CHECKS"
)

// TableOption is a table property changed through a raw ALTER TABLE.
type TableOption string

const (
	OptionEngine    TableOption = "ENGINE"
	OptionCharset   TableOption = "CHARSET"
	OptionCollation TableOption = "COLLATE"
	OptionComment   TableOption = "COMMENT"
	OptionRowFormat TableOption = "ROW_FORMAT"
)

// Operation is one migration action. It carries everything needed to render
// it without looking at either snapshot again.
type Operation struct {
	Type       OperationType
	TableName  string
	ColumnName string             // for ADD/CHANGE/REMOVE_COLUMN
	ColumnType string             // portable type name for ADD/CHANGE_COLUMN
	Attrs      typemap.Attrs      // column, index, foreign key or table options
	Columns    []string           // for ADD_INDEX
	IndexName  string             // for ADD/REMOVE_INDEX
	ForeignKey *schema.ForeignKey // for ADD/REMOVE_FOREIGN_KEY
	Option     TableOption        // for SET_TABLE_OPTION
	Value      string             // charset, collation or option value
	Enabled    bool               // for TOGGLE_REFERENTIAL_CHECKS
}

func alterDatabaseOp(t OperationType, value string) Operation {
	return Operation{Type: t, Value: value}
}

func declareTableOp(tbl *schema.Table, opts typemap.Options) Operation {
	return Operation{
		Type:      DeclareTable,
		TableName: tbl.Name,
		Attrs:     typemap.TableOptions(tbl, opts),
	}
}

func setTableOptionOp(table string, option TableOption, value string) Operation {
	return Operation{Type: SetTableOption, TableName: table, Option: option, Value: value}
}

func addColumnOp(tbl *schema.Table, col *schema.Column, opts typemap.Options) Operation {
	return Operation{
		Type:       AddColumn,
		TableName:  tbl.Name,
		ColumnName: col.Name,
		ColumnType: typemap.MapType(col).Name(),
		Attrs:      typemap.ColumnAttributes(col, tbl, opts),
	}
}

func changeColumnOp(tbl *schema.Table, col *schema.Column, opts typemap.Options) Operation {
	op := addColumnOp(tbl, col, opts)
	op.Type = ChangeColumn
	return op
}

func removeColumnOp(table, column string) Operation {
	return Operation{Type: RemoveColumn, TableName: table, ColumnName: column}
}

func addIndexOp(tbl *schema.Table, name string) Operation {
	entries := tbl.IndexColumns(name)
	return Operation{
		Type:      AddIndex,
		TableName: tbl.Name,
		IndexName: name,
		Columns:   typemap.IndexColumnNames(entries),
		Attrs:     typemap.IndexAttributes(name, entries),
	}
}

func removeIndexOp(table, name string) Operation {
	return Operation{Type: RemoveIndex, TableName: table, IndexName: name}
}

func addForeignKeyOp(table string, fk *schema.ForeignKey) Operation {
	copied := *fk
	return Operation{
		Type:       AddForeignKey,
		TableName:  table,
		ForeignKey: &copied,
		Attrs:      typemap.ForeignKeyAttributes(fk),
	}
}

func removeForeignKeyOp(table string, fk *schema.ForeignKey) Operation {
	copied := *fk
	return Operation{Type: RemoveForeignKey, TableName: table, ForeignKey: &copied}
}

func toggleReferentialChecksOp(enabled bool) Operation {
	return Operation{Type: ToggleReferentialChecks, Enabled: enabled}
}
