package generator

import "github.com/ridoystarlord/migrato/typemap"

// Vocabulary names the calls and constants of a target migration framework.
// Swapping it is all it takes to render for a different framework.
type Vocabulary struct {
	Imports    []string
	BaseClass  string
	EntryPoint string

	Table            string
	AddColumn        string
	ChangeColumn     string
	RemoveColumn     string
	AddIndex         string
	RemoveIndex      string
	AddForeignKey    string
	RemoveForeignKey string
	Create           string
	Save             string
	Drop             string
	Execute          string

	DisableChecks string
	EnableChecks  string

	SizeConstants map[typemap.SizeConstant]string
	FileExtension string
}

// Phinx is the default vocabulary.
var Phinx = Vocabulary{
	Imports: []string{
		`Phinx\Db\Adapter\MysqlAdapter`,
		`Phinx\Migration\AbstractMigration`,
	},
	BaseClass:  "AbstractMigration",
	EntryPoint: "change",

	Table:            "table",
	AddColumn:        "addColumn",
	ChangeColumn:     "changeColumn",
	RemoveColumn:     "removeColumn",
	AddIndex:         "addIndex",
	RemoveIndex:      "removeIndexByName",
	AddForeignKey:    "addForeignKey",
	RemoveForeignKey: "dropForeignKey",
	Create:           "create",
	Save:             "save",
	Drop:             "drop",
	Execute:          "execute",

	DisableChecks: "SET unique_checks=0; SET foreign_key_checks=0;",
	EnableChecks:  "SET unique_checks=1; SET foreign_key_checks=1;",

	SizeConstants: map[typemap.SizeConstant]string{
		typemap.IntTiny:     "MysqlAdapter::INT_TINY",
		typemap.IntSmall:    "MysqlAdapter::INT_SMALL",
		typemap.IntMedium:   "MysqlAdapter::INT_MEDIUM",
		typemap.IntRegular:  "MysqlAdapter::INT_REGULAR",
		typemap.IntBig:      "MysqlAdapter::INT_BIG",
		typemap.TextTiny:    "MysqlAdapter::TEXT_TINY",
		typemap.TextMedium:  "MysqlAdapter::TEXT_MEDIUM",
		typemap.TextLong:    "MysqlAdapter::TEXT_LONG",
		typemap.BlobTiny:    "MysqlAdapter::BLOB_TINY",
		typemap.BlobRegular: "MysqlAdapter::BLOB_REGULAR",
		typemap.BlobMedium:  "MysqlAdapter::BLOB_MEDIUM",
		typemap.BlobLong:    "MysqlAdapter::BLOB_LONG",
		typemap.First:       "MysqlAdapter::FIRST",
	},
	FileExtension: ".php",
}

func (v Vocabulary) sizeConstant(c typemap.SizeConstant) string {
	if name, ok := v.SizeConstants[c]; ok {
		return name
	}
	return string(c)
}
