package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/migrato/schema"
)

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

func TestMapType(t *testing.T) {
	tests := []struct {
		name     string
		col      schema.Column
		wantTag  Tag
		wantName string
	}{
		{"tinyint(1) is boolean", schema.Column{Type: "tinyint(1)", DataType: "tinyint"}, Boolean, "boolean"},
		{"unsigned tinyint(1) is boolean", schema.Column{Type: "tinyint(1) unsigned", DataType: "tinyint"}, Boolean, "boolean"},
		{"tinyint(4) is integer", schema.Column{Type: "tinyint(4)", DataType: "tinyint"}, Integer, "integer"},
		{"int unsigned", schema.Column{Type: "int(10) unsigned", DataType: "int"}, Integer, "integer"},
		{"bigint", schema.Column{Type: "bigint(20)", DataType: "bigint"}, BigInteger, "biginteger"},
		{"varchar", schema.Column{Type: "varchar(255)", DataType: "varchar"}, String, "string"},
		{"enum", schema.Column{Type: "enum('a','b','c')", DataType: "enum"}, Enum, "enum"},
		{"decimal", schema.Column{Type: "decimal(10,2)", DataType: "decimal"}, Decimal, "decimal"},
		{"longtext", schema.Column{Type: "longtext", DataType: "longtext"}, Text, "text"},
		{"double passes through", schema.Column{Type: "double", DataType: "double"}, Unresolved, "double"},
		{"bit passes through", schema.Column{Type: "bit(1)", DataType: "bit"}, Unresolved, "bit"},
		{"year passes through", schema.Column{Type: "year(4)", DataType: "year"}, Unresolved, "year"},
		{"data type derived from column type", schema.Column{Type: "VARBINARY(16)"}, Varbinary, "varbinary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapType(&tt.col)
			assert.Equal(t, tt.wantTag, got.Tag)
			assert.Equal(t, tt.wantName, got.Name())
		})
	}
}

func TestMapTypeIsDeterministic(t *testing.T) {
	col := schema.Column{Name: "n", Type: "int(10) unsigned", DataType: "int"}
	tbl := schema.NewTable("t")
	tbl.Columns["n"] = &col

	first := ColumnAttributes(&col, tbl, DefaultOptions())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ColumnAttributes(&col, tbl, DefaultOptions()))
	}
}

func TestLimit(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name string
		col  schema.Column
		want any
		ok   bool
	}{
		{"int default width uses constant", schema.Column{Type: "int(11)", DataType: "int"}, IntRegular, true},
		{"int without width uses constant", schema.Column{Type: "int", DataType: "int"}, IntRegular, true},
		{"int custom width kept", schema.Column{Type: "int(5)", DataType: "int"}, int64(5), true},
		{"bigint default width", schema.Column{Type: "bigint(20) unsigned", DataType: "bigint"}, IntBig, true},
		{"smallint", schema.Column{Type: "smallint(6)", DataType: "smallint"}, IntSmall, true},
		{"smallint custom width kept", schema.Column{Type: "smallint(3)", DataType: "smallint"}, int64(3), true},
		{"unsigned int default width", schema.Column{Type: "int(10) unsigned", DataType: "int"}, IntRegular, true},
		{"unsigned int signed width kept", schema.Column{Type: "int(11) unsigned", DataType: "int"}, int64(11), true},
		{"unsigned tinyint default width", schema.Column{Type: "tinyint(3) unsigned", DataType: "tinyint"}, IntTiny, true},
		{"signed tinyint default width", schema.Column{Type: "tinyint(4)", DataType: "tinyint"}, IntTiny, true},
		{"mediumtext", schema.Column{Type: "mediumtext", DataType: "mediumtext"}, TextMedium, true},
		{"blob", schema.Column{Type: "blob", DataType: "blob"}, BlobRegular, true},
		{"varchar length", schema.Column{Type: "varchar(255)", DataType: "varchar"}, int64(255), true},
		{"length from metadata", schema.Column{Type: "varchar", DataType: "varchar", CharacterMaxLength: intPtr(64)}, int64(64), true},
		{"text has no limit", schema.Column{Type: "text", DataType: "text", CharacterMaxLength: intPtr(65535)}, nil, false},
		{"boolean has no limit", schema.Column{Type: "tinyint(1)", DataType: "tinyint"}, nil, false},
		{"decimal has no limit", schema.Column{Type: "decimal(10,2)", DataType: "decimal"}, nil, false},
		{"enum has no limit", schema.Column{Type: "enum('a')", DataType: "enum", CharacterMaxLength: intPtr(1)}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Limit(&tt.col, opts)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLimitConfigurableDefaults(t *testing.T) {
	opts := DefaultOptions()
	opts.IntDefaultWidths = map[string]int64{"int": 10}

	got, ok := Limit(&schema.Column{Type: "int(10)", DataType: "int"}, opts)
	require.True(t, ok)
	assert.Equal(t, IntRegular, got)

	got, ok = Limit(&schema.Column{Type: "int(11)", DataType: "int"}, opts)
	require.True(t, ok)
	assert.Equal(t, int64(11), got)

	got, ok = Limit(&schema.Column{Type: "int(10) unsigned", DataType: "int"}, opts)
	require.True(t, ok)
	assert.Equal(t, IntRegular, got, "unsigned falls back to the signed entry")
}

func TestColumnAttributes(t *testing.T) {
	tbl := schema.NewTable("users")
	tbl.CharacterSet = "utf8mb4"
	tbl.Collation = "utf8mb4_unicode_ci"
	tbl.Columns["id"] = &schema.Column{Name: "id", Type: "int(10) unsigned", DataType: "int", Extra: "auto_increment", Position: 1, Key: "PRI"}
	tbl.Columns["price"] = &schema.Column{Name: "price", Type: "decimal(10,2)", DataType: "decimal", Nullable: true, Precision: intPtr(10), Scale: intPtr(2), Position: 2}
	tbl.Columns["status"] = &schema.Column{Name: "status", Type: "enum('a','b','c')", DataType: "enum", Default: strPtr("a"), CharacterSet: strPtr("utf8mb4"), Collation: strPtr("utf8mb4_bin"), Position: 3}
	tbl.Columns["updated_at"] = &schema.Column{Name: "updated_at", Type: "timestamp", DataType: "timestamp", Default: strPtr("CURRENT_TIMESTAMP"), Extra: "DEFAULT_GENERATED on update CURRENT_TIMESTAMP", Comment: "touched", Position: 4}
	tbl.Columns["note"] = &schema.Column{Name: "note", Type: "varchar(64)", DataType: "varchar", Nullable: true, Default: strPtr("NULL"), CharacterSet: strPtr("latin1"), Collation: strPtr("latin1_swedish_ci"), Position: 5}

	opts := DefaultOptions()

	assert.Equal(t, Attrs{
		{Key: "null", Value: false},
		{Key: "limit", Value: IntRegular},
		{Key: "signed", Value: false},
		{Key: "identity", Value: true},
	}, ColumnAttributes(tbl.Columns["id"], tbl, opts))

	assert.Equal(t, Attrs{
		{Key: "null", Value: true},
		{Key: "precision", Value: int64(10)},
		{Key: "scale", Value: int64(2)},
		{Key: "after", Value: "id"},
	}, ColumnAttributes(tbl.Columns["price"], tbl, opts))

	assert.Equal(t, Attrs{
		{Key: "null", Value: false},
		{Key: "default", Value: "a"},
		{Key: "values", Value: []string{"a", "b", "c"}},
		{Key: "collation", Value: "utf8mb4_bin"},
		{Key: "after", Value: "price"},
	}, ColumnAttributes(tbl.Columns["status"], tbl, opts))

	assert.Equal(t, Attrs{
		{Key: "null", Value: false},
		{Key: "default", Value: "CURRENT_TIMESTAMP"},
		{Key: "comment", Value: "touched"},
		{Key: "update", Value: "CURRENT_TIMESTAMP"},
		{Key: "after", Value: "status"},
	}, ColumnAttributes(tbl.Columns["updated_at"], tbl, opts))

	assert.Equal(t, Attrs{
		{Key: "null", Value: true},
		{Key: "limit", Value: int64(64)},
		{Key: "encoding", Value: "latin1"},
		{Key: "collation", Value: "latin1_swedish_ci"},
		{Key: "after", Value: "updated_at"},
	}, ColumnAttributes(tbl.Columns["note"], tbl, opts))
}

func TestDecimalDefaultsOmitted(t *testing.T) {
	tbl := schema.NewTable("t")
	col := &schema.Column{Name: "amount", Type: "decimal(10,0)", DataType: "decimal", Precision: intPtr(10), Scale: intPtr(0), Position: 1}
	tbl.Columns["amount"] = col

	attrs := ColumnAttributes(col, tbl, DefaultOptions())
	_, ok := attrs.Get("precision")
	assert.False(t, ok)
	_, ok = attrs.Get("scale")
	assert.False(t, ok)
}

func TestDefaultValue(t *testing.T) {
	tests := []struct {
		name string
		def  *string
		want any
		ok   bool
	}{
		{"no default", nil, nil, false},
		{"textual NULL", strPtr("NULL"), nil, false},
		{"bit zero", strPtr("b'0'"), false, true},
		{"bit one", strPtr("b'1'"), true, true},
		{"string zero stays a string", strPtr("0"), "0", true},
		{"empty string", strPtr(""), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DefaultValue(&schema.Column{Default: tt.def})
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValues(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"enum('a','b','c')", []string{"a", "b", "c"}},
		{"set('read', 'write')", []string{"read", "write"}},
		{`enum('it\'s','x,y')`, []string{"it's", "x,y"}},
		{"enum('o''clock')", []string{"o'clock"}},
		{"enum('')", []string{""}},
		{"varchar(10)", []string{}},
		{"text", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValues(tt.in))
		})
	}
}

func TestIndexAttributes(t *testing.T) {
	single := []schema.IndexEntry{{Name: "idx_email", Column: "email", Sequence: 1, Unique: true, Kind: "BTREE", SubPart: intPtr(20)}}
	assert.Equal(t, Attrs{
		{Key: "name", Value: "idx_email"},
		{Key: "unique", Value: true},
		{Key: "limit", Value: int64(20)},
	}, IndexAttributes("idx_email", single))

	multi := []schema.IndexEntry{
		{Name: "ft", Column: "title", Sequence: 1, Kind: "FULLTEXT"},
		{Name: "ft", Column: "body", Sequence: 2, Kind: "FULLTEXT", SubPart: intPtr(100)},
	}
	assert.Equal(t, Attrs{
		{Key: "name", Value: "ft"},
		{Key: "type", Value: "fulltext"},
		{Key: "limit", Value: Attrs{{Key: "body", Value: int64(100)}}},
	}, IndexAttributes("ft", multi))
	assert.Equal(t, []string{"title", "body"}, IndexColumnNames(multi))
}

func TestForeignKeyAttributes(t *testing.T) {
	fk := &schema.ForeignKey{Name: "fk_user", Column: "user_id", ReferencedTable: "users", ReferencedColumn: "id", UpdateRule: "NO ACTION", DeleteRule: "SET NULL"}
	assert.Equal(t, Attrs{
		{Key: "constraint", Value: "fk_user"},
		{Key: "update", Value: "NO_ACTION"},
		{Key: "delete", Value: "SET_NULL"},
	}, ForeignKeyAttributes(fk))
}

func TestTableOptions(t *testing.T) {
	tbl := schema.NewTable("t")
	tbl.Columns["id"] = &schema.Column{Name: "id", Type: "int(11)", Key: "PRI", Position: 1}
	tbl.Columns["code"] = &schema.Column{Name: "code", Type: "int(11)", Key: "PRI", Position: 2}
	tbl.RowFormat = "dynamic"

	assert.Equal(t, Attrs{
		{Key: "id", Value: false},
		{Key: "primary_key", Value: []string{"id", "code"}},
		{Key: "engine", Value: "InnoDB"},
		{Key: "encoding", Value: "utf8"},
		{Key: "collation", Value: "utf8_unicode_ci"},
		{Key: "comment", Value: ""},
		{Key: "row_format", Value: "DYNAMIC"},
	}, TableOptions(tbl, DefaultOptions()))
}
