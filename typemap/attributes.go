package typemap

import (
	"strings"

	"github.com/ridoystarlord/migrato/schema"
)

// Attr is a single option passed to a migration builder call.
type Attr struct {
	Key   string
	Value any
}

// Attrs is an order-preserving option set. Values are string, int64, bool,
// nil, []string, SizeConstant or a nested Attrs.
type Attrs []Attr

// Get returns the value stored under key.
func (a Attrs) Get(key string) (any, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of key or appends it.
func (a *Attrs) Set(key string, value any) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attr{Key: key, Value: value})
}

// Options holds the engine-version sensitive defaults used while mapping.
type Options struct {
	// IntDefaultWidths are the display widths the engine assigns when none is
	// declared, keyed by integer type with an optional " unsigned" suffix.
	IntDefaultWidths        map[string]int64
	DecimalDefaultPrecision int64
	DecimalDefaultScale     int64
	DefaultEngine           string
	DefaultEncoding         string
	DefaultCollation        string
}

// DefaultOptions matches MySQL 5.7.
func DefaultOptions() Options {
	return Options{
		IntDefaultWidths:        DefaultIntWidths(),
		DecimalDefaultPrecision: 10,
		DecimalDefaultScale:     0,
		DefaultEngine:           "InnoDB",
		DefaultEncoding:         "utf8",
		DefaultCollation:        "utf8_unicode_ci",
	}
}

// DefaultIntWidths returns the display widths MySQL 5.7 gives integer types
// declared without one. Unsigned types are one digit narrower, except bigint.
func DefaultIntWidths() map[string]int64 {
	return map[string]int64{
		"tinyint":            4,
		"tinyint unsigned":   3,
		"smallint":           6,
		"smallint unsigned":  5,
		"mediumint":          9,
		"mediumint unsigned": 8,
		"int":                11,
		"int unsigned":       10,
		"bigint":             20,
		"bigint unsigned":    20,
	}
}

// ColumnAttributes builds the option set of a column as declared in tbl.
func ColumnAttributes(col *schema.Column, tbl *schema.Table, opts Options) Attrs {
	ct := MapType(col)
	extra := strings.ToLower(col.Extra)
	attrs := Attrs{{Key: "null", Value: col.Nullable}}

	if def, ok := DefaultValue(col); ok {
		attrs.Set("default", def)
	}
	if limit, ok := Limit(col, opts); ok {
		attrs.Set("limit", limit)
	}
	if ct.Tag == Decimal && col.Precision != nil && col.Scale != nil {
		if *col.Precision != opts.DecimalDefaultPrecision || *col.Scale != opts.DecimalDefaultScale {
			attrs.Set("precision", *col.Precision)
			attrs.Set("scale", *col.Scale)
		}
	}
	if ct.Tag != Boolean && !Signed(col) {
		attrs.Set("signed", false)
	}
	if strings.Contains(extra, "auto_increment") {
		attrs.Set("identity", true)
	}
	if ct.Tag == Enum || ct.Tag == Set {
		attrs.Set("values", ParseValues(col.Type))
	}
	if ct.Tag.IsCharacter() {
		if col.CharacterSet != nil && *col.CharacterSet != tbl.CharacterSet {
			attrs.Set("encoding", *col.CharacterSet)
		}
		if col.Collation != nil && *col.Collation != tbl.Collation {
			attrs.Set("collation", *col.Collation)
		}
	}
	if col.Comment != "" {
		attrs.Set("comment", col.Comment)
	}
	if strings.Contains(extra, "on update current_timestamp") {
		attrs.Set("update", "CURRENT_TIMESTAMP")
	}
	if prev := tbl.PrecedingColumn(col.Name); prev != "" {
		attrs.Set("after", prev)
	}
	return attrs
}

// DefaultValue normalises a column default. The literal string "NULL" is
// treated as no default and bit literals become booleans.
func DefaultValue(col *schema.Column) (any, bool) {
	if col.Default == nil {
		return nil, false
	}
	switch v := *col.Default; v {
	case "NULL":
		return nil, false
	case "b'0'":
		return false, true
	case "b'1'":
		return true, true
	default:
		return v, true
	}
}

// ParseValues extracts the member list of an enum or set type such as
// "enum('a','b\'c')".
func ParseValues(columnType string) []string {
	start := strings.Index(columnType, "(")
	end := strings.LastIndex(columnType, ")")
	if start < 0 || end <= start {
		return nil
	}
	body := columnType[start+1 : end]

	values := []string{}
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if !inQuote {
			if ch == '\'' {
				inQuote = true
				cur.Reset()
			}
			continue
		}
		switch {
		case ch == '\\' && i+1 < len(body):
			i++
			cur.WriteByte(body[i])
		case ch == '\'' && i+1 < len(body) && body[i+1] == '\'':
			i++
			cur.WriteByte('\'')
		case ch == '\'':
			inQuote = false
			values = append(values, cur.String())
		default:
			cur.WriteByte(ch)
		}
	}
	return values
}

// IndexAttributes builds the option set of an index from its ordered entries.
func IndexAttributes(name string, entries []schema.IndexEntry) Attrs {
	attrs := Attrs{{Key: "name", Value: name}}
	if len(entries) == 0 {
		return attrs
	}
	if entries[0].Unique {
		attrs.Set("unique", true)
	}
	if strings.EqualFold(entries[0].Kind, "FULLTEXT") {
		attrs.Set("type", "fulltext")
	}

	var limits Attrs
	for _, e := range entries {
		if e.SubPart != nil {
			limits.Set(e.Column, *e.SubPart)
		}
	}
	switch {
	case len(limits) == 0:
	case len(entries) == 1:
		attrs.Set("limit", limits[0].Value)
	default:
		attrs.Set("limit", limits)
	}
	return attrs
}

// IndexColumnNames returns the column names of ordered index entries.
func IndexColumnNames(entries []schema.IndexEntry) []string {
	cols := make([]string, 0, len(entries))
	for _, e := range entries {
		cols = append(cols, e.Column)
	}
	return cols
}

// ForeignKeyAttributes builds the option set of a foreign key.
func ForeignKeyAttributes(fk *schema.ForeignKey) Attrs {
	attrs := Attrs{{Key: "constraint", Value: fk.Name}}
	if fk.UpdateRule != "" {
		attrs.Set("update", ReferentialAction(fk.UpdateRule))
	}
	if fk.DeleteRule != "" {
		attrs.Set("delete", ReferentialAction(fk.DeleteRule))
	}
	return attrs
}

// ReferentialAction converts "SET NULL" style rules to "SET_NULL".
func ReferentialAction(rule string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(rule)), " ", "_")
}

// TableOptions builds the option set of a table declaration. The primary key
// always comes from the column flags, never from a synthetic id column.
func TableOptions(tbl *schema.Table, opts Options) Attrs {
	attrs := Attrs{{Key: "id", Value: false}}
	if pk := tbl.PrimaryKey(); len(pk) > 0 {
		attrs.Set("primary_key", pk)
	}
	attrs.Set("engine", orDefault(tbl.Engine, opts.DefaultEngine))
	attrs.Set("encoding", orDefault(tbl.CharacterSet, opts.DefaultEncoding))
	attrs.Set("collation", orDefault(tbl.Collation, opts.DefaultCollation))
	attrs.Set("comment", tbl.Comment)
	if tbl.RowFormat != "" {
		attrs.Set("row_format", strings.ToUpper(tbl.RowFormat))
	}
	return attrs
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
