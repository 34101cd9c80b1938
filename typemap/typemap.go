// Package typemap converts native MySQL column and index descriptors into the
// small portable attribute vocabulary used by migration scripts.
package typemap

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ridoystarlord/migrato/schema"
)

// Tag is a portable column type.
type Tag string

const (
	Boolean    Tag = "boolean"
	Integer    Tag = "integer"
	BigInteger Tag = "biginteger"
	Decimal    Tag = "decimal"
	Float      Tag = "float"
	String     Tag = "string"
	Char       Tag = "char"
	Text       Tag = "text"
	Binary     Tag = "binary"
	Varbinary  Tag = "varbinary"
	Blob       Tag = "blob"
	Date       Tag = "date"
	Time       Tag = "time"
	Datetime   Tag = "datetime"
	Timestamp  Tag = "timestamp"
	Enum       Tag = "enum"
	Set        Tag = "set"
	Unresolved Tag = ""
)

// SizeConstant names a constant of the target migration API: a fixed size
// category, or First for the column placement.
type SizeConstant string

const (
	IntTiny     SizeConstant = "INT_TINY"
	IntSmall    SizeConstant = "INT_SMALL"
	IntMedium   SizeConstant = "INT_MEDIUM"
	IntRegular  SizeConstant = "INT_REGULAR"
	IntBig      SizeConstant = "INT_BIG"
	TextTiny    SizeConstant = "TEXT_TINY"
	TextMedium  SizeConstant = "TEXT_MEDIUM"
	TextLong    SizeConstant = "TEXT_LONG"
	BlobTiny    SizeConstant = "BLOB_TINY"
	BlobRegular SizeConstant = "BLOB_REGULAR"
	BlobMedium  SizeConstant = "BLOB_MEDIUM"
	BlobLong    SizeConstant = "BLOB_LONG"

	// First is the after value that moves a column to the start of its table.
	First SizeConstant = "FIRST"
)

// ColumnType is the result of mapping a native type. Native keeps the original
// token so unresolved types can be passed through untouched.
type ColumnType struct {
	Tag    Tag
	Native string
}

// Resolved reports whether the native type has a portable equivalent.
func (c ColumnType) Resolved() bool {
	return c.Tag != Unresolved
}

// Name is the type name written into the migration script.
func (c ColumnType) Name() string {
	if c.Resolved() {
		return string(c.Tag)
	}
	return c.Native
}

var nativeTags = map[string]Tag{
	"tinyint":    Integer,
	"smallint":   Integer,
	"mediumint":  Integer,
	"int":        Integer,
	"integer":    Integer,
	"bigint":     BigInteger,
	"decimal":    Decimal,
	"numeric":    Decimal,
	"float":      Float,
	"char":       Char,
	"varchar":    String,
	"binary":     Binary,
	"varbinary":  Varbinary,
	"tinytext":   Text,
	"text":       Text,
	"mediumtext": Text,
	"longtext":   Text,
	"tinyblob":   Blob,
	"blob":       Blob,
	"mediumblob": Blob,
	"longblob":   Blob,
	"date":       Date,
	"time":       Time,
	"datetime":   Datetime,
	"timestamp":  Timestamp,
	"enum":       Enum,
	"set":        Set,
}

var sizeConstants = map[string]SizeConstant{
	"tinyint":    IntTiny,
	"smallint":   IntSmall,
	"mediumint":  IntMedium,
	"int":        IntRegular,
	"integer":    IntRegular,
	"bigint":     IntBig,
	"tinytext":   TextTiny,
	"mediumtext": TextMedium,
	"longtext":   TextLong,
	"tinyblob":   BlobTiny,
	"blob":       BlobRegular,
	"mediumblob": BlobMedium,
	"longblob":   BlobLong,
}

var widthPattern = regexp.MustCompile(`\((\d+)\)`)

// NativeType returns the bare lower-case type name, e.g. "int" for "int(11) unsigned".
func NativeType(col *schema.Column) string {
	if col.DataType != "" {
		return strings.ToLower(col.DataType)
	}
	t := strings.ToLower(strings.TrimSpace(col.Type))
	if i := strings.IndexAny(t, "( "); i >= 0 {
		t = t[:i]
	}
	return t
}

// MapType maps a column to its portable type.
func MapType(col *schema.Column) ColumnType {
	native := NativeType(col)
	if strings.HasPrefix(strings.ToLower(col.Type), "tinyint(1)") {
		return ColumnType{Tag: Boolean, Native: native}
	}
	if tag, ok := nativeTags[native]; ok {
		return ColumnType{Tag: tag, Native: native}
	}
	return ColumnType{Tag: Unresolved, Native: native}
}

// IsCharacter reports whether the tag carries a character set and collation.
func (t Tag) IsCharacter() bool {
	switch t {
	case Char, String, Text, Enum, Set:
		return true
	}
	return false
}

// Signed is false for types declared unsigned.
func Signed(col *schema.Column) bool {
	return !strings.HasSuffix(strings.ToLower(strings.TrimSpace(col.Type)), "unsigned")
}

func displayWidth(columnType string) (int64, bool) {
	m := widthPattern.FindStringSubmatch(columnType)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// defaultWidth looks up the engine's display width for the column's integer
// type. Unsigned columns use the "<type> unsigned" entry when one is set.
func defaultWidth(col *schema.Column, ct ColumnType, opts Options) (int64, bool) {
	if !Signed(col) {
		if def, ok := opts.IntDefaultWidths[ct.Native+" unsigned"]; ok {
			return def, true
		}
	}
	def, ok := opts.IntDefaultWidths[ct.Native]
	return def, ok
}

// Limit returns the limit attribute of a column, either a SizeConstant or an int64.
func Limit(col *schema.Column, opts Options) (any, bool) {
	ct := MapType(col)
	switch ct.Tag {
	case Boolean, Decimal, Float, Enum, Set:
		return nil, false
	}

	if def, ok := defaultWidth(col, ct, opts); ok {
		if w, ok := displayWidth(col.Type); ok && w != def {
			return w, true
		}
	}
	if c, ok := sizeConstants[ct.Native]; ok {
		return c, true
	}
	if w, ok := displayWidth(col.Type); ok {
		return w, true
	}
	if col.CharacterMaxLength != nil && ct.Tag != Text {
		return *col.CharacterMaxLength, true
	}
	return nil, false
}
