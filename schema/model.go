package schema

import "sort"

// PrimaryIndex is the name MySQL gives the primary key index.
const PrimaryIndex = "PRIMARY"

// Snapshot is a normalized description of a database's structure at one point in time.
type Snapshot struct {
	Database Database          `json:"database" yaml:"database"`
	Tables   map[string]*Table `json:"tables" yaml:"tables"`
}

// Database holds database-level defaults.
type Database struct {
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	CharacterSet string `json:"character_set,omitempty" yaml:"character_set,omitempty"`
	Collation    string `json:"collation,omitempty" yaml:"collation,omitempty"`
}

// Table describes one base table. ForeignKeys is nil when constraints were not
// queried and an empty map when the table has none.
type Table struct {
	Name         string                  `json:"name" yaml:"name"`
	Engine       string                  `json:"engine,omitempty" yaml:"engine,omitempty"`
	Comment      string                  `json:"comment,omitempty" yaml:"comment,omitempty"`
	CharacterSet string                  `json:"character_set,omitempty" yaml:"character_set,omitempty"`
	Collation    string                  `json:"collation,omitempty" yaml:"collation,omitempty"`
	RowFormat    string                  `json:"row_format,omitempty" yaml:"row_format,omitempty"`
	Columns      map[string]*Column      `json:"columns" yaml:"columns"`
	Indexes      map[string][]IndexEntry `json:"indexes" yaml:"indexes"`
	ForeignKeys  map[string]*ForeignKey  `json:"foreign_keys" yaml:"foreign_keys"`
}

type Column struct {
	Name               string  `json:"name" yaml:"name"`
	Type               string  `json:"type" yaml:"type"`
	DataType           string  `json:"data_type" yaml:"data_type"`
	Nullable           bool    `json:"nullable" yaml:"nullable"`
	Default            *string `json:"default" yaml:"default"`
	Extra              string  `json:"extra,omitempty" yaml:"extra,omitempty"`
	Precision          *int64  `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale              *int64  `json:"scale,omitempty" yaml:"scale,omitempty"`
	CharacterMaxLength *int64  `json:"character_max_length,omitempty" yaml:"character_max_length,omitempty"`
	CharacterSet       *string `json:"character_set,omitempty" yaml:"character_set,omitempty"`
	Collation          *string `json:"collation,omitempty" yaml:"collation,omitempty"`
	Comment            string  `json:"comment,omitempty" yaml:"comment,omitempty"`
	Position           int     `json:"position" yaml:"position"`
	Key                string  `json:"key,omitempty" yaml:"key,omitempty"` // PRI, UNI, MUL or empty
}

// IndexEntry is one column of an index.
type IndexEntry struct {
	Name     string `json:"name" yaml:"name"`
	Column   string `json:"column" yaml:"column"`
	Sequence int    `json:"sequence" yaml:"sequence"`
	Unique   bool   `json:"unique" yaml:"unique"`
	Kind     string `json:"kind" yaml:"kind"` // BTREE, FULLTEXT, HASH, SPATIAL
	SubPart  *int64 `json:"sub_part,omitempty" yaml:"sub_part,omitempty"`
}

type ForeignKey struct {
	Name             string `json:"name" yaml:"name"`
	Column           string `json:"column" yaml:"column"`
	ReferencedTable  string `json:"referenced_table" yaml:"referenced_table"`
	ReferencedColumn string `json:"referenced_column" yaml:"referenced_column"`
	UpdateRule       string `json:"update_rule" yaml:"update_rule"`
	DeleteRule       string `json:"delete_rule" yaml:"delete_rule"`
}

// New returns an empty snapshot.
func New() *Snapshot {
	return &Snapshot{Tables: map[string]*Table{}}
}

// NewTable returns a table with initialised member maps.
func NewTable(name string) *Table {
	return &Table{
		Name:    name,
		Columns: map[string]*Column{},
		Indexes: map[string][]IndexEntry{},
	}
}

// TableNames returns the table names in sorted order.
func (s *Snapshot) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table returns the named table or nil.
func (s *Snapshot) Table(name string) *Table {
	if s == nil || s.Tables == nil {
		return nil
	}
	return s.Tables[name]
}

// ColumnNames returns the column names in declared order.
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for name := range t.Columns {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := t.Columns[names[i]], t.Columns[names[j]]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Name < b.Name
	})
	return names
}

// IndexNames returns the index names with PRIMARY first and the rest sorted.
func (t *Table) IndexNames() []string {
	names := make([]string, 0, len(t.Indexes))
	for name := range t.Indexes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == PrimaryIndex || names[j] == PrimaryIndex {
			return names[i] == PrimaryIndex && names[j] != PrimaryIndex
		}
		return names[i] < names[j]
	})
	return names
}

func (t *Table) ForeignKeyNames() []string {
	names := make([]string, 0, len(t.ForeignKeys))
	for name := range t.ForeignKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IndexColumns returns the index entries ordered by their position in the index.
func (t *Table) IndexColumns(name string) []IndexEntry {
	entries := append([]IndexEntry(nil), t.Indexes[name]...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Sequence < entries[j].Sequence
	})
	return entries
}

// PrimaryKey returns the columns flagged as primary, in declared order.
func (t *Table) PrimaryKey() []string {
	var pk []string
	for _, name := range t.ColumnNames() {
		if t.Columns[name].Key == "PRI" {
			pk = append(pk, name)
		}
	}
	return pk
}

// PrecedingColumn returns the column declared immediately before name, or "" for the first column.
func (t *Table) PrecedingColumn(name string) string {
	prev := ""
	for _, n := range t.ColumnNames() {
		if n == name {
			return prev
		}
		prev = n
	}
	return ""
}

// Clone copies the snapshot down to its columns, index entries and foreign
// keys. Pointer fields of columns are shared.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{Database: s.Database, Tables: make(map[string]*Table, len(s.Tables))}
	for name, t := range s.Tables {
		out.Tables[name] = t.Clone()
	}
	return out
}

func (t *Table) Clone() *Table {
	out := *t
	out.Columns = make(map[string]*Column, len(t.Columns))
	for name, c := range t.Columns {
		cc := *c
		out.Columns[name] = &cc
	}
	out.Indexes = make(map[string][]IndexEntry, len(t.Indexes))
	for name, entries := range t.Indexes {
		out.Indexes[name] = append([]IndexEntry(nil), entries...)
	}
	if t.ForeignKeys != nil {
		out.ForeignKeys = make(map[string]*ForeignKey, len(t.ForeignKeys))
		for name, fk := range t.ForeignKeys {
			f := *fk
			out.ForeignKeys[name] = &f
		}
	}
	return &out
}
