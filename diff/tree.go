package diff

import (
	"sort"

	"github.com/ridoystarlord/migrato/schema"
)

// Tree is a keyed structure whose values are either nested Trees or scalars
// (string, int64, bool, nil or []any).
type Tree map[string]any

// Diff returns the part of a that is absent from b or whose leaf values
// differ. It never reports keys that only exist in b; call it again with the
// arguments swapped to find removals.
func Diff(a, b Tree) Tree {
	out := Tree{}
	for key, av := range a {
		if at, ok := av.(Tree); ok {
			bt, _ := b[key].(Tree)
			if sub := Diff(at, bt); len(sub) > 0 {
				out[key] = sub
			}
			continue
		}
		bv, exists := b[key]
		if !exists || !scalarEqual(av, bv) {
			out[key] = av
		}
	}
	return out
}

// Forward holds what newS adds or changes relative to oldS.
func Forward(newS, oldS Tree) Tree {
	return Diff(newS, oldS)
}

// Reverse holds what oldS has that newS removed or changed.
func Reverse(newS, oldS Tree) Tree {
	return Diff(oldS, newS)
}

// scalarEqual is strict: values of different dynamic types are never equal.
func scalarEqual(a, b any) bool {
	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !scalarEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Tree:
		return false
	default:
		if _, ok := b.([]any); ok {
			return false
		}
		if _, ok := b.(Tree); ok {
			return false
		}
		return a == b
	}
}

// Sub walks the path and returns the nested tree, or nil.
func (t Tree) Sub(path ...string) Tree {
	cur := t
	for _, key := range path {
		next, ok := cur[key].(Tree)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// Has reports whether the path exists.
func (t Tree) Has(path ...string) bool {
	if len(path) == 0 {
		return true
	}
	parent := t.Sub(path[:len(path)-1]...)
	if parent == nil {
		return false
	}
	_, ok := parent[path[len(path)-1]]
	return ok
}

// Without returns a shallow copy of t lacking the given keys.
func (t Tree) Without(keys ...string) Tree {
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Keys returns the keys in sorted order.
func (t Tree) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TreeOf converts a snapshot into its canonical tree form.
func TreeOf(s *schema.Snapshot) Tree {
	if s == nil {
		return Tree{}
	}
	tables := Tree{}
	for name, tbl := range s.Tables {
		tables[name] = TableTree(tbl)
	}
	return Tree{
		"database": Tree{
			"character_set": s.Database.CharacterSet,
			"collation":     s.Database.Collation,
		},
		"tables": tables,
	}
}

// TableTree converts one table into its canonical tree form.
func TableTree(t *schema.Table) Tree {
	if t == nil {
		return Tree{}
	}
	columns := Tree{}
	for name, c := range t.Columns {
		columns[name] = columnTree(c)
	}
	indexes := Tree{}
	for name := range t.Indexes {
		entries := Tree{}
		for _, e := range t.IndexColumns(name) {
			entries[e.Column] = Tree{
				"sequence": int64(e.Sequence),
				"unique":   e.Unique,
				"kind":     e.Kind,
				"sub_part": optInt(e.SubPart),
			}
		}
		indexes[name] = entries
	}
	out := Tree{
		"table": Tree{
			"engine":        t.Engine,
			"comment":       t.Comment,
			"character_set": t.CharacterSet,
			"collation":     t.Collation,
			"row_format":    t.RowFormat,
		},
		"columns": columns,
		"indexes": indexes,
	}
	if t.ForeignKeys != nil {
		fks := Tree{}
		for name, fk := range t.ForeignKeys {
			fks[name] = Tree{
				"column":            fk.Column,
				"referenced_table":  fk.ReferencedTable,
				"referenced_column": fk.ReferencedColumn,
				"update_rule":       fk.UpdateRule,
				"delete_rule":       fk.DeleteRule,
			}
		}
		out["foreign_keys"] = fks
	}
	return out
}

func columnTree(c *schema.Column) Tree {
	return Tree{
		"type":                 c.Type,
		"data_type":            c.DataType,
		"nullable":             c.Nullable,
		"default":              optString(c.Default),
		"extra":                c.Extra,
		"precision":            optInt(c.Precision),
		"scale":                optInt(c.Scale),
		"character_max_length": optInt(c.CharacterMaxLength),
		"character_set":        optString(c.CharacterSet),
		"collation":            optString(c.Collation),
		"comment":              c.Comment,
		"position":             int64(c.Position),
		"key":                  c.Key,
	}
}

func optString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optInt(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}
