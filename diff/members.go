package diff

import (
	"github.com/ridoystarlord/migrato/schema"
	"github.com/ridoystarlord/migrato/typemap"
)

func columnOps(newT, oldT *schema.Table, forward Tree, moved map[string]bool, opts Options) []Operation {
	var ops []Operation
	for _, name := range newT.ColumnNames() {
		col := newT.Columns[name]
		switch {
		case oldT == nil || oldT.Columns[name] == nil:
			ops = append(ops, addColumnOp(newT, col, opts.TypeMap))
		case moved[name]:
			op := changeColumnOp(newT, col, opts.TypeMap)
			if newT.PrecedingColumn(name) == "" {
				op.Attrs.Set("after", typemap.First)
			}
			ops = append(ops, op)
		case forward.Has("columns", name):
			ops = append(ops, changeColumnOp(newT, col, opts.TypeMap))
		}
	}
	if oldT == nil {
		return ops
	}
	for _, name := range oldT.ColumnNames() {
		if newT.Columns[name] == nil {
			ops = append(ops, removeColumnOp(newT.Name, name))
		}
	}
	return ops
}

// movedColumns returns the columns of both tables that must move for oldT to
// follow the column order of newT. A longest common subsequence of the shared
// columns stays put, so a column added or removed in the middle moves nothing.
func movedColumns(newT, oldT *schema.Table) map[string]bool {
	if oldT == nil {
		return nil
	}
	newOrder := sharedColumns(newT, oldT)
	oldOrder := sharedColumns(oldT, newT)
	stable := longestCommonSubsequence(newOrder, oldOrder)

	moved := map[string]bool{}
	for _, name := range newOrder {
		if !stable[name] {
			moved[name] = true
		}
	}
	return moved
}

func sharedColumns(t, other *schema.Table) []string {
	var out []string
	for _, name := range t.ColumnNames() {
		if other.Columns[name] != nil {
			out = append(out, name)
		}
	}
	return out
}

// longestCommonSubsequence returns the members of a longest common subsequence of a and b.
func longestCommonSubsequence(a, b []string) map[string]bool {
	// lengths[i][j] is the subsequence length of a[i:] and b[j:].
	lengths := make([][]int, len(a)+1)
	for i := range lengths {
		lengths[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lengths[i][j] = lengths[i+1][j+1] + 1
			} else {
				lengths[i][j] = max(lengths[i+1][j], lengths[i][j+1])
			}
		}
	}

	out := map[string]bool{}
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] == b[j]:
			out[a[i]] = true
			i++
			j++
		case lengths[i+1][j] >= lengths[i][j+1]:
			i++
		default:
			j++
		}
	}
	return out
}

// indexOps re-adds an index on any change. The primary index is expressed
// through the table's primary_key option and never appears here.
func indexOps(newT, oldT *schema.Table, forward, reverse Tree) []Operation {
	var ops []Operation
	for _, name := range newT.IndexNames() {
		if name == schema.PrimaryIndex {
			continue
		}
		switch {
		case oldT == nil || oldT.Indexes[name] == nil:
			ops = append(ops, addIndexOp(newT, name))
		case forward.Has("indexes", name) || reverse.Has("indexes", name):
			ops = append(ops, removeIndexOp(newT.Name, name), addIndexOp(newT, name))
		}
	}
	if oldT == nil {
		return ops
	}
	for _, name := range oldT.IndexNames() {
		if name == schema.PrimaryIndex {
			continue
		}
		if newT.Indexes[name] == nil {
			ops = append(ops, removeIndexOp(newT.Name, name))
		}
	}
	return ops
}

func foreignKeyOps(newT, oldT *schema.Table, forward, reverse Tree) []Operation {
	var ops []Operation
	for _, name := range newT.ForeignKeyNames() {
		fk := newT.ForeignKeys[name]
		switch {
		case oldT == nil || oldT.ForeignKeys[name] == nil:
			ops = append(ops, addForeignKeyOp(newT.Name, fk))
		case forward.Has("foreign_keys", name) || reverse.Has("foreign_keys", name):
			ops = append(ops, removeForeignKeyOp(newT.Name, oldT.ForeignKeys[name]), addForeignKeyOp(newT.Name, fk))
		}
	}
	if oldT == nil {
		return ops
	}
	for _, name := range oldT.ForeignKeyNames() {
		if newT.ForeignKeys[name] == nil {
			ops = append(ops, removeForeignKeyOp(newT.Name, oldT.ForeignKeys[name]))
		}
	}
	return ops
}
