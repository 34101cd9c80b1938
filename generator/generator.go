package generator

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/migrato/diff"
	"github.com/ridoystarlord/migrato/typemap"
)

const indent = "    "

// bodyIndent is the indentation of statements inside the entry point method.
const bodyIndent = indent + indent

// Render converts a list of Operations into a complete migration class.
func Render(ops []diff.Operation, name string, v Vocabulary) string {
	var b strings.Builder
	b.WriteString("<?php\n\n")
	if len(v.Imports) > 0 {
		for _, imp := range v.Imports {
			fmt.Fprintf(&b, "use %s;\n", imp)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "class %s extends %s\n{\n", name, v.BaseClass)
	fmt.Fprintf(&b, "%spublic function %s()\n%s{\n", indent, v.EntryPoint, indent)
	b.WriteString(RenderBody(ops, v))
	fmt.Fprintf(&b, "%s}\n}\n", indent)
	return b.String()
}

// RenderBody converts a list of Operations into the statements of the entry
// point method. Member operations are chained onto the table declaration that
// precedes them.
func RenderBody(ops []diff.Operation, v Vocabulary) string {
	r := &renderer{v: v}
	for _, op := range ops {
		r.render(op)
	}
	r.closeChain(v.Save)
	return r.b.String()
}

type renderer struct {
	v     Vocabulary
	b     strings.Builder
	chain string // table whose builder chain is open
}

func (r *renderer) render(op diff.Operation) {
	v := r.v
	switch op.Type {
	case diff.ToggleReferentialChecks:
		sql := v.DisableChecks
		if op.Enabled {
			sql = v.EnableChecks
		}
		r.statement(r.execute(sql))

	case diff.AlterDatabaseCharset:
		r.statement(r.execute(fmt.Sprintf("ALTER DATABASE CHARACTER SET '%s';", sqlString(op.Value))))

	case diff.AlterDatabaseCollation:
		r.statement(r.execute(fmt.Sprintf("ALTER DATABASE COLLATE='%s';", sqlString(op.Value))))

	case diff.SetTableOption:
		value := "'" + sqlString(op.Value) + "'"
		if op.Option == diff.OptionRowFormat {
			value = strings.ToUpper(op.Value)
		}
		r.statement(r.execute(fmt.Sprintf("ALTER TABLE `%s` %s=%s;", op.TableName, op.Option, value)))

	case diff.DeclareTable:
		r.closeChain(v.Save)
		r.blankLine()
		fmt.Fprintf(&r.b, "%s$this->%s(%s, %s)\n", bodyIndent, v.Table, quote(op.TableName), renderValue(op.Attrs, bodyIndent, v))
		r.chain = op.TableName

	case diff.AddColumn, diff.ChangeColumn:
		method := v.AddColumn
		if op.Type == diff.ChangeColumn {
			method = v.ChangeColumn
		}
		r.member(op.TableName, fmt.Sprintf("%s(%s, %s, %s)", method, quote(op.ColumnName), quote(op.ColumnType), r.attrs(op.Attrs)))

	case diff.RemoveColumn:
		r.member(op.TableName, fmt.Sprintf("%s(%s)", v.RemoveColumn, quote(op.ColumnName)))

	case diff.AddIndex:
		r.member(op.TableName, fmt.Sprintf("%s(%s, %s)", v.AddIndex, renderValue(op.Columns, "", v), r.attrs(op.Attrs)))

	case diff.RemoveIndex:
		r.member(op.TableName, fmt.Sprintf("%s(%s)", v.RemoveIndex, quote(op.IndexName)))

	case diff.AddForeignKey:
		fk := op.ForeignKey
		r.member(op.TableName, fmt.Sprintf("%s(%s, %s, %s, %s)", v.AddForeignKey,
			quote(fk.Column), quote(fk.ReferencedTable), quote(fk.ReferencedColumn), r.attrs(op.Attrs)))

	case diff.RemoveForeignKey:
		fk := op.ForeignKey
		r.member(op.TableName, fmt.Sprintf("%s(%s, %s)", v.RemoveForeignKey, quote(fk.Column), quote(fk.Name)))

	case diff.CreateTable:
		r.closeChain(v.Create)

	case diff.SaveTable:
		r.closeChain(v.Save)

	case diff.DropTable:
		r.closeChain(v.Save)
		r.blankLine()
		fmt.Fprintf(&r.b, "%s$this->%s(%s)->%s()->%s();\n", bodyIndent, v.Table, quote(op.TableName), v.Drop, v.Save)

	default:
		r.statement(fmt.Sprintf("// unsupported operation: %s", op.Type))
	}
}

func (r *renderer) attrs(a typemap.Attrs) string {
	return renderValue(a, bodyIndent+indent, r.v)
}

func (r *renderer) execute(sql string) string {
	return fmt.Sprintf("$this->%s(%s);", r.v.Execute, doubleQuote(sql))
}

// member appends a call to the builder chain of table, opening one if needed.
func (r *renderer) member(table, call string) {
	if r.chain != table {
		r.closeChain(r.v.Save)
		r.blankLine()
		fmt.Fprintf(&r.b, "%s$this->%s(%s)\n", bodyIndent, r.v.Table, quote(table))
		r.chain = table
	}
	fmt.Fprintf(&r.b, "%s%s->%s\n", bodyIndent, indent, call)
}

func (r *renderer) closeChain(method string) {
	if r.chain == "" {
		return
	}
	fmt.Fprintf(&r.b, "%s%s->%s();\n", bodyIndent, indent, method)
	r.chain = ""
}

func (r *renderer) statement(line string) {
	r.closeChain(r.v.Save)
	fmt.Fprintf(&r.b, "%s%s\n", bodyIndent, line)
}

func (r *renderer) blankLine() {
	if r.b.Len() > 0 {
		r.b.WriteString("\n")
	}
}

// renderValue renders a literal. Attribute sets become multi-line arrays
// whose closing bracket sits at the given indentation.
func renderValue(value any, at string, v Vocabulary) string {
	switch val := value.(type) {
	case nil:
		return "null"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case string:
		return quote(val)
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case typemap.SizeConstant:
		return v.sizeConstant(val)
	case []string:
		parts := make([]string, len(val))
		for i, s := range val {
			parts[i] = quote(s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case typemap.Attrs:
		if len(val) == 0 {
			return "[]"
		}
		var b strings.Builder
		b.WriteString("[\n")
		for _, a := range val {
			fmt.Fprintf(&b, "%s%s%s => %s,\n", at, indent, quote(a.Key), renderValue(a.Value, at+indent, v))
		}
		b.WriteString(at + "]")
		return b.String()
	default:
		return quote(fmt.Sprint(val))
	}
}

// quote renders a single-quoted literal, escaping only backslashes and quotes.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

func doubleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, `$`, `\$`)
	return `"` + s + `"`
}

// sqlString escapes a value placed inside a single-quoted SQL literal.
func sqlString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
