package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/migrato/config"
	"github.com/ridoystarlord/migrato/loader"
	"github.com/ridoystarlord/migrato/schema"
	"github.com/ridoystarlord/migrato/typemap"
)

var (
	docsFormat string
	docsOutput string
	docsFile   string
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate ERD diagrams from the baseline",
	Long: `Generate ERD diagrams from the baseline schema file.

Supported formats:
  - mermaid: Mermaid ERD diagram
  - graphviz: Graphviz DOT format

Examples:
  migrato docs --format mermaid --output erd.md
  migrato docs --format graphviz --output erd.dot
  migrato docs --format all --output docs/
`,
	Run: func(cmd *cobra.Command, args []string) {
		path := docsFile
		if path == "" {
			path = appConfig.SchemaFile
		}

		s, err := loader.LoadSnapshot(config.AppFs, path)
		if err != nil {
			fmt.Printf("❌ Error loading schema: %v\n", err)
			os.Exit(1)
		}
		if len(s.Tables) == 0 {
			fmt.Println("❌ No tables found in schema")
			os.Exit(1)
		}

		var written []string
		switch docsFormat {
		case "mermaid":
			written = append(written, writeDoc(orDefault(docsOutput, "erd.md"), mermaidContent(s)))
		case "graphviz":
			written = append(written, writeDoc(orDefault(docsOutput, "erd.dot"), graphvizContent(s)))
		case "all":
			dir := orDefault(docsOutput, "docs")
			written = append(written,
				writeDoc(filepath.Join(dir, "erd.md"), mermaidContent(s)),
				writeDoc(filepath.Join(dir, "erd.dot"), graphvizContent(s)),
			)
		default:
			fmt.Printf("❌ Unsupported format: %s\n", docsFormat)
			fmt.Println("Supported formats: mermaid, graphviz, all")
			os.Exit(1)
		}

		for _, p := range written {
			fmt.Printf("✅ Diagram saved to: %s\n", p)
		}
	},
}

func writeDoc(path, content string) string {
	if dir := filepath.Dir(path); dir != "." {
		if err := config.AppFs.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("❌ Error creating output directory: %v\n", err)
			os.Exit(1)
		}
	}
	if err := afero.WriteFile(config.AppFs, path, []byte(content), 0644); err != nil {
		fmt.Printf("❌ Error writing %s: %v\n", path, err)
		os.Exit(1)
	}
	return path
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func columnMarkers(tbl *schema.Table, col *schema.Column) []string {
	var markers []string
	switch col.Key {
	case "PRI":
		markers = append(markers, "PK")
	case "UNI":
		markers = append(markers, "UK")
	}
	for _, name := range tbl.ForeignKeyNames() {
		if tbl.ForeignKeys[name].Column == col.Name {
			markers = append(markers, "FK")
			break
		}
	}
	return markers
}

func mermaidContent(s *schema.Snapshot) string {
	var content strings.Builder

	content.WriteString("# Database Schema ERD\n\n")
	content.WriteString("```mermaid\nerDiagram\n")

	for _, name := range s.TableNames() {
		tbl := s.Tables[name]
		fmt.Fprintf(&content, "    %s {\n", name)
		for _, colName := range tbl.ColumnNames() {
			col := tbl.Columns[colName]
			line := fmt.Sprintf("        %s %s", typemap.MapType(col).Name(), colName)
			if markers := columnMarkers(tbl, col); len(markers) > 0 {
				line += " " + strings.Join(markers, ",")
			}
			if col.Comment != "" {
				line += fmt.Sprintf(" %q", col.Comment)
			}
			content.WriteString(line + "\n")
		}
		content.WriteString("    }\n")
	}

	for _, name := range s.TableNames() {
		tbl := s.Tables[name]
		for _, fkName := range tbl.ForeignKeyNames() {
			fk := tbl.ForeignKeys[fkName]
			fmt.Fprintf(&content, "    %s ||--o{ %s : %s\n", fk.ReferencedTable, name, fk.Column)
		}
	}

	content.WriteString("```\n")
	return content.String()
}

func graphvizContent(s *schema.Snapshot) string {
	var content strings.Builder

	content.WriteString("digraph ERD {\n")
	content.WriteString("    node [shape=plaintext];\n")
	content.WriteString("    rankdir=LR;\n\n")

	for _, name := range s.TableNames() {
		tbl := s.Tables[name]
		fmt.Fprintf(&content, "    %s [label=<\n", name)
		content.WriteString("        <table border=\"0\" cellborder=\"1\" cellspacing=\"0\">\n")
		fmt.Fprintf(&content, "            <tr><td bgcolor=\"lightblue\"><b>%s</b></td></tr>\n", name)
		for _, colName := range tbl.ColumnNames() {
			col := tbl.Columns[colName]
			label := colName + " : " + col.Type
			if markers := columnMarkers(tbl, col); len(markers) > 0 {
				label += " (" + strings.Join(markers, ", ") + ")"
			}
			fmt.Fprintf(&content, "            <tr><td align=\"left\">%s</td></tr>\n", label)
		}
		content.WriteString("        </table>\n    >];\n\n")
	}

	for _, name := range s.TableNames() {
		tbl := s.Tables[name]
		for _, fkName := range tbl.ForeignKeyNames() {
			fk := tbl.ForeignKeys[fkName]
			fmt.Fprintf(&content, "    %s -> %s [label=\"%s\"];\n", name, fk.ReferencedTable, fk.Column)
		}
	}

	content.WriteString("}\n")
	return content.String()
}

func init() {
	docsCmd.Flags().StringVarP(&docsFormat, "format", "f", "mermaid", "Output format (mermaid, graphviz, all)")
	docsCmd.Flags().StringVarP(&docsOutput, "output", "o", "", "Output file or directory (default: format-specific filename)")
	docsCmd.Flags().StringVarP(&docsFile, "file", "", "", "Schema file to use (default from config)")
}
