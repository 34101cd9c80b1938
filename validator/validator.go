package validator

import (
	"fmt"
	"regexp"

	"github.com/ridoystarlord/migrato/schema"
	"github.com/ridoystarlord/migrato/typemap"
)

// maxIdentifierLength is the MySQL limit for table, column and index names.
const maxIdentifierLength = 64

var migrationNamePattern = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)

// InvalidMigrationNameError reports a migration class name that is not CamelCase.
type InvalidMigrationNameError struct {
	Name string
}

func (e *InvalidMigrationNameError) Error() string {
	return fmt.Sprintf("invalid migration name '%s': must be CamelCase, start with an upper-case letter and contain only letters and digits", e.Name)
}

// ValidateMigrationName checks a migration class name.
func ValidateMigrationName(name string) error {
	if !migrationNamePattern.MatchString(name) {
		return &InvalidMigrationNameError{Name: name}
	}
	return nil
}

// ValidationError represents a validation error with details
type ValidationError struct {
	Type     string `json:"type"`
	Table    string `json:"table,omitempty"`
	Column   string `json:"column,omitempty"`
	Index    string `json:"index,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error", "warning", "info"
}

// ValidationResult contains all validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
	Info     []ValidationError `json:"info"`
}

func (r *ValidationResult) add(e ValidationError) {
	switch e.Severity {
	case "error":
		r.Errors = append(r.Errors, e)
	case "warning":
		r.Warnings = append(r.Warnings, e)
	default:
		r.Info = append(r.Info, e)
	}
}

// ValidateSnapshot checks a snapshot for problems that would produce a broken migration.
func ValidateSnapshot(s *schema.Snapshot) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Info:     []ValidationError{},
	}

	for _, name := range s.TableNames() {
		validateTable(s, s.Tables[name], result)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func validateTable(s *schema.Snapshot, tbl *schema.Table, result *ValidationResult) {
	if err := validateIdentifier("table", tbl.Name); err != nil {
		result.add(ValidationError{Type: "table_name", Table: tbl.Name, Message: err.Error(), Severity: "error"})
	}

	if len(tbl.Columns) == 0 {
		result.add(ValidationError{
			Type:     "no_columns",
			Table:    tbl.Name,
			Message:  fmt.Sprintf("Table '%s' has no columns", tbl.Name),
			Severity: "error",
		})
	}

	for _, name := range tbl.ColumnNames() {
		col := tbl.Columns[name]
		if err := validateIdentifier("column", name); err != nil {
			result.add(ValidationError{Type: "column_name", Table: tbl.Name, Column: name, Message: err.Error(), Severity: "error"})
		}
		if ct := typemap.MapType(col); !ct.Resolved() {
			result.add(ValidationError{
				Type:     "unresolved_type",
				Table:    tbl.Name,
				Column:   name,
				Message:  fmt.Sprintf("Column type '%s' has no portable equivalent and is passed through", col.Type),
				Severity: "warning",
			})
		}
	}

	if len(tbl.Columns) > 0 && len(tbl.PrimaryKey()) == 0 {
		result.add(ValidationError{
			Type:     "no_primary_key",
			Table:    tbl.Name,
			Message:  fmt.Sprintf("Table '%s' has no primary key defined", tbl.Name),
			Severity: "warning",
		})
	}

	for _, name := range tbl.IndexNames() {
		if name != schema.PrimaryIndex {
			if err := validateIdentifier("index", name); err != nil {
				result.add(ValidationError{Type: "index_name", Table: tbl.Name, Index: name, Message: err.Error(), Severity: "error"})
			}
		}
		for _, e := range tbl.Indexes[name] {
			if tbl.Columns[e.Column] == nil {
				result.add(ValidationError{
					Type:     "index_column_not_found",
					Table:    tbl.Name,
					Column:   e.Column,
					Index:    name,
					Message:  fmt.Sprintf("Index '%s' references non-existent column '%s'", name, e.Column),
					Severity: "error",
				})
			}
		}
	}

	for _, name := range tbl.ForeignKeyNames() {
		fk := tbl.ForeignKeys[name]
		if tbl.Columns[fk.Column] == nil {
			result.add(ValidationError{
				Type:     "foreign_key_column_not_found",
				Table:    tbl.Name,
				Column:   fk.Column,
				Message:  fmt.Sprintf("Foreign key '%s' uses non-existent column '%s'", name, fk.Column),
				Severity: "error",
			})
		}
		ref := s.Table(fk.ReferencedTable)
		if ref == nil {
			result.add(ValidationError{
				Type:     "foreign_key_table_not_found",
				Table:    tbl.Name,
				Column:   fk.Column,
				Message:  fmt.Sprintf("Foreign key references non-existent table '%s'", fk.ReferencedTable),
				Severity: "error",
			})
			continue
		}
		if ref.Columns[fk.ReferencedColumn] == nil {
			result.add(ValidationError{
				Type:     "foreign_key_column_not_found",
				Table:    tbl.Name,
				Column:   fk.Column,
				Message:  fmt.Sprintf("Foreign key references non-existent column '%s' in table '%s'", fk.ReferencedColumn, fk.ReferencedTable),
				Severity: "error",
			})
		}
	}
}

// validateIdentifier validates a MySQL identifier
func validateIdentifier(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}
	if len(name) > maxIdentifierLength {
		return fmt.Errorf("%s name '%s' is too long (max %d characters)", kind, name, maxIdentifierLength)
	}
	return nil
}
