package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/migrato/schema"
)

func TestValidateMigrationName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"CreateUsersTable", true},
		{"Version20240101120000", true},
		{"A", true},
		{"createUsers", false},
		{"Create_Users", false},
		{"Create Users", false},
		{"", false},
		{"1Create", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMigrationName(tt.name)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var nameErr *InvalidMigrationNameError
			require.True(t, errors.As(err, &nameErr))
			assert.Equal(t, tt.name, nameErr.Name)
		})
	}
}

func validSnapshot() *schema.Snapshot {
	s := schema.New()
	users := schema.NewTable("users")
	users.Columns["id"] = &schema.Column{Name: "id", Type: "int(11)", DataType: "int", Position: 1, Key: "PRI"}
	users.Indexes["PRIMARY"] = []schema.IndexEntry{{Name: "PRIMARY", Column: "id", Sequence: 1, Unique: true}}
	s.Tables["users"] = users

	posts := schema.NewTable("posts")
	posts.Columns["id"] = &schema.Column{Name: "id", Type: "int(11)", DataType: "int", Position: 1, Key: "PRI"}
	posts.Columns["user_id"] = &schema.Column{Name: "user_id", Type: "int(11)", DataType: "int", Position: 2}
	posts.ForeignKeys = map[string]*schema.ForeignKey{
		"posts_user_id_foreign": {Name: "posts_user_id_foreign", Column: "user_id", ReferencedTable: "users", ReferencedColumn: "id"},
	}
	s.Tables["posts"] = posts
	return s
}

func TestValidateSnapshotValid(t *testing.T) {
	result := ValidateSnapshot(validSnapshot())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func errorTypes(errs []ValidationError) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Type)
	}
	return out
}

func TestValidateSnapshotProblems(t *testing.T) {
	s := validSnapshot()
	posts := s.Tables["posts"]
	posts.Columns["score"] = &schema.Column{Name: "score", Type: "double", DataType: "double", Position: 3}
	posts.Indexes["posts_title_index"] = []schema.IndexEntry{{Name: "posts_title_index", Column: "title", Sequence: 1}}
	posts.ForeignKeys["posts_tag_foreign"] = &schema.ForeignKey{Name: "posts_tag_foreign", Column: "user_id", ReferencedTable: "tags", ReferencedColumn: "id"}
	s.Tables["users"].Columns["id"].Key = ""

	long := schema.NewTable(strings.Repeat("x", 65))
	s.Tables[long.Name] = long

	result := ValidateSnapshot(s)

	assert.False(t, result.Valid)
	assert.ElementsMatch(t, []string{"index_column_not_found", "foreign_key_table_not_found", "table_name", "no_columns"}, errorTypes(result.Errors))
	assert.ElementsMatch(t, []string{"unresolved_type", "no_primary_key"}, errorTypes(result.Warnings))
}
