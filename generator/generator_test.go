package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ridoystarlord/migrato/diff"
	"github.com/ridoystarlord/migrato/schema"
	"github.com/ridoystarlord/migrato/typemap"
)

func singleTableSnapshot() *schema.Snapshot {
	s := schema.New()
	tbl := schema.NewTable("t")
	tbl.Columns["id"] = &schema.Column{Name: "id", Type: "int(11)", DataType: "int", Extra: "auto_increment", Position: 1, Key: "PRI"}
	tbl.Indexes["PRIMARY"] = []schema.IndexEntry{{Name: "PRIMARY", Column: "id", Sequence: 1, Unique: true, Kind: "BTREE"}}
	s.Tables["t"] = tbl
	return s
}

func TestRenderCreateTable(t *testing.T) {
	ops := diff.DiffSchemas(singleTableSnapshot(), schema.New(), diff.DefaultOptions())

	want := `<?php

use Phinx\Db\Adapter\MysqlAdapter;
use Phinx\Migration\AbstractMigration;

class CreateT extends AbstractMigration
{
    public function change()
    {
        $this->table('t', [
            'id' => false,
            'primary_key' => ['id'],
            'engine' => 'InnoDB',
            'encoding' => 'utf8',
            'collation' => 'utf8_unicode_ci',
            'comment' => '',
        ])
            ->addColumn('id', 'integer', [
                'null' => false,
                'limit' => MysqlAdapter::INT_REGULAR,
                'identity' => true,
            ])
            ->create();
    }
}
`
	assert.Equal(t, want, Render(ops, "CreateT", Phinx))
}

func TestRenderBodyMembers(t *testing.T) {
	ops := []diff.Operation{
		{Type: diff.ToggleReferentialChecks, Enabled: false},
		{Type: diff.DeclareTable, TableName: "posts", Attrs: typemap.Attrs{{Key: "id", Value: false}}},
		{Type: diff.ChangeColumn, TableName: "posts", ColumnName: "title", ColumnType: "string", Attrs: typemap.Attrs{
			{Key: "null", Value: true},
			{Key: "default", Value: nil},
			{Key: "limit", Value: int64(120)},
			{Key: "comment", Value: `it's a \ title`},
			{Key: "after", Value: "id"},
		}},
		{Type: diff.RemoveColumn, TableName: "posts", ColumnName: "legacy"},
		{Type: diff.RemoveIndex, TableName: "posts", IndexName: "posts_title"},
		{Type: diff.AddIndex, TableName: "posts", IndexName: "posts_title", Columns: []string{"title", "body"}, Attrs: typemap.Attrs{
			{Key: "name", Value: "posts_title"},
			{Key: "limit", Value: typemap.Attrs{{Key: "body", Value: int64(20)}}},
		}},
		{Type: diff.RemoveForeignKey, TableName: "posts", ForeignKey: &schema.ForeignKey{Name: "posts_user_fk", Column: "user_id"}},
		{Type: diff.AddForeignKey, TableName: "posts", ForeignKey: &schema.ForeignKey{
			Name: "posts_user_fk", Column: "user_id", ReferencedTable: "users", ReferencedColumn: "id",
		}, Attrs: typemap.Attrs{{Key: "constraint", Value: "posts_user_fk"}, {Key: "delete", Value: "SET_NULL"}}},
		{Type: diff.SaveTable, TableName: "posts"},
		{Type: diff.DropTable, TableName: "tags"},
		{Type: diff.ToggleReferentialChecks, Enabled: true},
	}

	want := `        $this->execute("SET unique_checks=0; SET foreign_key_checks=0;");

        $this->table('posts', [
            'id' => false,
        ])
            ->changeColumn('title', 'string', [
                'null' => true,
                'default' => null,
                'limit' => 120,
                'comment' => 'it\'s a \\ title',
                'after' => 'id',
            ])
            ->removeColumn('legacy')
            ->removeIndexByName('posts_title')
            ->addIndex(['title', 'body'], [
                'name' => 'posts_title',
                'limit' => [
                    'body' => 20,
                ],
            ])
            ->dropForeignKey('user_id', 'posts_user_fk')
            ->addForeignKey('user_id', 'users', 'id', [
                'constraint' => 'posts_user_fk',
                'delete' => 'SET_NULL',
            ])
            ->save();

        $this->table('tags')->drop()->save();
        $this->execute("SET unique_checks=1; SET foreign_key_checks=1;");
`
	assert.Equal(t, want, RenderBody(ops, Phinx))
}

func TestRenderRawStatements(t *testing.T) {
	ops := []diff.Operation{
		{Type: diff.AlterDatabaseCharset, Value: "utf8mb4"},
		{Type: diff.AlterDatabaseCollation, Value: "utf8mb4_unicode_ci"},
		{Type: diff.SetTableOption, TableName: "users", Option: diff.OptionEngine, Value: "InnoDB"},
		{Type: diff.SetTableOption, TableName: "users", Option: diff.OptionComment, Value: "user's table"},
		{Type: diff.SetTableOption, TableName: "users", Option: diff.OptionRowFormat, Value: "dynamic"},
	}

	want := strings.Join([]string{
		`        $this->execute("ALTER DATABASE CHARACTER SET 'utf8mb4';");`,
		`        $this->execute("ALTER DATABASE COLLATE='utf8mb4_unicode_ci';");`,
		"        $this->execute(\"ALTER TABLE `users` ENGINE='InnoDB';\");",
		"        $this->execute(\"ALTER TABLE `users` COMMENT='user''s table';\");",
		"        $this->execute(\"ALTER TABLE `users` ROW_FORMAT=DYNAMIC;\");",
		"",
	}, "\n")
	assert.Equal(t, want, RenderBody(ops, Phinx))
}

func TestRenderMemberWithoutDeclaration(t *testing.T) {
	ops := []diff.Operation{
		{Type: diff.RemoveColumn, TableName: "users", ColumnName: "age"},
	}

	want := `        $this->table('users')
            ->removeColumn('age')
            ->save();
`
	assert.Equal(t, want, RenderBody(ops, Phinx))
}

func TestRenderUnresolvedTypePassesThrough(t *testing.T) {
	newS := singleTableSnapshot()
	newS.Tables["t"].Columns["score"] = &schema.Column{Name: "score", Type: "double", DataType: "double", Position: 2}

	body := RenderBody(diff.DiffSchemas(newS, singleTableSnapshot(), diff.DefaultOptions()), Phinx)

	assert.Contains(t, body, "->addColumn('score', 'double', [")
	assert.Contains(t, body, "'after' => 'id',")
}

func TestRenderValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "null"},
		{"true", true, "true"},
		{"int", 3, "3"},
		{"int64", int64(255), "255"},
		{"string", `a'b\c`, `'a\'b\\c'`},
		{"size constant", typemap.BlobLong, "MysqlAdapter::BLOB_LONG"},
		{"column placement", typemap.First, "MysqlAdapter::FIRST"},
		{"list", []string{"a", "b'c"}, `['a', 'b\'c']`},
		{"empty attrs", typemap.Attrs{}, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderValue(tt.value, "", Phinx))
		})
	}
}
