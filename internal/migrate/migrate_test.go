package migrate

import (
	"errors"
	"fmt"
	"testing"
	"testing/fstest"

	"task_manager/internal/migrations"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestLoad_SortsByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"20240603000000_add_index.sql":         {Data: []byte("CREATE INDEX i ON t(c);")},
		"20240521120000_create_tasks_table.sql": {Data: []byte("CREATE TABLE t (c int);")},
		"20240522090000_alter_tasks.sql":       {Data: []byte("ALTER TABLE t ADD d int;")},
	}

	migs, err := Load(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(migs) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migs))
	}

	want := []string{"20240521120000", "20240522090000", "20240603000000"}
	for i, v := range want {
		if migs[i].Version != v {
			t.Errorf("migration %d: expected version %s, got %s", i, v, migs[i].Version)
		}
	}
	if migs[0].SQL != "CREATE TABLE t (c int);" {
		t.Errorf("unexpected SQL for first migration: %q", migs[0].SQL)
	}
}

func TestLoad_RejectsBadFilename(t *testing.T) {
	bad := []string{
		"create_tasks_table.sql",          // no version prefix
		"2024_create_tasks_table.sql",     // short version
		"20240521120000-create-tasks.sql", // wrong separator
		"20240521120000_CreateTasks.sql",  // upper case slug
	}
	for _, name := range bad {
		fsys := fstest.MapFS{name: {Data: []byte("SELECT 1;")}}
		if _, err := Load(fsys); err == nil {
			t.Errorf("expected error for filename %q", name)
		}
	}
}

func TestLoad_RejectsDuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"20240521120000_create_tasks_table.sql": {Data: []byte("SELECT 1;")},
		"20240521120000_create_tags_table.sql":  {Data: []byte("SELECT 2;")},
	}
	if _, err := Load(fsys); err == nil {
		t.Fatal("expected duplicate version error")
	}
}

func TestLoad_IgnoresNonSQLFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"20240521120000_create_tasks_table.sql": {Data: []byte("SELECT 1;")},
		"README.md":                             {Data: []byte("notes")},
	}
	migs, err := Load(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(migs) != 1 {
		t.Fatalf("expected 1 migration, got %d", len(migs))
	}
}

// The embedded migration set itself must load cleanly.
func TestLoad_Embedded(t *testing.T) {
	migs, err := Load(migrations.FS)
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	if len(migs) == 0 {
		t.Fatal("expected at least one embedded migration")
	}
	if migs[0].Name != "20240521120000_create_tasks_table.sql" {
		t.Errorf("unexpected first migration: %s", migs[0].Name)
	}
}

type fakeNetError struct{}

func (fakeNetError) Error() string   { return "connection refused" }
func (fakeNetError) Timeout() bool   { return false }
func (fakeNetError) Temporary() bool { return true }

func TestClassify_Kinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"duplicate table", &pgconn.PgError{Code: "42P07"}, KindSchemaConflict},
		{"insufficient privilege", &pgconn.PgError{Code: "42501"}, KindPrivilege},
		{"syntax error", &pgconn.PgError{Code: "42601"}, KindSyntax},
		{"network failure", fakeNetError{}, KindConnectivity},
		{"other pg error", &pgconn.PgError{Code: "23502"}, KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// wrap once to make sure classification unwraps
			err := classify("20240521120000", fmt.Errorf("exec: %w", tc.err))

			var mErr *Error
			if !errors.As(err, &mErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if mErr.Kind != tc.want {
				t.Errorf("expected kind %v, got %v", tc.want, mErr.Kind)
			}
			if mErr.Version != "20240521120000" {
				t.Errorf("expected version on error, got %q", mErr.Version)
			}
			if !errors.Is(err, tc.err) {
				t.Error("expected wrapped cause to be reachable via errors.Is")
			}
		})
	}
}

func TestClassify_NilPassthrough(t *testing.T) {
	if err := classify("v", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
