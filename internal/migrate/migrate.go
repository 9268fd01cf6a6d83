// Package migrate applies the embedded SQL schema migrations in
// ascending version order, each at most once. Applied versions are
// recorded in the schema_migrations table.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"

	"task_manager/internal/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Migration is a single forward-only DDL file.
type Migration struct {
	Version string // 14-digit timestamp prefix of the filename
	Name    string // full filename
	SQL     string
}

var nameRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// Load reads migrations from fsys and returns them sorted ascending by
// version. Filenames must match <YYYYMMDDHHMMSS>_<slug>.sql and
// versions must be unique.
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var migs []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		m := nameRe.FindStringSubmatch(e.Name())
		if m == nil {
			return nil, fmt.Errorf("bad migration filename %q", e.Name())
		}
		b, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		migs = append(migs, Migration{Version: m[1], Name: e.Name(), SQL: string(b)})
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })

	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %s (%s, %s)",
				migs[i].Version, migs[i-1].Name, migs[i].Name)
		}
	}
	return migs, nil
}

const versionTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// undefined_table, returned when listing versions before the first apply
const codeUndefinedTable = "42P01"

// Runner applies migrations against a pool.
type Runner struct {
	db   *pgxpool.Pool
	migs []Migration
}

func NewRunner(db *pgxpool.Pool, migs []Migration) *Runner {
	return &Runner{db: db, migs: migs}
}

// Applied returns the set of versions already recorded. A missing
// schema_migrations table means nothing has been applied yet.
func (r *Runner) Applied(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeUndefinedTable {
			return map[string]bool{}, nil
		}
		return nil, classify("", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, classify("", err)
		}
		applied[v] = true
	}
	return applied, classify("", rows.Err())
}

// Apply runs every pending migration in ascending version order and
// returns how many were applied. The first failure aborts the sequence
// with a classified *Error.
func (r *Runner) Apply(ctx context.Context) (int, error) {
	if _, err := r.db.Exec(ctx, versionTable); err != nil {
		return 0, classify("", err)
	}

	applied, err := r.Applied(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, m := range r.migs {
		if applied[m.Version] {
			continue
		}
		if err := r.applyOne(ctx, m); err != nil {
			return n, err
		}
		logger.Info("applied migration", "name", m.Name)
		n++
	}
	return n, nil
}

// applyOne executes the DDL and records the version in one
// transaction, so a failed migration leaves no bookkeeping entry.
func (r *Runner) applyOne(ctx context.Context, m Migration) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return classify(m.Version, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return classify(m.Version, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
		return classify(m.Version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classify(m.Version, err)
	}
	return nil
}
