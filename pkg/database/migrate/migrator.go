package migrate

import (
	"context"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fekuna/penstore/pkg/logger"
)

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
)`

type Migrator struct {
	db  *sqlx.DB
	log logger.ZapLogger
}

func NewMigrator(db *sqlx.DB, log logger.ZapLogger) *Migrator {
	return &Migrator{db: db, log: log}
}

// Up applies every script in source whose version is above the recorded one.
// Scripts are named like "0002_migration_name.sql".
func (m *Migrator) Up(ctx context.Context, source fs.FS) error {
	if _, err := m.db.ExecContext(ctx, createVersionTable); err != nil {
		return errors.Wrap(err, "create schema_migrations")
	}

	list, err := fs.ReadDir(source, ".")
	if err != nil {
		return err
	}
	scripts := list[:0]
	for _, f := range list {
		if !f.IsDir() && strings.HasSuffix(f.Name(), ".sql") {
			scripts = append(scripts, f)
		}
	}
	if len(scripts) == 0 {
		return nil
	}
	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].Name() < scripts[j].Name()
	})

	current, err := m.Version(ctx)
	if err != nil {
		return err
	}

	final, err := scriptVersion(scripts[len(scripts)-1].Name())
	if err != nil {
		return err
	}
	if final > current {
		m.log.Info("Bringing up schema migrations", zap.Int("migration_count", final-current))
	}

	for _, f := range scripts {
		n := f.Name()
		v, err := scriptVersion(n)
		if err != nil {
			return err
		}
		if v <= current {
			continue
		}

		m.log.Debug("Executing schema migration", zap.String("migration_name", n))
		body, err := fs.ReadFile(source, n)
		if err != nil {
			return err
		}
		if err := m.apply(ctx, v, string(body)); err != nil {
			return errors.Wrapf(err, "migration %s", n)
		}
		current = v
	}
	return nil
}

// Version returns the highest applied migration, 0 for a fresh database.
func (m *Migrator) Version(ctx context.Context) (int, error) {
	var v int
	err := m.db.GetContext(ctx, &v, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	return v, err
}

func (m *Migrator) apply(ctx context.Context, version int, script string) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	q := m.db.Rebind(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`)
	if _, err := tx.ExecContext(ctx, q, version, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

// splitStatements breaks a script on semicolons and drops comment lines.
// Scripts must not contain semicolons inside literals.
func splitStatements(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";") {
		lines := []string{}
		for _, line := range strings.Split(part, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// extract the version number from a file named like "0002_migration_name.sql"
func scriptVersion(filename string) (int, error) {
	return strconv.Atoi(strings.Split(filename, "_")[0])
}
