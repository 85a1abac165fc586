// Package migrate applies forward-only schema migrations before the server
// accepts traffic. Every .sql file in the source directory is applied at
// most once, in lexical file name order, and recorded by exact file name in
// the migrations ledger table.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"employee-portal/internal/domain"
	"employee-portal/internal/observability/metrics"

	"gorm.io/gorm"
)

var ErrNilDB = errors.New("migrate: nil database handle")

// statementBoundary matches a ";" followed by optional whitespace and then
// a newline or the end of the file.
var statementBoundary = regexp.MustCompile(`;\s*(?:\n|$)`)

type Runner struct {
	db     *gorm.DB
	source fs.FS
	logger *slog.Logger
	now    func() time.Time
}

func New(db *gorm.DB, source fs.FS, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		db:     db,
		source: source,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Up applies every pending migration and returns the names it applied.
// Any failure aborts the failing migration's transaction and is returned;
// callers treat it as fatal.
func (r *Runner) Up(ctx context.Context) ([]string, error) {
	pending, err := r.Pending(ctx)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(pending))
	for _, name := range pending {
		if err := r.apply(ctx, name); err != nil {
			metrics.MigrationsAppliedTotal.WithLabelValues("failure").Inc()
			return applied, fmt.Errorf("migration %s failed: %w", name, err)
		}
		metrics.MigrationsAppliedTotal.WithLabelValues("success").Inc()
		r.logger.InfoContext(ctx, "applied migration", "name", name)
		applied = append(applied, name)
	}
	return applied, nil
}

// Pending lists migration files not yet recorded in the ledger, sorted.
func (r *Runner) Pending(ctx context.Context) ([]string, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return nil, err
	}
	files, err := r.files()
	if err != nil {
		return nil, err
	}
	done, err := r.Applied(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(done))
	for _, name := range done {
		seen[name] = struct{}{}
	}

	pending := make([]string, 0, len(files))
	for _, name := range files {
		if _, ok := seen[name]; !ok {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

// Applied returns the ledger contents in application order.
func (r *Runner) Applied(ctx context.Context) ([]string, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return nil, err
	}
	var names []string
	err := r.db.WithContext(ctx).
		Model(&domain.MigrationRecord{}).
		Order("id ASC").
		Pluck("name", &names).Error
	return names, err
}

func (r *Runner) ensureLedger(ctx context.Context) error {
	if r.db == nil {
		return ErrNilDB
	}
	m := r.db.WithContext(ctx).Migrator()
	if m.HasTable(&domain.MigrationRecord{}) {
		return nil
	}
	return m.CreateTable(&domain.MigrationRecord{})
}

func (r *Runner) files() ([]string, error) {
	entries, err := fs.ReadDir(r.source, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (r *Runner) apply(ctx context.Context, name string) error {
	raw, err := fs.ReadFile(r.source, name)
	if err != nil {
		return err
	}
	statements := SplitStatements(string(raw))

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, stmt := range statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("statement %d: %w", i+1, err)
			}
		}
		return tx.Create(&domain.MigrationRecord{Name: name, RunAt: r.now()}).Error
	})
}

// SplitStatements breaks a migration file into statements in file order.
// Fragments made only of whitespace and "--" comments are dropped.
func SplitStatements(sql string) []string {
	parts := statementBoundary.Split(sql, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || commentOnly(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func commentOnly(stmt string) bool {
	for _, line := range strings.Split(stmt, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return false
		}
	}
	return true
}
