package db

import (
	"log"
	"net/url"
	"path"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

type Config struct {
	URL    string // postgres://... or a SQLite file path / file: URI
	LogSQL bool
}

// Dialect reports which driver a database URL selects.
func Dialect(rawURL string) string {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Open returns the single process-wide store handle. SQLite handles are
// limited to one connection so writes are serialized.
func Open(cfg Config) (*gorm.DB, error) {
	lvl := logger.Silent
	if cfg.LogSQL {
		lvl = logger.Info
	}
	gcfg := &gorm.Config{
		Logger: logger.New(log.New(log.Writer(), "", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  lvl,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		TranslateError: true,
	}

	if Dialect(cfg.URL) == DialectPostgres {
		return gorm.Open(postgres.Open(cfg.URL), gcfg)
	}

	gdb, err := gorm.Open(sqlite.Open(SQLiteDSN(cfg.URL)), gcfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return gdb, nil
}

// SQLiteDSN turns a plain path or file: URI into a DSN with foreign keys
// enforced and a busy timeout.
func SQLiteDSN(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "file:employee_portal.sqlite"
	}
	if !strings.HasPrefix(raw, "file:") {
		raw = "file:" + raw
	}
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	params := url.Values{}
	if !strings.Contains(raw, "_foreign_keys") {
		params.Set("_foreign_keys", "on")
	}
	if !strings.Contains(raw, "_busy_timeout") {
		params.Set("_busy_timeout", "5000")
	}
	if len(params) == 0 {
		return raw
	}
	return raw + sep + params.Encode()
}

// Name is the database name reported by the health endpoint.
func Name(rawURL string) string {
	if Dialect(rawURL) == DialectPostgres {
		if u, err := url.Parse(rawURL); err == nil {
			return strings.TrimPrefix(u.Path, "/")
		}
		return ""
	}
	p := strings.TrimPrefix(strings.TrimSpace(rawURL), "file:")
	if i := strings.Index(p, "?"); i >= 0 {
		p = p[:i]
	}
	return path.Base(p)
}
