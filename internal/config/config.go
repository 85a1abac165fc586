package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	PasswordSchemePlaintext = "plaintext"
	PasswordSchemeArgon2id  = "argon2id"
)

type SMTP struct {
	Host   string
	Port   int
	Secure bool // implicit TLS (SMTPS) instead of STARTTLS
	User   string
	Pass   string
	From   string
}

type Config struct {
	// DB
	DatabaseURL   string
	MigrationsDir string // empty selects the embedded set
	LogSQL        bool

	// Registration
	AppBaseURL        string
	RegTokenTTL       time.Duration
	PasswordMinLength int
	PasswordScheme    string
	SeedDefaultUsers  bool

	// Mail
	SMTP        SMTP
	MailTimeout time.Duration

	// HTTP
	Addr           string
	TrustProxy     bool
	RequestTimeout time.Duration
	ExposeErrors   bool

	Environment string
	LogLevel    string
}

// Load resolves configuration from, in increasing priority: built-in
// defaults, the optional YAML file at path, a .env file in the working
// directory and the process environment.
func Load(path string) (Config, error) {
	file := map[string]string{}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}
	return load(file)
}

func load(file map[string]string) (Config, error) {
	src := source{file: file}
	env := src.getenv("ENVIRONMENT", "dev")

	cfg := Config{
		DatabaseURL:   src.getenv("DATABASE_URL", "file:employee_portal.sqlite"),
		MigrationsDir: src.getenv("MIGRATIONS_DIR", ""),
		LogSQL:        src.getbool("LOG_SQL", false),

		AppBaseURL:        strings.TrimRight(src.getenv("APP_BASE_URL", "http://localhost:5173"), "/"),
		RegTokenTTL:       time.Duration(src.getint("REG_TOKEN_HOURS", 24)) * time.Hour,
		PasswordMinLength: src.getint("PASSWORD_MIN_LENGTH", 8),
		PasswordScheme:    strings.ToLower(src.getenv("PASSWORD_SCHEME", PasswordSchemePlaintext)),
		SeedDefaultUsers:  src.getbool("SEED_DEFAULT_USERS", true),

		SMTP: SMTP{
			Host:   src.getenv("SMTP_HOST", ""),
			Port:   src.getint("SMTP_PORT", 587),
			Secure: src.getbool("SMTP_SECURE", false),
			User:   src.getenv("SMTP_USER", ""),
			Pass:   src.getenv("SMTP_PASS", ""),
			From:   src.getenv("SMTP_FROM", "no-reply@company.com"),
		},
		MailTimeout: src.getdur("MAIL_TIMEOUT", 15*time.Second),

		Addr:           src.getenv("ADDR", ":4000"),
		TrustProxy:     src.getbool("TRUST_PROXY", true),
		RequestTimeout: src.getdur("REQUEST_TIMEOUT", 30*time.Second),
		ExposeErrors:   src.getbool("EXPOSE_ERRORS", env == "dev"),

		Environment: env,
		LogLevel:    src.getenv("LOG_LEVEL", "info"),
	}

	if port := src.getenv("PORT", ""); port != "" && src.getenv("ADDR", "") == "" {
		cfg.Addr = ":" + port
	}

	switch cfg.PasswordScheme {
	case PasswordSchemePlaintext, PasswordSchemeArgon2id:
	default:
		return Config{}, fmt.Errorf("unknown PASSWORD_SCHEME %q", cfg.PasswordScheme)
	}
	if cfg.RegTokenTTL <= 0 {
		return Config{}, errors.New("REG_TOKEN_HOURS must be positive")
	}
	return cfg, nil
}

// source looks a key up in the environment first and the config file second.
type source struct {
	file map[string]string
}

func (s source) lookup(k string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return s.file[k]
}

func (s source) getenv(k, def string) string {
	if v := s.lookup(k); v != "" {
		return v
	}
	return def
}

func (s source) getbool(k string, def bool) bool {
	if v := s.lookup(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		slog.Warn("invalid bool, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func (s source) getint(k string, def int) int {
	if v := s.lookup(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		slog.Warn("invalid integer, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func (s source) getdur(k string, def time.Duration) time.Duration {
	if v := s.lookup(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration, using default", "key", k, "value", v, "default", def)
	}
	return def
}
