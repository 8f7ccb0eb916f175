package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/soaringjerry/fairway/internal/utils"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreNone     = "none"

	AnswersMemory = "memory"
	AnswersFile   = "file"
	AnswersRedis  = "redis"
)

type Config struct {
	Addr      string `yaml:"addr"`
	Commit    string `yaml:"-"`
	BuildTime string `yaml:"-"`
	PublicURL string `yaml:"public_url"`
	Timezone  string `yaml:"timezone"`

	// StaticDir serves a built frontend at /. DevFrontendURL proxies / to a dev server instead.
	StaticDir      string `yaml:"static_dir"`
	DevFrontendURL string `yaml:"dev_frontend_url"`

	Log     LogConfig     `yaml:"log"`
	Store   StoreConfig   `yaml:"store"`
	Answers AnswersConfig `yaml:"answers"`
	Quiz    QuizConfig    `yaml:"quiz"`
	Admin   AdminConfig   `yaml:"admin"`
	CORS    CORSConfig    `yaml:"cors"`
	Otel    OtelConfig    `yaml:"otel"`
}

type LogConfig struct {
	Mode   string `yaml:"mode"`
	Level  string `yaml:"level"`
	Redact bool   `yaml:"redact"`
	Salt   string `yaml:"salt"`
}

// StoreConfig selects the reservation persistence backend once at start.
type StoreConfig struct {
	Backend       string `yaml:"backend"`
	SQLitePath    string `yaml:"sqlite_path"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	MigrationsDir string `yaml:"migrations_dir"`
	Seed          bool   `yaml:"seed"`
}

type AnswersConfig struct {
	Backend   string        `yaml:"backend"`
	Dir       string        `yaml:"dir"`
	RedisAddr string        `yaml:"redis_addr"`
	RedisDB   int           `yaml:"redis_db"`
	TTL       time.Duration `yaml:"ttl"`
}

type QuizConfig struct {
	Variant  string `yaml:"variant"`
	FontDir  string `yaml:"font_dir"`
	PageSize int    `yaml:"page_size"`
}

type AdminConfig struct {
	Username     string        `yaml:"username"`
	PasswordHash string        `yaml:"password_hash"`
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

func Default() Config {
	return Config{
		Addr:     ":8080",
		Timezone: "Asia/Seoul",
		Log:      LogConfig{Mode: "dev", Level: "info", Redact: true},
		Store: StoreConfig{
			Backend:    StoreMemory,
			SQLitePath: "data/fairway.db",
			Seed:       true,
		},
		Answers: AnswersConfig{
			Backend: AnswersMemory,
			Dir:     "data/answers",
			TTL:     30 * 24 * time.Hour,
		},
		Quiz:  QuizConfig{Variant: "standard", PageSize: 5},
		Admin: AdminConfig{Username: "admin", JWTSecret: "fairway-dev-secret", TokenTTL: 12 * time.Hour},
		CORS:  CORSConfig{Origins: []string{"*"}},
		Otel:  OtelConfig{SampleRatio: 0.1},
	}
}

// Load reads defaults, then the optional YAML file named by FAIRWAY_CONFIG, then FAIRWAY_*
// environment overrides.
func Load() (Config, error) {
	cfg := Default()
	if path := utils.SafeEnv("FAIRWAY_CONFIG", ""); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Addr = utils.SafeEnv("FAIRWAY_ADDR", c.Addr)
	c.Commit = utils.SafeEnv("FAIRWAY_COMMIT", c.Commit)
	c.BuildTime = utils.SafeEnv("FAIRWAY_BUILD_TIME", c.BuildTime)
	c.PublicURL = utils.SafeEnv("FAIRWAY_PUBLIC_URL", c.PublicURL)
	c.Timezone = utils.SafeEnv("FAIRWAY_TIMEZONE", c.Timezone)
	c.StaticDir = utils.SafeEnv("FAIRWAY_STATIC_DIR", c.StaticDir)
	c.DevFrontendURL = utils.SafeEnv("FAIRWAY_DEV_FRONTEND_URL", c.DevFrontendURL)

	c.Log.Mode = utils.SafeEnv("FAIRWAY_LOG_MODE", c.Log.Mode)
	c.Log.Level = utils.SafeEnv("FAIRWAY_LOG_LEVEL", c.Log.Level)
	c.Log.Redact = utils.EnvBool("FAIRWAY_LOG_REDACT", c.Log.Redact)
	c.Log.Salt = utils.SafeEnv("FAIRWAY_LOG_SALT", c.Log.Salt)

	c.Store.Backend = strings.ToLower(utils.SafeEnv("FAIRWAY_STORE_BACKEND", c.Store.Backend))
	c.Store.SQLitePath = utils.SafeEnv("FAIRWAY_SQLITE_PATH", c.Store.SQLitePath)
	c.Store.PostgresDSN = utils.SafeEnv("FAIRWAY_POSTGRES_DSN", c.Store.PostgresDSN)
	c.Store.MigrationsDir = utils.SafeEnv("FAIRWAY_MIGRATIONS_DIR", c.Store.MigrationsDir)
	c.Store.Seed = utils.EnvBool("FAIRWAY_SEED", c.Store.Seed)

	c.Answers.Backend = strings.ToLower(utils.SafeEnv("FAIRWAY_ANSWERS_BACKEND", c.Answers.Backend))
	c.Answers.Dir = utils.SafeEnv("FAIRWAY_ANSWERS_DIR", c.Answers.Dir)
	c.Answers.RedisAddr = utils.SafeEnv("FAIRWAY_REDIS_ADDR", c.Answers.RedisAddr)
	c.Answers.RedisDB = utils.EnvInt("FAIRWAY_REDIS_DB", c.Answers.RedisDB)
	c.Answers.TTL = utils.EnvDuration("FAIRWAY_ANSWERS_TTL", c.Answers.TTL)

	c.Quiz.Variant = strings.ToLower(utils.SafeEnv("FAIRWAY_QUIZ_VARIANT", c.Quiz.Variant))
	c.Quiz.FontDir = utils.SafeEnv("FAIRWAY_CARD_FONT_DIR", c.Quiz.FontDir)
	c.Quiz.PageSize = utils.EnvInt("FAIRWAY_QUIZ_PAGE_SIZE", c.Quiz.PageSize)

	c.Admin.Username = utils.SafeEnv("FAIRWAY_ADMIN_USER", c.Admin.Username)
	c.Admin.PasswordHash = utils.SafeEnv("FAIRWAY_ADMIN_PASSWORD_HASH", c.Admin.PasswordHash)
	c.Admin.JWTSecret = utils.SafeEnv("FAIRWAY_JWT_SECRET", c.Admin.JWTSecret)
	c.Admin.TokenTTL = utils.EnvDuration("FAIRWAY_ADMIN_TOKEN_TTL", c.Admin.TokenTTL)

	if origins := utils.SafeEnv("FAIRWAY_CORS_ORIGINS", ""); origins != "" {
		c.CORS.Origins = splitList(origins)
	}

	c.Otel.Enabled = utils.EnvBool("OTEL_ENABLED", c.Otel.Enabled)
	c.Otel.Endpoint = utils.SafeEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Otel.Endpoint)
	c.Otel.Insecure = utils.EnvBool("OTEL_EXPORTER_OTLP_INSECURE", c.Otel.Insecure)
	c.Otel.SampleRatio = utils.EnvFloat("OTEL_SAMPLER_RATIO", c.Otel.SampleRatio)
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreNone:
	case StoreSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			return errors.New("store.sqlite_path is required for the sqlite backend")
		}
	case StorePostgres:
		if strings.TrimSpace(c.Store.PostgresDSN) == "" {
			return errors.New("store.postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Answers.Backend {
	case AnswersMemory:
	case AnswersFile:
		if strings.TrimSpace(c.Answers.Dir) == "" {
			return errors.New("answers.dir is required for the file backend")
		}
	case AnswersRedis:
		if strings.TrimSpace(c.Answers.RedisAddr) == "" {
			return errors.New("answers.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown answers backend %q", c.Answers.Backend)
	}
	if c.Quiz.PageSize <= 0 {
		return errors.New("quiz.page_size must be positive")
	}
	return nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
