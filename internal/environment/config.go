package environment

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/programme-lv/judge/internal/engine"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/xdg"
)

const appName = "judge"

type EnvConfig struct {
	WorkDir          string
	ProblemsDir      string
	LanguagesFile    string
	TimeLimit        time.Duration
	CompileTimeLimit time.Duration
	MemoryLimitKiB   int64
	OutputLimitBytes int64
	MaxParallel      int

	NatsURL           string
	NatsSubjectPrefix string
	NatsQueueGroup    string
	SqsRegion         string
	RateLimit         float64
	MetricsAddr       string

	LogLevel  string
	LogFormat string
}

// ReadEnvConfig loads an optional .env file and reads the configuration
// from the environment. Unparsable values are replaced by their defaults.
func ReadEnvConfig(logger *slog.Logger) *EnvConfig {
	if logger == nil {
		logger = slog.Default()
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env file", "err", err)
	}

	dirs := xdg.NewXDGDirs()
	r := reader{logger: logger}

	result := &EnvConfig{
		WorkDir:          r.str("JUDGE_WORK_DIR", filepath.Join(dirs.AppRuntimeDir(appName), "work")),
		ProblemsDir:      r.str("JUDGE_PROBLEMS_DIR", filepath.Join(dirs.AppDataDir(appName), "problems")),
		LanguagesFile:    r.str("JUDGE_LANGUAGES_FILE", defaultLanguagesFile(dirs)),
		TimeLimit:        r.duration("JUDGE_TIME_LIMIT", 2*time.Second),
		CompileTimeLimit: r.duration("JUDGE_COMPILE_TIME_LIMIT", 10*time.Second),
		MemoryLimitKiB:   r.integer("JUDGE_MEMORY_LIMIT_KIB", 256*1024),
		OutputLimitBytes: r.integer("JUDGE_OUTPUT_LIMIT_BYTES", 64*1024*1024),
		MaxParallel:      int(r.integer("JUDGE_MAX_PARALLEL", 0)),

		NatsURL:           r.str("NATS_URL", "nats://127.0.0.1:4222"),
		NatsSubjectPrefix: r.str("NATS_SUBJECT_PREFIX", "judge"),
		NatsQueueGroup:    r.str("NATS_QUEUE_GROUP", "judge-workers"),
		SqsRegion:         r.str("JUDGE_SQS_REGION", "eu-central-1"),
		RateLimit:         r.float("JUDGE_RATE_LIMIT", 50),
		MetricsAddr:       r.strAllowEmpty("METRICS_ADDR", ":9090"),

		LogLevel:  r.str("LOG_LEVEL", "info"),
		LogFormat: r.str("LOG_FORMAT", "text"),
	}
	return result
}

// Limits returns the default per-run limits.
func (c *EnvConfig) Limits() execution.Limits {
	return execution.Limits{
		TimeLimit:        c.TimeLimit,
		MemoryLimitKiB:   c.MemoryLimitKiB,
		OutputLimitBytes: c.OutputLimitBytes,
	}
}

func (c *EnvConfig) Engine() engine.Config {
	return engine.Config{
		WorkDir:          c.WorkDir,
		LanguagesFile:    c.LanguagesFile,
		Limits:           c.Limits(),
		CompileTimeLimit: c.CompileTimeLimit,
		MaxParallel:      c.MaxParallel,
	}
}

// defaultLanguagesFile picks up $XDG_CONFIG_HOME/judge/languages.toml when
// it exists.
func defaultLanguagesFile(dirs *xdg.XDGDirs) string {
	path := filepath.Join(dirs.AppConfigDir(appName), "languages.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

type reader struct {
	logger *slog.Logger
}

func (r reader) str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// strAllowEmpty lets an explicitly empty variable turn a feature off.
func (r reader) strAllowEmpty(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func (r reader) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		r.invalid(key, v, def)
		return def
	}
	return d
}

func (r reader) integer(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		r.invalid(key, v, def)
		return def
	}
	return n
}

func (r reader) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		r.invalid(key, v, def)
		return def
	}
	return f
}

func (r reader) invalid(key, value string, def any) {
	r.logger.Warn("invalid configuration value, using default", "key", key, "value", value, "default", def)
}
