package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	AI       AIConfig
	Grading  GradingConfig
	Log      LogConfig
}

type AppConfig struct {
	AppName       string
	Environment   string
	HTTPPort      string
	MigrationsDir string
	// WSAllowedOrigins limits websocket upgrades; empty allows any origin.
	WSAllowedOrigins []string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	// SlowQueryThreshold enables statement tracing; zero disables it.
	SlowQueryThreshold time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiresIn time.Duration
	Issuer          string
}

type AIConfig struct {
	GeminiAPIKey    string
	Model           string
	ClassifyTimeout time.Duration
	SynonymTimeout  time.Duration
	Temperature     float32
	MaxTokens       int32
	MaxLogLength    int
}

type GradingConfig struct {
	CoreThreshold float64
	RadarLimit    int
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("DB_POOL_MAX_CONNS", 10)
	v.SetDefault("DB_POOL_MIN_CONNS", 1)
	v.SetDefault("DB_POOL_MAX_CONN_LIFETIME", "1h")
	v.SetDefault("DB_POOL_MAX_CONN_IDLE_TIME", "30m")
	v.SetDefault("DB_POOL_HEALTH_CHECK_PERIOD", "1m")
	v.SetDefault("DB_SLOW_QUERY_THRESHOLD", "200ms")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_TTL", 600)

	v.SetDefault("JWT_ACCESS_EXPIRES_IN", "15m")
	v.SetDefault("JWT_ISSUER", "hrcore")

	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("AI_CLASSIFY_TIMEOUT", "15s")
	v.SetDefault("AI_SYNONYM_TIMEOUT", "8s")
	v.SetDefault("AI_TEMPERATURE", 0.1)
	v.SetDefault("AI_MAX_TOKENS", 800)
	v.SetDefault("AI_MAX_LOG_LENGTH", 200)

	v.SetDefault("GRADING_CORE_THRESHOLD", 0.85)
	v.SetDefault("GRADING_RADAR_LIMIT", 7)
}

// Load reads configuration from the environment and, when configFile is set,
// from that file. Environment values win over file values.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if strings.TrimSpace(configFile) != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:       req("APP_NAME"),
		Environment:   req("APP_ENV"),
		HTTPPort:      req("HTTP_PORT"),
		MigrationsDir: opt("MIGRATIONS_DIR"),

		WSAllowedOrigins: splitList(opt("WS_ALLOWED_ORIGINS")),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),
		SlowQueryThreshold:    v.GetDuration("DB_SLOW_QUERY_THRESHOLD"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      time.Duration(v.GetInt("REDIS_TTL")) * time.Second,
	}

	cfg.JWT = JWTConfig{
		AccessSecret:    req("JWT_ACCESS_SECRET"),
		AccessExpiresIn: v.GetDuration("JWT_ACCESS_EXPIRES_IN"),
		Issuer:          opt("JWT_ISSUER"),
	}

	cfg.AI = AIConfig{
		GeminiAPIKey:    opt("GEMINI_API_KEY"),
		Model:           opt("GEMINI_MODEL"),
		ClassifyTimeout: v.GetDuration("AI_CLASSIFY_TIMEOUT"),
		SynonymTimeout:  v.GetDuration("AI_SYNONYM_TIMEOUT"),
		Temperature:     float32(v.GetFloat64("AI_TEMPERATURE")),
		MaxTokens:       v.GetInt32("AI_MAX_TOKENS"),
		MaxLogLength:    v.GetInt("AI_MAX_LOG_LENGTH"),
	}

	cfg.Grading = GradingConfig{
		CoreThreshold: v.GetFloat64("GRADING_CORE_THRESHOLD"),
		RadarLimit:    v.GetInt("GRADING_RADAR_LIMIT"),
	}

	cfg.Log = LogConfig{
		JSON:  v.GetBool("LOG_JSON"),
		Debug: v.GetBool("LOG_DEBUG"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if cfg.Grading.CoreThreshold <= 0 || cfg.Grading.CoreThreshold > 1 {
		return Config{}, fmt.Errorf("GRADING_CORE_THRESHOLD must be in (0,1], got %v", cfg.Grading.CoreThreshold)
	}
	if cfg.Grading.RadarLimit < 1 {
		return Config{}, fmt.Errorf("GRADING_RADAR_LIMIT must be positive, got %d", cfg.Grading.RadarLimit)
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
