package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matchsight/analysis-api/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheTTL                time.Duration
	CORSAllowedOrigins      []string
	Timezone                string
	ShareBaseURL            string
	InternalJobToken        string
	RefreshLeagues          []string
	RefreshMaxWorkers       int

	OddsAPIBaseURL               string
	OddsAPIKey                   string
	OddsAPITimeout               time.Duration
	OddsAPIMaxRetries            int
	OddsAPICircuitEnabled        bool
	OddsAPICircuitFailureCount   int
	OddsAPICircuitOpenTimeout    time.Duration
	OddsAPICircuitHalfOpenMaxReq int
	InsightBaseURL               string
	InsightToken                 string
	InsightTimeout               time.Duration
	InsightMaxRetries            int
	InsightCircuitEnabled        bool
	InsightCircuitFailureCount   int
	InsightCircuitOpenTimeout    time.Duration
	InsightCircuitHalfOpenMaxReq int

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

// ManualEntry reports whether the service runs without a live odds provider.
func (c Config) ManualEntry() bool {
	return c.OddsAPIKey == ""
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	oddsTimeout, err := time.ParseDuration(getEnv("ODDS_API_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_API_TIMEOUT: %w", err)
	}
	if oddsTimeout <= 0 {
		return Config{}, fmt.Errorf("ODDS_API_TIMEOUT must be > 0")
	}
	oddsMaxRetries, err := getEnvAsInt("ODDS_API_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_API_MAX_RETRIES: %w", err)
	}
	if oddsMaxRetries < 0 {
		return Config{}, fmt.Errorf("ODDS_API_MAX_RETRIES must be >= 0")
	}
	oddsCircuitEnabled, err := strconv.ParseBool(getEnv("ODDS_API_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_API_CIRCUIT_ENABLED: %w", err)
	}
	oddsCircuitFailureCount, err := getEnvAsInt("ODDS_API_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_API_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if oddsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("ODDS_API_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	oddsCircuitOpenTimeout, err := time.ParseDuration(getEnv("ODDS_API_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_API_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if oddsCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("ODDS_API_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	oddsCircuitHalfOpenMaxReq, err := getEnvAsInt("ODDS_API_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_API_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if oddsCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("ODDS_API_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	insightTimeout, err := time.ParseDuration(getEnv("INSIGHT_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INSIGHT_TIMEOUT: %w", err)
	}
	if insightTimeout <= 0 {
		return Config{}, fmt.Errorf("INSIGHT_TIMEOUT must be > 0")
	}
	insightMaxRetries, err := getEnvAsInt("INSIGHT_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse INSIGHT_MAX_RETRIES: %w", err)
	}
	if insightMaxRetries < 0 {
		return Config{}, fmt.Errorf("INSIGHT_MAX_RETRIES must be >= 0")
	}
	insightCircuitEnabled, err := strconv.ParseBool(getEnv("INSIGHT_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INSIGHT_CIRCUIT_ENABLED: %w", err)
	}
	insightCircuitFailureCount, err := getEnvAsInt("INSIGHT_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse INSIGHT_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if insightCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("INSIGHT_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	insightCircuitOpenTimeout, err := time.ParseDuration(getEnv("INSIGHT_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INSIGHT_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if insightCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("INSIGHT_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	insightCircuitHalfOpenMaxReq, err := getEnvAsInt("INSIGHT_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse INSIGHT_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if insightCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("INSIGHT_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	refreshMaxWorkers, err := getEnvAsInt("REFRESH_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_MAX_WORKERS: %w", err)
	}
	if refreshMaxWorkers < 1 {
		return Config{}, fmt.Errorf("REFRESH_MAX_WORKERS must be >= 1")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "match-analysis-api"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,
		DBURL:                   strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		CacheTTL:                cacheTTL,
		CORSAllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		Timezone:                strings.TrimSpace(getEnv("APP_TIMEZONE", "")),
		ShareBaseURL:            strings.TrimSpace(getEnv("SHARE_BASE_URL", "http://localhost:8080")),
		InternalJobToken:        strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		RefreshLeagues:          splitCSV(getEnv("REFRESH_LEAGUES", "soccer_epl")),
		RefreshMaxWorkers:       refreshMaxWorkers,

		OddsAPIBaseURL:               strings.TrimSpace(getEnv("ODDS_API_BASE_URL", "https://api.the-odds-api.com/v4")),
		OddsAPIKey:                   strings.TrimSpace(getEnv("ODDS_API_KEY", "")),
		OddsAPITimeout:               oddsTimeout,
		OddsAPIMaxRetries:            oddsMaxRetries,
		OddsAPICircuitEnabled:        oddsCircuitEnabled,
		OddsAPICircuitFailureCount:   oddsCircuitFailureCount,
		OddsAPICircuitOpenTimeout:    oddsCircuitOpenTimeout,
		OddsAPICircuitHalfOpenMaxReq: oddsCircuitHalfOpenMaxReq,

		InsightBaseURL:               strings.TrimSpace(getEnv("INSIGHT_BASE_URL", "")),
		InsightToken:                 strings.TrimSpace(getEnv("INSIGHT_TOKEN", "")),
		InsightTimeout:               insightTimeout,
		InsightMaxRetries:            insightMaxRetries,
		InsightCircuitEnabled:        insightCircuitEnabled,
		InsightCircuitFailureCount:   insightCircuitFailureCount,
		InsightCircuitOpenTimeout:    insightCircuitOpenTimeout,
		InsightCircuitHalfOpenMaxReq: insightCircuitHalfOpenMaxReq,

		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if len(cfg.RefreshLeagues) == 0 {
		return Config{}, fmt.Errorf("REFRESH_LEAGUES cannot be empty")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
