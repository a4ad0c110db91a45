package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RegwatchConfiguration struct {
	Dsn            string
	ManagementDsn  string
	DatabaseName   string
	Sources        []string
	SyncInterval   time.Duration
	SyncTimeout    time.Duration
	MaxConcurrency int
	SourceRate     float64
	HeuristicsFile string
	RedisAddr      string
	RedisChannel   string
	LogMode        string
	HTTPAddr       string
}

// LoadEnvConfig loads configName into the environment (a missing file is not
// an error) and reads the configuration from environment variables.
func LoadEnvConfig(configName string) (RegwatchConfiguration, error) {
	if configName != "" {
		if err := godotenv.Load(configName); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return RegwatchConfiguration{}, fmt.Errorf("error loading %s: %w", configName, err)
		}
	}

	cfg := RegwatchConfiguration{
		Dsn:            os.Getenv("REGWATCH_DSN"),
		ManagementDsn:  os.Getenv("REGWATCH_MANAGEMENT_DSN"),
		DatabaseName:   envString("REGWATCH_DATABASE", "regwatch"),
		Sources:        splitList(os.Getenv("REGWATCH_SOURCES")),
		HeuristicsFile: os.Getenv("REGWATCH_HEURISTICS_FILE"),
		RedisAddr:      os.Getenv("REGWATCH_REDIS_ADDR"),
		RedisChannel:   envString("REGWATCH_REDIS_CHANNEL", "regwatch.alerts"),
		LogMode:        envString("REGWATCH_LOG_MODE", "dev"),
		HTTPAddr:       envString("REGWATCH_HTTP_ADDR", ":8080"),
	}

	var err error
	if cfg.SyncInterval, err = envDuration("REGWATCH_SYNC_INTERVAL", time.Hour); err != nil {
		return RegwatchConfiguration{}, err
	}
	if cfg.SyncTimeout, err = envDuration("REGWATCH_SYNC_TIMEOUT", 10*time.Minute); err != nil {
		return RegwatchConfiguration{}, err
	}
	if cfg.MaxConcurrency, err = envInt("REGWATCH_MAX_CONCURRENCY", 4); err != nil {
		return RegwatchConfiguration{}, err
	}
	if cfg.SourceRate, err = envFloat("REGWATCH_SOURCE_RATE", 5); err != nil {
		return RegwatchConfiguration{}, err
	}

	return cfg, nil
}

func envString(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s as integer: %w", name, err)
	}
	return i, nil
}

func envFloat(name string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s as number: %w", name, err)
	}
	return f, nil
}

func envDuration(name string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s as duration: %w", name, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
