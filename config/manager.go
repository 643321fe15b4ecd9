package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	defaultConfigPath = "config/app.yaml"
	envPrefix         = "FALCON_"
)

func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	cfgPath := resolveConfigPath()
	if st, err := os.Stat(cfgPath); err == nil && !st.IsDir() {
		if err := cleanenv.ReadConfig(cfgPath, cfg); err != nil {
			return nil, err
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	applyEnvAliases(cfg)
	normalizeConfig(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvAliases(cfg *AppConfig) {
	if cfg == nil {
		return
	}
	if v := getEnv("PEPPER"); v != "" {
		cfg.Pepper = strings.TrimSpace(v)
	}
	if v := getEnv("ENV", "APP_ENV"); v != "" {
		cfg.AppEnv = strings.TrimSpace(v)
	}
	if v := getEnv("DATA_PATH", envPrefix+"DATA_PATH"); v != "" {
		cfg.StatePath = filepathJoin(strings.TrimSpace(v), "falcon.db")
	}
	if v := getEnv("STATE_PATH"); v != "" {
		cfg.StatePath = strings.TrimSpace(v)
	}
	if v := getEnv("METRICS_TOKEN"); v != "" {
		cfg.Observability.MetricsToken = strings.TrimSpace(v)
	}
}

func normalizeConfig(cfg *AppConfig) {
	if cfg == nil {
		return
	}
	cfg.StatePath = strings.TrimSpace(cfg.StatePath)
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.Pepper = strings.TrimSpace(cfg.Pepper)
	cfg.Observability.ListenAddr = strings.TrimSpace(cfg.Observability.ListenAddr)
	if cfg.StatePath == "" {
		cfg.StatePath = filepathJoin("var", "data", "falcon.db")
	}
	if cfg.Persistence.DebounceInterval <= 0 {
		cfg.Persistence.DebounceInterval = 100 * time.Millisecond
	}
	if cfg.Persistence.FlushInterval <= 0 {
		cfg.Persistence.FlushInterval = 30 * time.Second
	}
	if cfg.Persistence.QuotaBytes <= 0 {
		cfg.Persistence.QuotaBytes = 5 * 1024 * 1024
	}
	if cfg.Security.MaxLoginAttempts <= 0 {
		cfg.Security.MaxLoginAttempts = 5
	}
	if cfg.Security.LockoutDuration <= 0 {
		cfg.Security.LockoutDuration = 30 * time.Second
	}
	if cfg.Security.LogRetention <= 0 {
		cfg.Security.LogRetention = 2000
	}
	if cfg.Observability.ListenAddr == "" {
		cfg.Observability.ListenAddr = "127.0.0.1:9187"
	}
}

func getEnv(keys ...string) string {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return ""
}

func filepathJoin(parts ...string) string {
	return filepath.Join(parts...)
}

func resolveConfigPath() string {
	if v := getEnv("APP_CONFIG", envPrefix+"APP_CONFIG"); v != "" {
		return strings.TrimSpace(v)
	}
	return defaultConfigPath
}
