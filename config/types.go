package config

import "time"

type AppConfig struct {
	StatePath string `yaml:"state_path" env:"FALCON_STATE_PATH"`
	AppEnv    string `yaml:"app_env" env:"FALCON_APP_ENV"`
	Pepper    string `yaml:"pepper" env:"FALCON_PEPPER"`

	Persistence   PersistenceConfig   `yaml:"persistence"`
	Security      SecurityConfig      `yaml:"security"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type PersistenceConfig struct {
	DebounceInterval time.Duration `yaml:"debounce_interval" env:"FALCON_DEBOUNCE_INTERVAL"`
	FlushInterval    time.Duration `yaml:"flush_interval" env:"FALCON_FLUSH_INTERVAL"`
	QuotaBytes       int64         `yaml:"quota_bytes" env:"FALCON_QUOTA_BYTES"`
}

type SecurityConfig struct {
	MaxLoginAttempts int           `yaml:"max_login_attempts" env:"FALCON_MAX_LOGIN_ATTEMPTS"`
	LockoutDuration  time.Duration `yaml:"lockout_duration" env:"FALCON_LOCKOUT_DURATION"`
	LogRetention     int           `yaml:"log_retention" env:"FALCON_LOG_RETENTION"`
}

type ObservabilityConfig struct {
	MetricsEnabled bool   `yaml:"metrics_enabled" env:"FALCON_METRICS_ENABLED"`
	ListenAddr     string `yaml:"listen_addr" env:"FALCON_METRICS_LISTEN_ADDR"`
	MetricsToken   string `yaml:"metrics_token" env:"FALCON_METRICS_TOKEN"`
}

func (c *AppConfig) IsDev() bool {
	if c == nil {
		return false
	}
	return c.AppEnv == "dev"
}
