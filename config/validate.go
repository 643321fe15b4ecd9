package config

import (
	"fmt"
	"strings"
)

const defaultPepper = "FALCON_SALT_2026"

func Validate(cfg *AppConfig) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if strings.TrimSpace(cfg.StatePath) == "" {
		return fmt.Errorf("state_path must be set")
	}
	if cfg.Persistence.DebounceInterval > cfg.Persistence.FlushInterval {
		return fmt.Errorf("persistence.debounce_interval must not exceed flush_interval")
	}
	if cfg.Pepper == "" {
		cfg.Pepper = defaultPepper
	}
	if cfg.Observability.MetricsEnabled && !cfg.IsDev() {
		if strings.TrimSpace(cfg.Observability.MetricsToken) == "" {
			return fmt.Errorf("observability.metrics_token must be set outside APP_ENV=dev")
		}
	}
	return nil
}
