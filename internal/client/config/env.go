package config

import "os"

// parseEnv overlays Config with environment values.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv("WAYPLAN_SERVER_URL"); ok && v != "" {
		cfg.ServerURL = v
	}
}
