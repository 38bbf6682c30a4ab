package config

import "os"

// parseEnv overlays WAYPLAN_* environment variables onto the Config.
// Typically populated from a .env file loaded by the composition root.
func parseEnv(config *Config) {
	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	set(&config.HTTPAddr, "WAYPLAN_HTTP_ADDR")
	set(&config.PublicBaseURL, "WAYPLAN_PUBLIC_BASE_URL")
	set(&config.CORSAllowedOrigin, "WAYPLAN_CORS_ALLOWED_ORIGIN")
	set(&config.DatabaseDSN, "DATABASE_URL")
	set(&config.SecretKey, "WAYPLAN_SECRET_KEY")
	set(&config.S3RootUser, "WAYPLAN_S3_ROOT_USER")
	set(&config.S3RootPassword, "WAYPLAN_S3_ROOT_PASSWORD")
	set(&config.S3Bucket, "WAYPLAN_S3_BUCKET")
	set(&config.S3Region, "WAYPLAN_S3_REGION")
	set(&config.S3BaseEndpoint, "WAYPLAN_S3_BASE_ENDPOINT")
}
