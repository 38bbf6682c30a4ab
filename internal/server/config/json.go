package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/wayplan/wayplan/internal/flagx"
)

// JsonConfig is the DTO used for reading JSON configuration files. Token
// lifetimes are given in minutes; after unmarshalling, values are copied
// into the runtime Config.
type JsonConfig struct {
	HTTPAddr                string `json:"http_addr"`
	PublicBaseURL           string `json:"public_base_url"`
	CORSAllowedOrigin       string `json:"cors_allowed_origin"`
	DatabaseDSN             string `json:"database_dsn"`
	SecretKey               string `json:"secret_key"`
	AccessTokenValidityMin  int    `json:"access_token_validity_min"`
	RefreshTokenValidityMin int    `json:"refresh_token_validity_min"`
	S3RootUser              string `json:"s3_root_user"`
	S3RootPassword          string `json:"s3_root_password"`
	S3Bucket                string `json:"s3_bucket"`
	S3Region                string `json:"s3_region"`
	S3BaseEndpoint          string `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. Absent flags mean no JSON
// overlay; an unreadable or malformed file panics, since the operator
// explicitly asked for it.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.HTTPAddr != "" {
		config.HTTPAddr = c.HTTPAddr
	}
	if c.PublicBaseURL != "" {
		config.PublicBaseURL = c.PublicBaseURL
	}
	if c.CORSAllowedOrigin != "" {
		config.CORSAllowedOrigin = c.CORSAllowedOrigin
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityMin > 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityMin) * time.Minute
	}
	if c.RefreshTokenValidityMin > 0 {
		config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityMin) * time.Minute
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
