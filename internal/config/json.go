package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/edkeeper/classvault/internal/flagx"
	"github.com/edkeeper/classvault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the token lifetime either as a string
// like "24h" or as integer nanoseconds. After parsing, values are copied
// into the runtime Config.
type JsonConfig struct {
	DatabaseDSN                  string         `json:"database_dsn"`
	BlobBackend                  string         `json:"blob_backend"`
	SecretKey                    string         `json:"secret_key"`
	SessionTokenValidityDuration timex.Duration `json:"session_token_validity"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. When no file is named, cfg is left untouched. Empty JSON
// fields do not override earlier sources. Read or unmarshal errors panic;
// configuration is resolved once during startup and a broken file should be
// loud.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.BlobBackend != "" {
		cfg.BlobBackend = jc.BlobBackend
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.SessionTokenValidityDuration.Duration != 0 {
		cfg.SessionTokenValidityDuration = time.Duration(jc.SessionTokenValidityDuration.Duration)
	}
	if jc.S3RootUser != "" {
		cfg.S3RootUser = jc.S3RootUser
	}
	if jc.S3RootPassword != "" {
		cfg.S3RootPassword = jc.S3RootPassword
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
}
