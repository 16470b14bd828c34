// Package config handles runtime configuration for ClassVault,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the ClassVault application.
//
// Fields:
//   - DatabaseDSN: where the durable partitions live. "file:..." paths and
//     ":memory:" open SQLite; "postgres://..." opens PostgreSQL via pgx.
//   - BlobBackend: "sql" stores blobs next to the documents, "s3" stores
//     them in an S3-compatible bucket.
//   - SecretKey: HMAC secret for signing session JWTs (HS256). Do not use
//     the test default in production.
//   - SessionTokenValidityDuration: lifetime of issued session tokens.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
type Config struct {
	DatabaseDSN                  string
	BlobBackend                  string
	SecretKey                    string
	SessionTokenValidityDuration time.Duration
	S3RootUser                   string
	S3RootPassword               string
	S3Bucket                     string
	S3Region                     string
	S3BaseEndpoint               string
}

const (
	BlobBackendSQL = "sql"
	BlobBackendS3  = "s3"
)

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "file:classvault.db"
	c.BlobBackend = BlobBackendSQL
	c.SecretKey = "secretKey"
	c.SessionTokenValidityDuration = 24 * time.Hour
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "classvault"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
