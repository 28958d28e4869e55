// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the territory keeper server.
//
// Fields:
//   - EndpointAddr: bind address for the public HTTP endpoint.
//   - DatabaseDSN: "postgres://" DSN (pgx) or a sqlite file path.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - ShareURLBase: public URL prefix share links are built from; the
//     share code is appended as the "shareId" query value.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings for the
//     optional snapshot archive. Empty S3BaseEndpoint disables archiving.
type Config struct {
	EndpointAddr                 string
	DatabaseDSN                  string
	SecretKey                    string
	ShareURLBase                 string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	S3RootUser                   string
	S3RootPassword               string
	S3Bucket                     string
	S3Region                     string
	S3BaseEndpoint               string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabaseDSN = "territorykeeper.db"
	c.SecretKey = "secretKey"
	c.ShareURLBase = "http://127.0.0.1:8080/open"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 720 * time.Hour
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "snapshots"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
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
