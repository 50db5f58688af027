package storage

import "time"

// Config holds S3-compatible storage configuration.
type Config struct {
	Bucket    string `env:"MAILMERGE_S3_BUCKET"`
	AccessKey string `env:"MAILMERGE_S3_ACCESS_KEY"`
	SecretKey string `env:"MAILMERGE_S3_SECRET_KEY"`
	// Endpoint is a custom endpoint URL for MinIO or other S3-compatible services.
	Endpoint string `env:"MAILMERGE_S3_ENDPOINT"`
	Region   string `env:"MAILMERGE_S3_REGION" envDefault:"us-east-1"`
	// Prefix is prepended to every key.
	Prefix string `env:"MAILMERGE_S3_PREFIX"`
	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool `env:"MAILMERGE_S3_PATH_STYLE"`
}

// FileInfo describes an uploaded object.
type FileInfo struct {
	Key         string
	ContentType string
	Size        int64
}

// Default configuration values.
const (
	DefaultRegion    = "us-east-1"
	DefaultURLExpiry = 15 * time.Minute
)

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

func (c *Config) validate() error {
	var missing []string
	if c.Bucket == "" {
		missing = append(missing, "bucket")
	}
	if c.AccessKey == "" {
		missing = append(missing, "access key")
	}
	if c.SecretKey == "" {
		missing = append(missing, "secret key")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}
