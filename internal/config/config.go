package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	GRPCAddr    string // FLOWLINT_GRPC_ADDR (default ":9090")
	HTTPAddr    string // FLOWLINT_HTTP_ADDR (default ":8080")
	DatabaseURL string // FLOWLINT_DATABASE_URL (optional, empty = reports disabled)
	NATSURL     string // FLOWLINT_NATS_URL (optional, empty = no events)
	AuthToken   string // FLOWLINT_AUTH_TOKEN (optional, empty = auth disabled)

	// Linter settings
	Registry      string // FLOWLINT_REGISTRY (file path or s3://bucket/key; empty = built-in)
	Mode          string // FLOWLINT_MODE (default "flow")
	StrictOutputs bool   // FLOWLINT_STRICT_OUTPUTS (default false)
	StrictEmpty   bool   // FLOWLINT_STRICT_EMPTY (default false)

	// S3 settings, shared by the registry source and report export
	S3Region   string // FLOWLINT_S3_REGION (default "us-east-1")
	S3Endpoint string // FLOWLINT_S3_ENDPOINT (custom endpoint for MinIO)

	// Export settings
	ExportInterval time.Duration // FLOWLINT_EXPORT_INTERVAL (default 0 = disabled)
	ExportBucket   string        // FLOWLINT_EXPORT_BUCKET (S3 destination)
	ExportKey      string        // FLOWLINT_EXPORT_KEY (default "flowlint/reports.jsonl")
	ExportFile     string        // FLOWLINT_EXPORT_FILE (local file destination)
}

func Load() (*Config, error) {
	c := &Config{
		GRPCAddr:     envOrDefault("FLOWLINT_GRPC_ADDR", ":9090"),
		HTTPAddr:     envOrDefault("FLOWLINT_HTTP_ADDR", ":8080"),
		DatabaseURL:  os.Getenv("FLOWLINT_DATABASE_URL"),
		NATSURL:      os.Getenv("FLOWLINT_NATS_URL"),
		AuthToken:    os.Getenv("FLOWLINT_AUTH_TOKEN"),
		Registry:     os.Getenv("FLOWLINT_REGISTRY"),
		Mode:         envOrDefault("FLOWLINT_MODE", "flow"),
		S3Region:     envOrDefault("FLOWLINT_S3_REGION", "us-east-1"),
		S3Endpoint:   os.Getenv("FLOWLINT_S3_ENDPOINT"),
		ExportBucket: os.Getenv("FLOWLINT_EXPORT_BUCKET"),
		ExportKey:    envOrDefault("FLOWLINT_EXPORT_KEY", "flowlint/reports.jsonl"),
		ExportFile:   os.Getenv("FLOWLINT_EXPORT_FILE"),
	}

	var err error
	if c.StrictOutputs, err = envBool("FLOWLINT_STRICT_OUTPUTS"); err != nil {
		return nil, err
	}
	if c.StrictEmpty, err = envBool("FLOWLINT_STRICT_EMPTY"); err != nil {
		return nil, err
	}

	if s := os.Getenv("FLOWLINT_EXPORT_INTERVAL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("FLOWLINT_EXPORT_INTERVAL: %w", err)
		}
		c.ExportInterval = d
	}
	if c.ExportInterval > 0 && c.ExportBucket == "" && c.ExportFile == "" {
		return nil, fmt.Errorf("FLOWLINT_EXPORT_BUCKET or FLOWLINT_EXPORT_FILE is required when FLOWLINT_EXPORT_INTERVAL is set")
	}

	return c, nil
}

// ReportsEnabled reports whether lint reports are persisted to the database.
// Without one the server keeps recent reports in memory.
func (c *Config) ReportsEnabled() bool {
	return c.DatabaseURL != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
