package config

import "os"

const (
	defaultDataDir       = "data"
	defaultAdminPassword = "admin123"
)

// Config holds the application configuration.
type Config struct {
	// DataDir is the directory holding the three table files.
	DataDir string
	// AdminPassword is only used when seeding the default admin account on
	// first run; it never rewrites an existing row.
	AdminPassword string
}

// LoadFromEnv reads configuration from environment variables, falling back
// to the defaults the original deployment used.
func LoadFromEnv() *Config {
	cfg := &Config{
		DataDir:       defaultDataDir,
		AdminPassword: defaultAdminPassword,
	}
	if v := os.Getenv("LIBRARY_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LIBRARY_ADMIN_PASSWORD"); v != "" {
		cfg.AdminPassword = v
	}
	return cfg
}
