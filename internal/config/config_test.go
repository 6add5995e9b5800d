package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 900*time.Second, cfg.TokenExpiration)
				assert.Equal(t, "postgres", cfg.StoreDriver)
				assert.Equal(t, "entries", cfg.StoreTableName)
				assert.Equal(t, "pkey", cfg.DefaultPartitionKey)
				assert.Equal(t, 300*time.Second, cfg.StagingTTL)
				assert.Equal(t, int64(1<<20), cfg.MaxPayloadBytes)
				assert.Empty(t, cfg.TokenSigningKey)
				assert.Empty(t, cfg.KMSKeyURI)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom store configuration",
			envVars: map[string]string{
				"STORE_DRIVER":            "mysql",
				"STORE_CONNECTION_STRING": "user:password@tcp(localhost:3306)/tabledb",
				"STORE_TABLE_NAME":        "deployments",
				"DEFAULT_PARTITION_KEY":   "main",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mysql", cfg.StoreDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/tabledb", cfg.StoreConnectionString)
				assert.Equal(t, "deployments", cfg.StoreTableName)
				assert.Equal(t, "main", cfg.DefaultPartitionKey)
			},
		},
		{
			name: "load custom token configuration",
			envVars: map[string]string{
				"TOKEN_SIGNING_KEY":        "0123456789abcdef0123456789abcdef",
				"TOKEN_EXPIRATION_SECONDS": "60",
				"KMS_KEY_URI":              "base64key://",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.TokenSigningKey)
				assert.Equal(t, 60*time.Second, cfg.TokenExpiration)
				assert.Equal(t, "base64key://", cfg.KMSKeyURI)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			// Load configuration
			cfg := Load()

			// Validate
			tt.validate(t, cfg)
		})
	}
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}
