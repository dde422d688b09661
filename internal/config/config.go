// Package config loads runtime configuration from an optional YAML file,
// a .env file, and environment variables, in increasing precedence.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/koustreak/CloudVault/internal/blobstore"
	"github.com/koustreak/CloudVault/internal/transfer"
)

// DefaultMaxFileSize is the upload size ceiling: 4 GiB.
const DefaultMaxFileSize = 4 << 30

// Config holds all runtime configuration for the daemon.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Vault    VaultConfig    `yaml:"vault"`
	Transfer TransferConfig `yaml:"transfer"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig tunes the presentation HTTP server.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":5000".
	Addr string `yaml:"addr"`

	// PresignTTLSeconds is how long web-issued streaming links stay valid.
	PresignTTLSeconds int `yaml:"presign_ttl_seconds"`
}

// StorageConfig holds the object-storage backend settings.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// VaultConfig tunes the file lifecycle coordinator.
type VaultConfig struct {
	// DBPath is the metadata database file.
	DBPath string `yaml:"db_path"`

	// TempDir is where files are staged during transfers.
	TempDir string `yaml:"temp_dir"`

	// MaxFileSize is the upload size ceiling in bytes.
	MaxFileSize int64 `yaml:"max_file_size"`

	// PresignTTLSeconds is how long bot-issued streaming links stay valid.
	PresignTTLSeconds int `yaml:"presign_ttl_seconds"`
}

// TransferConfig tunes the transfer engine and backend chunking.
type TransferConfig struct {
	Workers            int     `yaml:"workers"`
	PartSize           int64   `yaml:"part_size"`
	MultipartThreshold int64   `yaml:"multipart_threshold"`
	ConcurrentParts    int     `yaml:"concurrent_parts"`
	ProgressStep       float64 `yaml:"progress_step"`
}

// LogConfig tunes logging output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":5000",
			PresignTTLSeconds: 7200,
		},
		Vault: VaultConfig{
			DBPath:            "files_database.json",
			TempDir:           os.TempDir(),
			MaxFileSize:       DefaultMaxFileSize,
			PresignTTLSeconds: 3600,
		},
		Transfer: TransferConfig{
			Workers:            transfer.DefaultWorkers,
			PartSize:           blobstore.DefaultPartSize,
			MultipartThreshold: blobstore.DefaultMultipartThreshold,
			ConcurrentParts:    blobstore.DefaultConcurrentParts,
			ProgressStep:       transfer.DefaultProgressStep,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty or missing), then .env, then environment
// variables.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, err
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)

	c.Storage.Endpoint = getEnv("STORAGE_ENDPOINT", c.Storage.Endpoint)
	c.Storage.AccessKey = getEnv("STORAGE_ACCESS_KEY", c.Storage.AccessKey)
	c.Storage.SecretKey = getEnv("STORAGE_SECRET_KEY", c.Storage.SecretKey)
	c.Storage.Bucket = getEnv("STORAGE_BUCKET", c.Storage.Bucket)
	c.Storage.Region = getEnv("STORAGE_REGION", c.Storage.Region)
	c.Storage.UseSSL = getEnvBool("STORAGE_USE_SSL", c.Storage.UseSSL)

	c.Vault.DBPath = getEnv("VAULT_DB_PATH", c.Vault.DBPath)
	c.Vault.TempDir = getEnv("VAULT_TEMP_DIR", c.Vault.TempDir)
	c.Vault.MaxFileSize = getEnvInt64("MAX_FILE_SIZE", c.Vault.MaxFileSize)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// BlobstoreConfig assembles the backend config from the storage and
// transfer sections.
func (c *Config) BlobstoreConfig() *blobstore.Config {
	bc := blobstore.DefaultConfig(c.Storage.Endpoint, c.Storage.AccessKey, c.Storage.SecretKey, c.Storage.Bucket)
	bc.Region = c.Storage.Region
	bc.UseSSL = c.Storage.UseSSL
	if c.Transfer.PartSize > 0 {
		bc.PartSize = c.Transfer.PartSize
	}
	if c.Transfer.MultipartThreshold > 0 {
		bc.MultipartThreshold = c.Transfer.MultipartThreshold
	}
	if c.Transfer.ConcurrentParts > 0 {
		bc.ConcurrentParts = c.Transfer.ConcurrentParts
	}
	return bc
}

// EngineConfig assembles the transfer engine config.
func (c *Config) EngineConfig() transfer.Config {
	ec := transfer.DefaultConfig()
	if c.Transfer.Workers > 0 {
		ec.Workers = c.Transfer.Workers
		ec.QueueSize = c.Transfer.Workers * 2
	}
	if c.Transfer.ProgressStep > 0 {
		ec.ProgressStep = c.Transfer.ProgressStep
	}
	return ec
}

// ServerPresignTTL returns the web-path link lifetime.
func (c *Config) ServerPresignTTL() time.Duration {
	return time.Duration(c.Server.PresignTTLSeconds) * time.Second
}

// VaultPresignTTL returns the bot-path link lifetime.
func (c *Config) VaultPresignTTL() time.Duration {
	return time.Duration(c.Vault.PresignTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
