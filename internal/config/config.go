package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-card-indexer/internal/domain"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds the cache invalidation bus configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	Subject        string        `mapstructure:"subject"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// EthereumConfig holds the chain and card contract configuration
type EthereumConfig struct {
	WebSocketURL    string        `mapstructure:"websocket_url"`
	RPCURL          string        `mapstructure:"rpc_url"`
	ChainID         domain.Chain  `mapstructure:"chain_id"`
	ContractAddress string        `mapstructure:"contract_address"`
	StartBlock      uint64        `mapstructure:"start_block"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	MaxBlockRange   uint64        `mapstructure:"max_block_range"`
}

// IndexerConfig holds the live indexer configuration
type IndexerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// BaseDelay is multiplied by the attempt number between reconnects
	BaseDelay time.Duration `mapstructure:"base_delay"`
	// MaxReconnectAttempts of 0 never gives up
	MaxReconnectAttempts int `mapstructure:"max_reconnect_attempts"`
}

// PinataConfig holds the content store configuration
type PinataConfig struct {
	APIURL                string        `mapstructure:"api_url"`
	UploadURL             string        `mapstructure:"upload_url"`
	JWT                   string        `mapstructure:"jwt"`
	Gateway               string        `mapstructure:"gateway"`
	UploadMaxAttempts     int           `mapstructure:"upload_max_attempts"`
	UploadInitialInterval time.Duration `mapstructure:"upload_initial_interval"`
	PruneConcurrency      int           `mapstructure:"prune_concurrency"`
	HTTPTimeout           time.Duration `mapstructure:"http_timeout"`
}

// CacheConfig holds the read cache configuration
type CacheConfig struct {
	Backend   string        `mapstructure:"backend"` // memory or redis
	TTL       time.Duration `mapstructure:"ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// RedisConfig holds the shared cache backend configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RasterizerConfig holds SVG rasterizer configuration
type RasterizerConfig struct {
	// Width is the target width of the rasterized card (0 = use SVG natural size)
	Width int `mapstructure:"width"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// MaxUploadSize bounds the multipart body of prepare requests, in bytes
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string `mapstructure:"jwt_public_key"`
}

// ReprocessConfig holds configuration for the reprocess sweeper
type ReprocessConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
}

// RateLimitConfig throttles mutation requests per caller wallet
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

// CoordinatorConfig holds configuration for mutation preparation
type CoordinatorConfig struct {
	BackfillTimeout     time.Duration `mapstructure:"backfill_timeout"`
	BackfillConcurrency int           `mapstructure:"backfill_concurrency"`
}

// APIConfig holds configuration for the API server and its in-process indexer
type APIConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Server      ServerConfig      `mapstructure:"server"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Ethereum    EthereumConfig    `mapstructure:"ethereum"`
	Indexer     IndexerConfig     `mapstructure:"indexer"`
	Pinata      PinataConfig      `mapstructure:"pinata"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Redis       RedisConfig       `mapstructure:"redis"`
	NATS        NATSConfig        `mapstructure:"nats"`
	Rasterizer  RasterizerConfig  `mapstructure:"rasterizer"`
	Coordinator CoordinatorConfig `mapstructure:"coordinator"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Reprocess   ReprocessConfig   `mapstructure:"reprocess"`
}

// ReprocessorConfig holds configuration for the reprocessor program
type ReprocessorConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig  `mapstructure:"database"`
	Ethereum   EthereumConfig  `mapstructure:"ethereum"`
	Pinata     PinataConfig    `mapstructure:"pinata"`
	Cache      CacheConfig     `mapstructure:"cache"`
	Redis      RedisConfig     `mapstructure:"redis"`
	NATS       NATSConfig      `mapstructure:"nats"`
	Reprocess  ReprocessConfig `mapstructure:"reprocess"`
}

func setCommonDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("ethereum.chain_id", string(domain.ChainBaseMainnet))
	v.SetDefault("ethereum.poll_interval", "4s")
	v.SetDefault("ethereum.max_block_range", 2000)
	v.SetDefault("pinata.upload_max_attempts", 3)
	v.SetDefault("pinata.upload_initial_interval", "1s")
	v.SetDefault("pinata.prune_concurrency", 4)
	v.SetDefault("pinata.http_timeout", "30s")
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.key_prefix", "ff-card:")
	v.SetDefault("nats.subject", "ff-card.cache.invalidate")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("reprocess.interval", "1m")
	v.SetDefault("reprocess.batch_size", 100)
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	setCommonDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.max_upload_size", 10<<20)
	v.SetDefault("indexer.enabled", true)
	v.SetDefault("indexer.base_delay", "2s")
	v.SetDefault("indexer.max_reconnect_attempts", 10)
	v.SetDefault("coordinator.backfill_timeout", "30s")
	v.SetDefault("coordinator.backfill_concurrency", 4)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 30)
	v.SetDefault("rate_limit.burst", 5)
	v.SetDefault("nats.connection_name", "ff-card-api")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadReprocessorConfig loads configuration for the reprocessor
func LoadReprocessorConfig(configFile string, envPath string) (*ReprocessorConfig, error) {
	v := configureViper("reprocessor", configFile, envPath)

	// Set defaults
	setCommonDefaults(v)
	v.SetDefault("reprocess.enabled", true)
	v.SetDefault("nats.connection_name", "ff-card-reprocessor")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config ReprocessorConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// readConfig reads the config file; a missing file leaves env vars and defaults
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper creates a viper reading the service's yaml file and FF_CARD_* env vars
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/, cmd/reprocessor/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("FF_CARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Ethereum
		"ethereum.websocket_url",
		"ethereum.rpc_url",
		"ethereum.chain_id",
		"ethereum.contract_address",
		"ethereum.start_block",
		"ethereum.poll_interval",
		"ethereum.max_block_range",
		// Indexer
		"indexer.enabled",
		"indexer.base_delay",
		"indexer.max_reconnect_attempts",
		// Pinata
		"pinata.api_url",
		"pinata.upload_url",
		"pinata.jwt",
		"pinata.gateway",
		"pinata.upload_max_attempts",
		"pinata.upload_initial_interval",
		"pinata.prune_concurrency",
		"pinata.http_timeout",
		// Cache
		"cache.backend",
		"cache.ttl",
		"cache.key_prefix",
		"redis.addr",
		"redis.password",
		"redis.db",
		// NATS
		"nats.url",
		"nats.subject",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.max_upload_size",
		// Auth
		"auth.jwt_public_key",
		// Rendering and coordination
		"rasterizer.width",
		"coordinator.backfill_timeout",
		"coordinator.backfill_concurrency",
		"rate_limit.enabled",
		"rate_limit.requests_per_minute",
		"rate_limit.burst",
		// Reprocess sweeper
		"reprocess.enabled",
		"reprocess.interval",
		"reprocess.batch_size",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
