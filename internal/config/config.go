package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Search   SearchConfig   `mapstructure:"search"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Explorer ExplorerConfig `mapstructure:"explorer"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// StorageConfig выбирает хранилище объявлений: "memory" или "postgres"
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Seed   bool   `mapstructure:"seed"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type SearchConfig struct {
	Host            string `mapstructure:"host"`
	APIKey          string `mapstructure:"api_key"`
	Index           string `mapstructure:"index"`
	ReindexSchedule string `mapstructure:"reindex_schedule"`
}

type ChainConfig struct {
	CoreTestnetRPC string `mapstructure:"core_testnet_rpc"`
	BaseSepoliaRPC string `mapstructure:"base_sepolia_rpc"`
	ElectroneumRPC string `mapstructure:"electroneum_rpc"`
}

type ExplorerConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	Delay        time.Duration `mapstructure:"delay"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PollTimeout  time.Duration `mapstructure:"poll_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "propchain")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.seed", true)

	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", false)

	v.SetDefault("search.host", "")
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.index", "properties")
	v.SetDefault("search.reindex_schedule", "@every 10m")

	v.SetDefault("chain.core_testnet_rpc", "")
	v.SetDefault("chain.base_sepolia_rpc", "")
	v.SetDefault("chain.electroneum_rpc", "")

	v.SetDefault("explorer.api_key", "")
	v.SetDefault("explorer.delay", 5*time.Second)
	v.SetDefault("explorer.poll_interval", 3*time.Second)
	v.SetDefault("explorer.poll_timeout", 2*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// New возвращает viper с дефолтами, config.yaml и переменными окружения.
// Имена переменных: ключ в верхнем регистре, точки заменены на "_" (SERVER_PORT, LOG_JSON).
func New() (*viper.Viper, error) {
	// в проде .env обычно нет
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

func Load() (*Config, error) {
	v, err := New()
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper декодирует уже настроенный viper, например с привязанными флагами CLI
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
		return nil, fmt.Errorf("invalid database port: %d", cfg.Database.Port)
	}
	switch cfg.Storage.Driver {
	case "memory", "postgres":
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
	}
	if cfg.Explorer.Delay < 0 {
		return nil, fmt.Errorf("invalid explorer delay: %s", cfg.Explorer.Delay)
	}
	if cfg.Explorer.PollInterval <= 0 {
		return nil, fmt.Errorf("invalid explorer poll interval: %s", cfg.Explorer.PollInterval)
	}
	if cfg.Explorer.PollTimeout <= 0 {
		return nil, fmt.Errorf("invalid explorer poll timeout: %s", cfg.Explorer.PollTimeout)
	}

	return &cfg, nil
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.DBName, c.Database.SSLMode)
}

func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SearchEnabled сообщает, настроен ли хост Meilisearch
func (c *Config) SearchEnabled() bool {
	return c.Search.Host != ""
}
