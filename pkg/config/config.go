package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Cloak    CloakConfig    `mapstructure:"cloak"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

// ResolverConfig drives the external IP-intelligence lookup and its cache.
type ResolverConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheSize int           `mapstructure:"cache_size"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

type CloakConfig struct {
	ClickIDParam string `mapstructure:"click_id_param"`
	TemplatesDir string `mapstructure:"templates_dir"`
}

// KafkaConfig configures the optional access-log export stream. Settings are
// decoded by the exporter itself.
type KafkaConfig struct {
	Enabled  bool                   `mapstructure:"enabled"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("⚠️ Warning: Could not load main config file: %v", err)
	}
	setDefaultValues()
	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file %s.yaml not found, using only environment variables", fileName)
		}
		return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setDefaultValues() {
	if globalConfig.Database.SSLMode == "" {
		globalConfig.Database.SSLMode = "disable"
	}
	if globalConfig.Resolver.BaseURL == "" {
		globalConfig.Resolver.BaseURL = "https://ipinfo.io"
	}
	if globalConfig.Resolver.Timeout == 0 {
		globalConfig.Resolver.Timeout = 2 * time.Second
	}
	if globalConfig.Resolver.CacheSize == 0 {
		globalConfig.Resolver.CacheSize = 65536
	}
	if globalConfig.Resolver.CacheTTL == 0 {
		globalConfig.Resolver.CacheTTL = time.Hour
	}
	if globalConfig.Cloak.ClickIDParam == "" {
		globalConfig.Cloak.ClickIDParam = "gclid"
	}
	if globalConfig.Cloak.TemplatesDir == "" {
		globalConfig.Cloak.TemplatesDir = "./data/templates"
	}
}

func GetConfig() *Config {
	return &globalConfig
}
