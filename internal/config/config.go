package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP listener configuration.
type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DockerConfig holds daemon connection settings. An empty Host means the
// standard DOCKER_HOST environment resolution.
type DockerConfig struct {
	Host       string `mapstructure:"host"`
	APIVersion string `mapstructure:"api_version"`
}

// EventsConfig tunes the per-session event stream.
type EventsConfig struct {
	BufferSize   int           `mapstructure:"buffer_size"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// TemplatesConfig selects the template store backend.
type TemplatesConfig struct {
	Backend string `mapstructure:"backend"`
	File    string `mapstructure:"file"`
}

// LoggingConfig holds the logging-related configuration.
type LoggingConfig struct {
	Level string `mapstructure:"log_level"`
}

// EtcdConfig holds etcd-related configuration.
type EtcdConfig struct {
	Host              string  `mapstructure:"etcd_host"`
	Port              int     `mapstructure:"etcd_port"`
	PathPrefix        string  `mapstructure:"etcd_path_prefix"`
	LockTTL           float64 `mapstructure:"etcd_lock_ttl"`
	LockTimeout       float64 `mapstructure:"etcd_lock_timeout"`
	LockRetryInterval float64 `mapstructure:"etcd_lock_retry_interval"`
}

// Endpoint returns the host:port client endpoint.
func (c EtcdConfig) Endpoint() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Config is the top-level configuration struct.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Docker    DockerConfig    `mapstructure:"docker"`
	Events    EventsConfig    `mapstructure:"events"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Logging   LoggingConfig   `mapstructure:"log"`
	Etcd      EtcdConfig      `mapstructure:"etcd"`
}

const (
	BackendFile = "file"
	BackendEtcd = "etcd"
)

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Templates.Backend {
	case BackendFile:
		if c.Templates.File == "" {
			return fmt.Errorf("templates.file is required for the %q backend", BackendFile)
		}
	case BackendEtcd:
		if c.Etcd.Host == "" || c.Etcd.Port == 0 {
			return fmt.Errorf("etcd host and port are required for the %q backend", BackendEtcd)
		}
	default:
		return fmt.Errorf("unknown templates backend %q", c.Templates.Backend)
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	return nil
}

// SetDefaults registers the default for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":8000")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("docker.host", "")
	v.SetDefault("docker.api_version", "")
	v.SetDefault("events.buffer_size", 100)
	v.SetDefault("events.write_timeout", 10*time.Second)
	v.SetDefault("templates.backend", BackendFile)
	v.SetDefault("templates.file", "/data/templates.json")
	v.SetDefault("log.log_level", "INFO")
	v.SetDefault("etcd.etcd_host", "localhost")
	v.SetDefault("etcd.etcd_port", 2379)
	v.SetDefault("etcd.etcd_path_prefix", "/mira/templates")
	v.SetDefault("etcd.etcd_lock_ttl", 5.0)
	v.SetDefault("etcd.etcd_lock_timeout", 2.0)
	v.SetDefault("etcd.etcd_lock_retry_interval", 0.1)
}

// InitConfig performs the initial configuration: setting defaults, specifying the config file, and reading it.
// An empty configFile searches the working directory for config.yaml.
func InitConfig(v *viper.Viper, configFile string) error {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config") // Looks for config.yaml
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Read the config file if available.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// If the file is not found, just continue with defaults and env vars.
	}

	// Enable automatic environment variable binding.
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Kept for deployments that predate the templates section.
	if err := v.BindEnv("templates.file", "TEMPLATES_FILE", "MIRA_TEMPLATES_FILE"); err != nil {
		return fmt.Errorf("bind templates file env: %w", err)
	}

	return nil
}

// Load unmarshals the configuration into the Config struct.
func Load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}
