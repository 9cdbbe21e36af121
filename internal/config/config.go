// Package config loads graphview configuration from, in increasing order of
// precedence: defaults, a YAML config file, a .env file and GV_ prefixed
// environment variables. Nested keys use underscores in the environment:
//
//	GV_SOURCE_ENDPOINT=http://localhost:8080/graphql
//	GV_SERVER_PORT=8090
//	GV_LOGGING_LEVEL=debug
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GV"

// Config is the root configuration.
type Config struct {
	Source     SourceConfig     `mapstructure:"source"`
	Resilience ResilienceConfig `mapstructure:"resilience"`
	Server     ServerConfig     `mapstructure:"server"`
	Render     RenderConfig     `mapstructure:"render"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SourceConfig selects where node payloads come from. The first non-empty
// of Endpoint, WebSocket, Dir and Snapshot wins.
type SourceConfig struct {
	Endpoint  string        `mapstructure:"endpoint" validate:"omitempty,url"`
	WebSocket string        `mapstructure:"websocket" validate:"omitempty,url"`
	Dir       string        `mapstructure:"dir"`
	Snapshot  string        `mapstructure:"snapshot"`
	Validate  bool          `mapstructure:"validate"`
	Limit     int           `mapstructure:"limit" validate:"min=1,max=1000"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"min=0"`
}

// ResilienceConfig guards remote sources.
type ResilienceConfig struct {
	RateLimit       float64       `mapstructure:"rate_limit" validate:"min=0"`
	Burst           int           `mapstructure:"burst" validate:"min=0"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout" validate:"min=0"`
}

// ServerConfig configures `graphview serve`.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	LinkPrefix      string        `mapstructure:"link_prefix"`
}

// RenderConfig picks the default renderer and theme.
type RenderConfig struct {
	Renderer     string `mapstructure:"renderer" validate:"oneof=html text json tui"`
	Theme        string `mapstructure:"theme"`
	Variant      string `mapstructure:"variant"`
	ThemeFile    string `mapstructure:"theme_file"`
	TemplatesDir string `mapstructure:"templates_dir"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// Addr is the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadOptions points Load at explicit files. Empty fields fall back to the
// default search paths. Flags maps configuration keys to command line flags;
// a flag set on the command line beats every other layer.
type LoadOptions struct {
	File    string
	EnvFile string
	Flags   map[string]*pflag.Flag
}

// Load reads configuration from opts.File (or config.yaml in ., ./configs and
// $HOME/.graphview), applies the .env file and environment overrides, and
// validates the result. A missing config or .env file is not an error.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.graphview")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read env file: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range opts.Flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("config: bind flag %s: %w", flag.Name, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration with defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

var validate = validator.New()

// Validate checks field constraints.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: configuration is nil")
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	if cfg.Source.Dir != "" {
		if info, err := os.Stat(cfg.Source.Dir); err != nil || !info.IsDir() {
			return fmt.Errorf("config: source dir %q is not a directory", cfg.Source.Dir)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.endpoint", "")
	v.SetDefault("source.websocket", "")
	v.SetDefault("source.dir", "")
	v.SetDefault("source.snapshot", "")
	v.SetDefault("source.validate", false)
	v.SetDefault("source.limit", 100)
	v.SetDefault("source.timeout", "10s")

	v.SetDefault("resilience.rate_limit", 0)
	v.SetDefault("resilience.burst", 1)
	v.SetDefault("resilience.breaker_failures", 5)
	v.SetDefault("resilience.breaker_timeout", "30s")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.link_prefix", "")

	v.SetDefault("render.renderer", "html")
	v.SetDefault("render.theme", "")
	v.SetDefault("render.variant", "")
	v.SetDefault("render.theme_file", "")
	v.SetDefault("render.templates_dir", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
