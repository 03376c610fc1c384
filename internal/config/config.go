package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Render  RenderConfig  `mapstructure:"render"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
}

// StorageConfig holds the output location of generated invoices
type StorageConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// RenderConfig holds page geometry and markup handling
type RenderConfig struct {
	PageSize         string  `mapstructure:"page_size" validate:"oneof=Letter Legal A3 A4 A5"`
	MarginTop        float64 `mapstructure:"margin_top" validate:"gte=0"`
	MarginBottom     float64 `mapstructure:"margin_bottom" validate:"gte=0"`
	MarginLeft       float64 `mapstructure:"margin_left" validate:"gte=0"`
	MarginRight      float64 `mapstructure:"margin_right" validate:"gte=0"`
	TrustNotesMarkup bool    `mapstructure:"trust_notes_markup"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	OutputPath string `mapstructure:"output_path" validate:"required"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Load loads configuration from an optional YAML file, an optional .env
// file in the working directory and environment variables. An empty
// configPath skips the file.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("storage.dir", "invoices")

	// Render defaults, in points
	v.SetDefault("render.page_size", "Letter")
	v.SetDefault("render.margin_top", 72)
	v.SetDefault("render.margin_bottom", 18)
	v.SetDefault("render.margin_left", 72)
	v.SetDefault("render.margin_right", 72)
	v.SetDefault("render.trust_notes_markup", false)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "invoice_generator")
}

// bindEnvVars binds the unprefixed environment variables
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("storage.dir", "INVOICE_DIR")
	_ = v.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			return fmt.Errorf("%s failed on %q", vErrs[0].Namespace(), vErrs[0].Tag())
		}
		return err
	}
	return nil
}

// Address returns the listen address
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
