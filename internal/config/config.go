package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Session SessionConfig `yaml:"session"`
	Theme   ThemeConfig   `yaml:"theme"`
	Content ContentConfig `yaml:"content"`
	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
}

type SiteConfig struct {
	Name    string `yaml:"name" default:"BlogStudio."`
	Tagline string `yaml:"tagline" default:"Write, share and read blogs"`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0"`
	Port string `yaml:"port" default:"5173"`
}

type BackendConfig struct {
	URL     string        `yaml:"url" default:"http://localhost:8000"`
	Timeout time.Duration `yaml:"timeout" default:"10s"`
}

type SessionConfig struct {
	// Store is one of "cookie", "sqlite" or "memory".
	Store        string `yaml:"store" default:"cookie"`
	Secret       string `yaml:"secret" default:""`
	DatabasePath string `yaml:"database_path" default:"data/sessions.db"`
	MaxAge       int    `yaml:"max_age" default:"43200"`
	Secure       bool   `yaml:"secure" default:"false"`
}

type ThemeConfig struct {
	Default            string       `yaml:"default" default:"dark-theme"`
	AllowSwitching     bool         `yaml:"allow_switching" default:"true"`
	SyntaxHighlighting SyntaxConfig `yaml:"syntax_highlighting"`
}

type SyntaxConfig struct {
	DefaultDark  string `yaml:"default_dark" default:"gruvbox"`
	DefaultLight string `yaml:"default_light" default:"catppuccin-latte"`
}

type ContentConfig struct {
	HomePosts      int `yaml:"home_posts" default:"12"`
	ExcerptLength  int `yaml:"excerpt_length" default:"280"`
	MaxUploadBytes int `yaml:"max_upload_bytes" default:"10485760"`
}

var AppConfig *Config

func LoadConfig(path string) error {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just use defaults
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := applyEnv(config); err != nil {
		return err
	}

	if err := config.Validate(); err != nil {
		return err
	}

	AppConfig = config
	return nil
}

// LoadDotEnv loads a .env file into the process environment if one exists.
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		configLogger.Debug().Err(err).Msg("No .env file loaded")
	}
}

// Environment overrides, applied after the YAML file.
const (
	EnvBackendURL    = "BLOGFRONT_BACKEND_URL"
	EnvSessionSecret = "BLOGFRONT_SESSION_SECRET"
	EnvSessionStore  = "BLOGFRONT_SESSION_STORE"
	EnvPort          = "BLOGFRONT_PORT"
	EnvLogLevel      = "BLOGFRONT_LOG_LEVEL"
)

func applyEnv(config *Config) error {
	if v := os.Getenv(EnvBackendURL); v != "" {
		config.Backend.URL = v
	}
	if v := os.Getenv(EnvSessionSecret); v != "" {
		config.Session.Secret = v
	}
	if v := os.Getenv(EnvSessionStore); v != "" {
		config.Session.Store = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		config.Server.Port = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Logging.Level = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend url is required")
	}
	switch c.Session.Store {
	case "cookie", "sqlite", "memory":
	default:
		return fmt.Errorf("unsupported session store %q", c.Session.Store)
	}
	if c.Theme.Default != LightTheme && c.Theme.Default != DarkTheme {
		return fmt.Errorf("unsupported default theme %q", c.Theme.Default)
	}
	return nil
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		if field.Type() == durationType {
			if val, err := time.ParseDuration(defaultValue); err == nil {
				field.SetInt(int64(val))
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int, reflect.Int64:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
