package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the persona proxy
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Mail      MailConfig      `mapstructure:"mail"`
	Inference InferenceConfig `mapstructure:"inference"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	AllowMethods []string `mapstructure:"allow_methods"`
}

// AdminConfig holds the shared secrets for admin routes.
// Key gates the listing endpoints, Token gates user wipes.
type AdminConfig struct {
	Key   string `mapstructure:"key"`
	Token string `mapstructure:"token"`
}

// DatabaseConfig holds database configuration.
// URL is either a postgres:// URL or a sqlite file path.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// MailConfig holds SMTP configuration
type MailConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	FromName   string `mapstructure:"from_name"`
	Maintainer string `mapstructure:"maintainer"`
}

// InferenceConfig holds the language-model server configuration
type InferenceConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SpeechConfig holds the text-to-speech server configuration
type SpeechConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIName string        `mapstructure:"api_name"`
	// Timeout bounds fetching a generated file, not generation itself
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// envBindings maps config keys to the unprefixed variables the deployment uses
var envBindings = map[string]string{
	"database.url":  "DATABASE_URL",
	"admin.key":     "ADMIN_KEY",
	"admin.token":   "ADMIN_TOKEN",
	"mail.username": "EMAIL_USERNAME",
	"mail.password": "EMAIL_PASSWORD",
}

// Load loads configuration from .env, file and environment
func Load(configPath string) (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("PERSONAPROXY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.allow_origins", []string{
		"https://travis-ashcraft.github.io",
		"http://localhost:63343",
		"http://localhost:63342",
	})
	v.SetDefault("server.allow_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})

	v.SetDefault("admin.key", "")
	v.SetDefault("admin.token", "")

	v.SetDefault("database.url", "./data/personaproxy.db")

	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from_name", "CDC AI Service")
	v.SetDefault("mail.maintainer", "Travis.ashcraft@tstc.edu")

	v.SetDefault("inference.url", "http://localhost:11434/api/chat")
	v.SetDefault("inference.timeout", 60*time.Second)

	v.SetDefault("speech.enabled", true)
	v.SetDefault("speech.base_url", "http://localhost:7860")
	v.SetDefault("speech.api_name", "/generate_audio")
	v.SetDefault("speech.timeout", 60*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
