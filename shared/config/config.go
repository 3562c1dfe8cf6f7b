package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Weather    WeatherConfig    `yaml:"weather"`
	AI         AIConfig         `yaml:"ai"`
	Model      ModelConfig      `yaml:"model"`
	Data       DataConfig       `yaml:"data"`
	Farm       FarmConfig       `yaml:"farm"`
	Email      EmailConfig      `yaml:"email"`
	Server     ServerConfig     `yaml:"server"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Schedule   string           `yaml:"schedule"`
}

type WeatherConfig struct {
	URL          string  `yaml:"url"`
	Latitude     float64 `yaml:"latitude"`
	Longitude    float64 `yaml:"longitude"`
	Timezone     string  `yaml:"timezone"`
	ForecastDays int     `yaml:"forecast_days"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`
}

// ModelConfig points at the persisted scoring artifact. An empty path
// selects the mock price table fallback instead of the trained model.
type ModelConfig struct {
	Path string `yaml:"path"`
}

type DataConfig struct {
	BuyersFile string `yaml:"buyers_file"`
	PricesFile string `yaml:"prices_file"`
}

// FarmConfig describes the farmer the advisor works for.
type FarmConfig struct {
	Region string   `yaml:"region"`
	Crops  []string `yaml:"crops"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Email.Username == "" {
		cfg.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Weather.URL == "" {
		c.Weather.URL = "https://api.open-meteo.com/v1/forecast"
	}
	if c.Weather.Latitude == 0 && c.Weather.Longitude == 0 {
		// Marinduque, roughly the center of the Philippines
		c.Weather.Latitude = 13.4088
		c.Weather.Longitude = 122.5615
	}
	if c.Weather.Timezone == "" {
		c.Weather.Timezone = "Asia/Manila"
	}
	if c.Weather.ForecastDays == 0 {
		c.Weather.ForecastDays = 7
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.Data.BuyersFile == "" {
		c.Data.BuyersFile = "data/buyers.csv"
	}
	if c.Data.PricesFile == "" {
		c.Data.PricesFile = "data/crop_prices.csv"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8000"
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
	if c.Schedule == "" {
		c.Schedule = "0 0 6 * * *" // Daily at 6 AM
	}
}

func (c *Config) validate() error {
	if c.AI.GeminiAPIKey == "" {
		return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or ai.gemini_api_key)")
	}
	return nil
}

// ValidateFarm checks the advisor-specific configuration. The HTTP server
// can run without a farm profile; the scheduled advisor cannot.
func (c *Config) ValidateFarm() error {
	if len(c.Farm.Crops) == 0 {
		return fmt.Errorf("at least one crop must be configured (farm.crops)")
	}
	if c.Farm.Region == "" {
		return fmt.Errorf("farm region must be configured (farm.region)")
	}
	return nil
}

// EmailConfigured reports whether the optional advisory email is set up.
func (c *Config) EmailConfigured() bool {
	return c.Email.SMTPServer != "" && c.Email.ToEmail != ""
}
