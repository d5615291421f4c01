package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the consultant agent.
type Config struct {
	General  GeneralConfig  `mapstructure:"general"`
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Research ResearchConfig `mapstructure:"research"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"` // per-turn budget
}

// ServerConfig contains HTTP server and auth settings.
type ServerConfig struct {
	Address   string `mapstructure:"address"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// LLMConfig contains the language model provider configuration.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // openai, anthropic, gemini
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.Provider) == "" {
		return fmt.Errorf("llm.provider is required")
	}
	if strings.TrimSpace(l.Model) == "" {
		return fmt.Errorf("llm.model is required")
	}
	if l.Temperature < 0 || l.Temperature > 2 {
		return fmt.Errorf("llm.temperature %f out of range", l.Temperature)
	}
	return nil
}

// ResearchConfig controls the research capabilities (website analysis,
// trend lookup, competitor search).
type ResearchConfig struct {
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	RetryAttempts  int           `mapstructure:"retry_attempts"`
	RetryBackoff   time.Duration `mapstructure:"retry_backoff"`
	MaxResults     int           `mapstructure:"max_results"`
	Fetcher        string        `mapstructure:"fetcher"`         // http | chromedp
	SearchProvider string        `mapstructure:"search_provider"` // serper | brave
	SearchAPIKey   string        `mapstructure:"search_api_key"`
	TrendsAPIKey   string        `mapstructure:"trends_api_key"`
	TrendsBaseURL  string        `mapstructure:"trends_base_url"`
}

func (r ResearchConfig) Validate() error {
	if r.RetryAttempts < 1 {
		return fmt.Errorf("research.retry_attempts must be >= 1")
	}
	if r.HTTPTimeout <= 0 {
		return fmt.Errorf("research.http_timeout must be > 0")
	}
	switch r.Fetcher {
	case "http", "chromedp":
	default:
		return fmt.Errorf("research.fetcher must be http or chromedp, got %q", r.Fetcher)
	}
	return nil
}

// RedisConfig contains Redis connection settings for the session store.
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Pass string `mapstructure:"pass"`
	DB   int    `mapstructure:"db"`
}

// PostgresConfig contains Postgres connection settings for the plan archive.
type PostgresConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds a Postgres connection string; empty when Postgres is not configured.
func (p PostgresConfig) DSN() string {
	if strings.TrimSpace(p.URL) != "" {
		return p.URL
	}
	if strings.TrimSpace(p.Host) == "" || strings.TrimSpace(p.DBName) == "" {
		return ""
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl)
}

// StorageConfig contains the session store and plan archive settings.
type StorageConfig struct {
	SessionStore string         `mapstructure:"session_store"` // inmemory | redis
	SessionTTL   time.Duration  `mapstructure:"session_ttl"`
	Redis        RedisConfig    `mapstructure:"redis"`
	Postgres     PostgresConfig `mapstructure:"postgres"`
}

func (s StorageConfig) Validate() error {
	switch s.SessionStore {
	case "inmemory", "redis":
	default:
		return fmt.Errorf("storage.session_store must be inmemory or redis, got %q", s.SessionStore)
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("storage.session_ttl must be > 0")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.default_timeout", "3m")
	viper.SetDefault("server.address", ":10010")
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.model", "gpt-4o")
	viper.SetDefault("llm.temperature", 0.0)
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.timeout", "60s")
	viper.SetDefault("research.http_timeout", "20s")
	viper.SetDefault("research.retry_attempts", 3)
	viper.SetDefault("research.retry_backoff", "2s")
	viper.SetDefault("research.max_results", 5)
	viper.SetDefault("research.fetcher", "http")
	viper.SetDefault("research.search_provider", "serper")
	viper.SetDefault("research.trends_base_url", "https://serpapi.com")
	viper.SetDefault("storage.session_store", "inmemory")
	viper.SetDefault("storage.session_ttl", "48h")
}

// LoadConfig loads config from file, .env and CONSULTANT_* environment
// variables. A missing config file is fine; everything has a default.
func LoadConfig(path string) *Config {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("json")
	setDefaults()

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("CONSULTANT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	// API keys come from the environment unless set in the file.
	if config.LLM.APIKey == "" {
		config.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if config.Research.SearchAPIKey == "" {
		config.Research.SearchAPIKey = os.Getenv("SERPER_API_KEY")
	}
	if config.Research.TrendsAPIKey == "" {
		config.Research.TrendsAPIKey = os.Getenv("SERPAPI_API_KEY")
	}

	if err := config.LLM.Validate(); err != nil {
		panic(err)
	}
	if err := config.Research.Validate(); err != nil {
		panic(err)
	}
	if err := config.Storage.Validate(); err != nil {
		panic(err)
	}
	return &config
}
