package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	LLM      LLMConfig      `yaml:"llm"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address" env:"HTTP_ADDRESS" env-default:""`
	AllowedOrigins []string `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS"`
}

type StorageConfig struct {
	// Driver is "memory" or "postgres".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	DSN    string `yaml:"dsn" env:"DATABASE_DSN" env-default:""`
}

type RedisConfig struct {
	Enabled   bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Addr      string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password  string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB        int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	KeyPrefix string `yaml:"key_prefix" env:"REDIS_KEY_PREFIX" env-default:"hotpot:"`
}

type LLMConfig struct {
	BaseURL     string        `yaml:"base_url" env:"LLM_BASE_URL" env-default:"https://api.openai.com/v1"`
	APIKey      string        `yaml:"api_key" env:"LLM_API_KEY" env-default:""`
	Model       string        `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o"`
	Temperature float64       `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.2"`
	MaxTokens   int           `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"1000"`
	Timeout     time.Duration `yaml:"timeout" env:"LLM_TIMEOUT" env-default:"60s"`
}

type ScraperConfig struct {
	Origin         string        `yaml:"origin" env:"SCRAPER_ORIGIN" env-default:"https://www.fairprice.com.sg"`
	UserAgent      string        `yaml:"user_agent" env:"SCRAPER_USER_AGENT" env-default:""`
	CurrencySymbol string        `yaml:"currency_symbol" env:"SCRAPER_CURRENCY_SYMBOL" env-default:"$"`
	Supermarket    string        `yaml:"supermarket" env:"SCRAPER_SUPERMARKET" env-default:"ntuc"`
	Timeout        time.Duration `yaml:"timeout" env:"SCRAPER_TIMEOUT" env-default:"30s"`
	RatePerSecond  float64       `yaml:"rate_per_second" env:"SCRAPER_RATE_PER_SECOND" env-default:"2"`
}

type PipelineConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"PIPELINE_TIMEOUT" env-default:"3m"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	cfg.setDefaults()

	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		res = "config/local.yaml"
	}

	return res
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

func (c *Config) setDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.Scraper.UserAgent == "" {
		c.Scraper.UserAgent = defaultUserAgent
	}
	if c.Scraper.RatePerSecond <= 0 {
		c.Scraper.RatePerSecond = 2
	}
	if c.Pipeline.Timeout <= 0 {
		c.Pipeline.Timeout = 3 * time.Minute
	}
}
