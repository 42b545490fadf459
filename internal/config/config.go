package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL     = "https://api.vk.com/method"
	DefaultAPIVersion = "5.131"
	DefaultUserAgent  = "KateMobileAndroid/51.1-442 (Android 11; SDK 30; arm64-v8a; Samsung SM-G991B; ru_RU)"
	DefaultTokenFile  = "vk_token.txt"
	HTTPTimeout       = 15 * time.Second
	DownloadTimeout   = 10 * time.Minute
)

// PopularQueries seed the recommendations fallback when the catalog refuses
// audio.getRecommendations for the account.
var PopularQueries = []string{
	"популярные песни 2024", "хиты", "top hits", "новинки музыки",
	"русские хиты", "зарубежные хиты", "топ чарт", "billboard top 100",
}

type Config struct {
	APIURL      string        `env:"MOOSIC_API_URL" envDefault:"https://api.vk.com/method"`
	APIVersion  string        `env:"MOOSIC_API_VERSION" envDefault:"5.131"`
	UserAgent   string        `env:"MOOSIC_USER_AGENT"`
	Token       string        `env:"MOOSIC_TOKEN"`
	TokenFile   string        `env:"MOOSIC_TOKEN_FILE" envDefault:"vk_token.txt"`
	DownloadDir string        `env:"MOOSIC_DOWNLOAD_DIR" envDefault:"downloads"`
	Player      string        `env:"MOOSIC_PLAYER"`
	HTTPTimeout time.Duration `env:"MOOSIC_HTTP_TIMEOUT" envDefault:"15s"`
	PageSize    int           `env:"MOOSIC_PAGE_SIZE" envDefault:"100"`
	Workers     int           `env:"MOOSIC_DOWNLOAD_WORKERS" envDefault:"3"`
	LogLevel    string        `env:"MOOSIC_LOG_LEVEL" envDefault:"warn"`
	Notify      bool          `env:"MOOSIC_NOTIFY" envDefault:"true"`
}

// Load reads an optional .env file from the working directory, then the
// environment. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = HTTPTimeout
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 6000 {
		cfg.PageSize = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	return cfg, nil
}
