package config

import (
	"time"

	"github.com/spf13/viper"
)

// Defaults point at the production sources.
const (
	DefaultScrapeURL = "https://www.lottery.ie/results/euromillions/history"
	DefaultAPIURL    = "https://euromillions.api.pedromealha.dev/v1/draws?limit=5000&sort=desc"
)

// Config holds all application configuration.
type Config struct {
	ScrapeURL       string
	APIURL          string
	OutDir          string
	ListenAddr      string
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
}

// Load reads configuration from EUROMILLIONS_* environment variables,
// falling back to defaults suitable for a one-shot run.
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("euromillions")
	v.AutomaticEnv()

	v.SetDefault("scrape_url", DefaultScrapeURL)
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("out_dir", ".")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("refresh_interval", time.Hour)
	v.SetDefault("fetch_timeout", 45*time.Second)

	return &Config{
		ScrapeURL:       v.GetString("scrape_url"),
		APIURL:          v.GetString("api_url"),
		OutDir:          v.GetString("out_dir"),
		ListenAddr:      v.GetString("listen_addr"),
		RefreshInterval: v.GetDuration("refresh_interval"),
		FetchTimeout:    v.GetDuration("fetch_timeout"),
	}
}
