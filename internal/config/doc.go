// Package config handles configuration loading, saving, and schema definition.
package config

import "os"

// Config is the top-level dealerbot configuration.
// Uses json tags in camelCase to match the JSON config file format.
type Config struct {
	Gateway GatewayConfig `json:"gateway"`
	CMS     CMSConfig     `json:"cms"`
	Dealer  DealerConfig  `json:"dealer"`
	Cache   CacheConfig   `json:"cache"`
	Finance FinanceConfig `json:"finance"`
}

// GatewayConfig holds the tool gateway server settings.
type GatewayConfig struct {
	Port   int    `json:"port,omitempty"`
	Host   string `json:"host,omitempty"`
	APIKey string `json:"apiKey,omitempty"` // Bearer key for /api routes (DEALERBOT_API_KEY)
}

// CMSConfig holds the content-management GraphQL endpoint settings.
type CMSConfig struct {
	BaseURL  string `json:"baseUrl,omitempty"`
	Site     string `json:"site,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Language string `json:"language,omitempty"`
}

// DealerConfig holds the dealership backend REST API settings.
type DealerConfig struct {
	BaseURL string `json:"baseUrl,omitempty"`
}

// CacheConfig holds the Redis cache settings. An empty URL disables
// caching entirely.
type CacheConfig struct {
	RedisURL   string `json:"redisUrl,omitempty"`
	Password   string `json:"password,omitempty"`
	DB         int    `json:"db,omitempty"`
	TTLMinutes int    `json:"ttlMinutes,omitempty"`
}

// FinanceConfig holds the financing calculator settings.
type FinanceConfig struct {
	// RateBookPath points to a YAML rate book overriding the built-in
	// profit rates. Empty means use the defaults.
	RateBookPath string `json:"rateBookPath,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Gateway: GatewayConfig{
			Port: 18790,
			Host: "0.0.0.0",
		},
		CMS: CMSConfig{
			Site:     "ToyotaWebsite",
			Brand:    "toyota",
			Language: "en",
		},
		Cache: CacheConfig{
			TTLMinutes: 15,
		},
	}
}

// ApplyEnv overlays environment variables onto the config. Env wins over
// the file so deployments can keep secrets out of ~/.dealerbot.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("DEALERBOT_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}
	if v := os.Getenv("CMS_BASE_URL"); v != "" {
		cfg.CMS.BaseURL = v
	}
	if v := os.Getenv("DEALER_BASE_URL"); v != "" {
		cfg.Dealer.BaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.RedisURL = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
}
