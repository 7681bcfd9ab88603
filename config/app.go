package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName string `mapstructure:"APP_NAME"`
	Port    string `mapstructure:"PORT"`
	Env     string `mapstructure:"APP_ENV"`
	Debug   bool   `mapstructure:"DEBUG"`
	// TTL in seconds for the Redis-backed availability display cache.
	AvailabilityCacheTTL int `mapstructure:"AVAILABILITY_CACHE_TTL"`
}

// LoadAppConfig initializes the global AppConfig variable from env.
func LoadAppConfig() {
	once.Do(func() {
		raw := map[string]interface{}{
			"APP_NAME": os.Getenv("APP_NAME"),
			"PORT":     os.Getenv("PORT"),
			"APP_ENV":  os.Getenv("APP_ENV"),
			"DEBUG":    os.Getenv("DEBUG") == "true",
		}
		ttl := 5
		if v := os.Getenv("AVAILABILITY_CACHE_TTL"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				ttl = n
			}
		}
		raw["AVAILABILITY_CACHE_TTL"] = ttl

		cfg := &Config{}
		if err := mapstructure.Decode(raw, cfg); err != nil {
			log.Fatalf("config: decode AppConfig: %v", err)
		}
		AppConfig = cfg
	})
}
