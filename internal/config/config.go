package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port    string `yaml:"port"`
		Bind    string `yaml:"bind"`
		Prefix  string `yaml:"prefix"`
		Profile bool   `yaml:"profile"`
		TLSCert string `yaml:"tls_cert"`
		TLSKey  string `yaml:"tls_key"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		Default        string   `yaml:"default"`
		Catalogs       []string `yaml:"catalogs"`
		Dir            string   `yaml:"dir"`
		FeedbackDelay  string   `yaml:"feedback_delay"`
		CacheTTL       string   `yaml:"cache_ttl"`
		SessionTimeout string   `yaml:"session_timeout"`
	} `yaml:"quiz"`
}

// Default is used when no config file is given.
func Default() Config {
	cfg := Config{}
	cfg.Server.Bind = "0.0.0.0"
	cfg.Server.Port = "8080"
	cfg.Quiz.Default = "varberg"
	return cfg
}

// Load reads YAML config from path on top of Default. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// CatalogIDs lists every catalog to preload, default first.
func (c Config) CatalogIDs() []string {
	ids := []string{}
	seen := map[string]bool{}
	for _, id := range append([]string{c.Quiz.Default}, c.Quiz.Catalogs...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
