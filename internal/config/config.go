package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		TTL string `yaml:"ttl"`
	} `yaml:"catalog"`
	Admin struct {
		Emails []string `yaml:"emails"`
	} `yaml:"admin"`
	Generator Generator `yaml:"generator"`
	Storage   struct {
		S3 S3 `yaml:"s3"`
	} `yaml:"storage"`
}

// Generator configures the content-generation endpoint.
type Generator struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"apiKey"`
	TextModel  string `yaml:"textModel"`
	ImageModel string `yaml:"imageModel"`
	Timeout    string `yaml:"timeout"`
}

// S3 configures where generated sticker art is uploaded.
type S3 struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	CDNURL          string `yaml:"cdnUrl"`
}

// DefaultAdminEmail is the seeded administrator account.
const DefaultAdminEmail = "admin@admin.com"

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Admin.Emails) == 0 {
		c.Admin.Emails = []string{DefaultAdminEmail}
	}
	if c.Generator.TextModel == "" {
		c.Generator.TextModel = "gemini-2.5-flash"
	}
	if c.Generator.ImageModel == "" {
		c.Generator.ImageModel = "gemini-2.5-flash-image"
	}
	if key := os.Getenv("GENERATOR_API_KEY"); key != "" {
		c.Generator.APIKey = key
	}
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
