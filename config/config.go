package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Crawler CrawlerConfig `yaml:"crawler"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	WebDir string `yaml:"web_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// StorageConfig describes the flat-file data tree shared by every stage.
type StorageConfig struct {
	Root string `yaml:"root"`
}

type GeminiConfig struct {
	APIKey          string `yaml:"api_key"`
	Model           string `yaml:"model"`
	RequestDelaySec int    `yaml:"request_delay_seconds"`
	MaxRetries      int    `yaml:"max_retries"`
	BackoffSec      int    `yaml:"backoff_seconds"`
}

type CrawlerConfig struct {
	BaseURL            string `yaml:"base_url"`
	UserAgent          string `yaml:"user_agent"`
	RequestDelayMS     int    `yaml:"request_delay_ms"`
	DownloadTimeoutSec int    `yaml:"download_timeout_seconds"`
	InsecureLegacyTLS  bool   `yaml:"insecure_legacy_tls"`
	ConvertCommand     string `yaml:"convert_command"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.WebDir == "" {
		cfg.Server.WebDir = "./web"
	}
	if cfg.Storage.Root == "" {
		cfg.Storage.Root = "./storage"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-1.5-flash"
	}
	if cfg.Gemini.RequestDelaySec == 0 {
		cfg.Gemini.RequestDelaySec = 5
	}
	if cfg.Gemini.MaxRetries == 0 {
		cfg.Gemini.MaxRetries = 3
	}
	if cfg.Gemini.BackoffSec == 0 {
		cfg.Gemini.BackoffSec = 5
	}
	if cfg.Crawler.BaseURL == "" {
		cfg.Crawler.BaseURL = "https://lis.ly.gov.tw"
	}
	if cfg.Crawler.UserAgent == "" {
		cfg.Crawler.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	}
	if cfg.Crawler.RequestDelayMS == 0 {
		cfg.Crawler.RequestDelayMS = 500
	}
	if cfg.Crawler.DownloadTimeoutSec == 0 {
		cfg.Crawler.DownloadTimeoutSec = 60
	}
	if cfg.Crawler.ConvertCommand == "" {
		cfg.Crawler.ConvertCommand = "soffice"
	}

	return &cfg, nil
}

// Storage tree helpers. The directory names are part of the data contract
// between stages, so they are resolved in exactly one place.

func (s *StorageConfig) DocDir() string        { return filepath.Join(s.Root, "doc") }
func (s *StorageConfig) DocxDir() string       { return filepath.Join(s.Root, "docx") }
func (s *StorageConfig) DocxOutputDir() string { return filepath.Join(s.Root, "docx_output") }
func (s *StorageConfig) ProgressDir() string   { return filepath.Join(s.Root, "progress") }
func (s *StorageConfig) TidyOutputDir() string { return filepath.Join(s.Root, "tidy_output") }
func (s *StorageConfig) AIOutputDir() string   { return filepath.Join(s.Root, "ai_output") }
