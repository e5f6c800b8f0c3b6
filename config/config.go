// Package config loads the application configuration from YAML, filling in
// defaults for anything the file leaves out.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EmbedderConfig configures the OpenAI-compatible embedding service.
type EmbedderConfig struct {
	Host          string `yaml:"host"`
	Model         string `yaml:"model"`
	MaxInputRunes int    `yaml:"max_input_runes"`
}

// QueueConfig selects the ingestion queue backend: "file" or "sqlite".
type QueueConfig struct {
	Backend string `yaml:"backend"`
}

// StoreConfig selects the document store backend: "file" or "badger".
type StoreConfig struct {
	Backend string `yaml:"backend"`
}

// WorkerConfig configures the ingestion worker.
type WorkerConfig struct {
	PoolSize         int `yaml:"pool_size"`
	ChunkSize        int `yaml:"chunk_size"`
	ChunkOverlap     int `yaml:"chunk_overlap"`
	PollIntervalSecs int `yaml:"poll_interval_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	DataDir  string         `yaml:"data_dir"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Queue    QueueConfig    `yaml:"queue"`
	Store    StoreConfig    `yaml:"store"`
	Worker   WorkerConfig   `yaml:"worker"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig()
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := applyConfigDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".searchit", "data"), nil
}

func defaultConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := applyConfigDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyConfigDefaults(cfg *AppConfig) error {
	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return err
		}
		cfg.DataDir = dir
	}
	if cfg.Embedder.Host == "" {
		cfg.Embedder.Host = "http://localhost:11434/v1"
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "embeddinggemma"
	}
	if cfg.Embedder.MaxInputRunes == 0 {
		cfg.Embedder.MaxInputRunes = 12288
	}
	if cfg.Queue.Backend == "" {
		cfg.Queue.Backend = "file"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "file"
	}
	if cfg.Worker.PoolSize == 0 {
		cfg.Worker.PoolSize = 2
	}
	if cfg.Worker.ChunkSize == 0 {
		cfg.Worker.ChunkSize = 512
	}
	if cfg.Worker.PollIntervalSecs == 0 {
		cfg.Worker.PollIntervalSecs = 2
	}
	return nil
}
