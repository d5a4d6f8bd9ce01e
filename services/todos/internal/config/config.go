package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// Duration позволяет писать в TOML "5s" вместо наносекунд
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

type Config struct {
	Port            string   `toml:"port"`
	DataFile        string   `toml:"data_file"`
	IndexFile       string   `toml:"index_file"`
	LogLevel        string   `toml:"log_level"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

func defaults() *Config {
	return &Config{
		Port:            "8000",
		DataFile:        "todo.json",
		IndexFile:       "templates/index.html",
		LogLevel:        "info",
		ShutdownTimeout: Duration{5 * time.Second},
	}
}

// Load собирает конфиг: значения по умолчанию -> TOML-файл -> переменные окружения.
// Если path пустой, берётся TODOS_CONFIG; отсутствующий файл не ошибка.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = os.Getenv("TODOS_CONFIG")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("TODOS_PORT", cfg.Port)
	cfg.DataFile = getEnv("TODOS_DATA_FILE", cfg.DataFile)
	cfg.IndexFile = getEnv("TODOS_INDEX_FILE", cfg.IndexFile)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("TODOS_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parsing TODOS_SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = Duration{d}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is empty")
	}
	if c.DataFile == "" {
		return errors.New("data_file is empty")
	}
	if c.IndexFile == "" {
		return errors.New("index_file is empty")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if c.ShutdownTimeout.Duration <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	return nil
}

// Addr - адрес для http.Server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
