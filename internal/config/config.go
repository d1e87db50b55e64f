// config - источник загрузки конфигурации desktop-бэкенда.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	API     APIConfig     `yaml:"api"`
	Keyring KeyringConfig `yaml:"keyring"`
	Bridge  BridgeConfig  `yaml:"bridge"`
}

// APIConfig — внешний REST API, которому проксируются команды.
// Timeout == 0 оставляет дефолты http.Client (без таймаута).
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"API_BASE_URL"   env-default:"http://localhost:3001/api"`
	UserAgent string        `yaml:"user_agent" env:"API_USER_AGENT" env-default:"shopping-assistant-desktop"`
	Timeout   time.Duration `yaml:"timeout"    env:"API_TIMEOUT"    env-default:"0s"`
}

// KeyringConfig — пространство имён секрета в хранилище ОС.
type KeyringConfig struct {
	Service string `yaml:"service" env:"KEYRING_SERVICE" env-default:"shopping-assistant"`
	Account string `yaml:"account" env:"KEYRING_ACCOUNT" env-default:"access_token"`
}

// BridgeConfig — локальный HTTP-мост, через который фронтенд вызывает команды.
type BridgeConfig struct {
	Host    string        `yaml:"host"    env:"BRIDGE_HOST"    env-default:"127.0.0.1"`
	Port    string        `yaml:"port"    env:"BRIDGE_PORT"    env-default:"1420"`
	Secret  string        `yaml:"secret"  env:"BRIDGE_SECRET"`
	Timeout time.Duration `yaml:"timeout" env:"BRIDGE_TIMEOUT" env-default:"0s"`
}

func (b BridgeConfig) Addr() string { return net.JoinHostPort(b.Host, b.Port) }

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return &cfg, nil
}
