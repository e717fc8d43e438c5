package app

import (
	"errors"
	"fmt"
	"os"

	"csv2coam/internal/coam"
	"csv2coam/internal/source"
	"gopkg.in/yaml.v3"
)

type Convert struct {
	Defaults         coam.Settings `yaml:"defaults"`
	FallbackEncoding string        `yaml:"fallback_encoding"`
	Encodings        []string      `yaml:"encodings"`
}

type Neo4j struct {
	URI                  string `yaml:"uri"`
	Username             string `yaml:"username"`
	Password             string `yaml:"password"`
	Database             string `yaml:"database"`
	MaxConnectionPool    int    `yaml:"max_connections"`
	ConnectTimeoutSecond int    `yaml:"connect_timeout_second"`
}

type Export struct {
	Enabled   bool  `yaml:"enabled"`
	BatchSize int   `yaml:"batch_size"`
	Retry     Retry `yaml:"retry"`
}

type Retry struct {
	Attempts       int `yaml:"attempts"`
	BackoffSeconds int `yaml:"backoff_seconds"`
}

type HTTP struct {
	Listen      string `yaml:"listen"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type Watch struct {
	Inbox   string `yaml:"inbox"`
	Outbox  string `yaml:"outbox"`
	Archive string `yaml:"archive"`
	Cron    string `yaml:"cron"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Config struct {
	Convert Convert `yaml:"convert"`
	Neo4j   Neo4j   `yaml:"neo4j"`
	Export  Export  `yaml:"export"`
	HTTP    HTTP    `yaml:"http"`
	Watch   Watch   `yaml:"watch"`
	Log     Log     `yaml:"log"`
}

// DefaultConfig 返回不依赖配置文件即可运行的默认配置。
func DefaultConfig() Config {
	return Config{
		Convert: Convert{
			Defaults:         coam.DefaultSettings(),
			FallbackEncoding: source.DefaultFallback,
			Encodings:        append([]string(nil), source.DefaultCandidates...),
		},
		Neo4j: Neo4j{
			Database:             "neo4j",
			MaxConnectionPool:    10,
			ConnectTimeoutSecond: 5,
		},
		Export: Export{
			BatchSize: 200,
			Retry:     Retry{Attempts: 3, BackoffSeconds: 1},
		},
		HTTP:  HTTP{Listen: ":8080", MaxUploadMB: 32},
		Watch: Watch{Cron: "@every 1m"},
		Log:   Log{Level: "info"},
	}
}

// LoadConfig 从文件加载配置，文件中的值覆盖默认值，业务参数逐字段合并。
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取配置失败: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.Convert.Defaults = coam.NewSettings(cfg.Convert.Defaults)
	if len(cfg.Convert.Encodings) == 0 {
		cfg.Convert.Encodings = append([]string(nil), source.DefaultCandidates...)
	}
	return cfg, nil
}

// LoadConfigOrDefault 在配置文件不存在时返回默认配置。
func LoadConfigOrDefault(path string) (Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}
