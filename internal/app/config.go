package app

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath string `yaml:"graph"` // json or hcl graph file, or a directory holding one

	Validate    bool `yaml:"validate"`     // validate the graph and exit
	DescribeOps bool `yaml:"describe_ops"` // dump the operator catalog and exit

	Feed  FeedConfig `yaml:"feed"`
	Sinks SinkConfig `yaml:"sinks"`

	LogFormat       string `yaml:"log_format"`
	LogLevel        string `yaml:"log_level"`
	HealthcheckPort int    `yaml:"healthcheck_port"`
}

// FeedConfig selects and configures the bar source.
type FeedConfig struct {
	Kind   string `yaml:"kind"` // csv, ws or clickhouse
	Path   string `yaml:"path"`
	URL    string `yaml:"url"`
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
	Symbol string `yaml:"symbol"`
}

// SinkConfig selects the snapshot destinations. Several may be active at
// once; with none configured the print sink is used.
type SinkConfig struct {
	Print      bool                 `yaml:"print"`
	ClickHouse ClickHouseSinkConfig `yaml:"clickhouse"`
	SocketIO   SocketIOSinkConfig   `yaml:"socketio"`
}

// ClickHouseSinkConfig configures the snapshot table writer.
type ClickHouseSinkConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// SocketIOSinkConfig configures the live snapshot push.
type SocketIOSinkConfig struct {
	URL       string `yaml:"url"`
	Namespace string `yaml:"namespace"`
	Event     string `yaml:"event"`
}

// NewConfig validates a raw configuration and fills in the defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" && !cfg.DescribeOps {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	if cfg.Feed.Kind == "" {
		cfg.Feed.Kind = "csv"
	}
	if !cfg.Validate && !cfg.DescribeOps {
		switch cfg.Feed.Kind {
		case "csv":
			if cfg.Feed.Path == "" {
				return nil, errors.New("csv feed requires a path")
			}
		case "ws":
			if cfg.Feed.URL == "" {
				return nil, errors.New("ws feed requires a url")
			}
		case "clickhouse":
			if cfg.Feed.DSN == "" || cfg.Feed.Table == "" || cfg.Feed.Symbol == "" {
				return nil, errors.New("clickhouse feed requires dsn, table and symbol")
			}
		default:
			return nil, fmt.Errorf("unknown feed kind %q", cfg.Feed.Kind)
		}
	}
	if !cfg.Sinks.Print && cfg.Sinks.ClickHouse.DSN == "" && cfg.Sinks.SocketIO.URL == "" {
		cfg.Sinks.Print = true
	}
	if cfg.Sinks.ClickHouse.DSN != "" && cfg.Sinks.ClickHouse.Table == "" {
		return nil, errors.New("clickhouse sink requires a table")
	}
	return &cfg, nil
}

// LoadConfigFile reads a YAML configuration file. Unknown keys are
// rejected so typos surface at startup instead of silently doing nothing.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return &cfg, nil
}
