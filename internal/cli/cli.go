// Package cli turns command-line arguments into an app configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/quantforge/tickflow/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
// Flags given explicitly override values from a -config file.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("tickflow", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
TickFlow - a streaming indicator graph engine.

Usage:
  tickflow [options] [GRAPH_PATH]

Arguments:
  GRAPH_PATH
    Path to a .json or .hcl graph file, or a directory containing one.

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.String("graph", "", "Path to the graph file or directory.")
	gFlag := flagSet.String("g", "", "Path to the graph file or directory (shorthand).")
	configFlag := flagSet.String("config", "", "Path to a YAML configuration file.")
	validateFlag := flagSet.Bool("validate", false, "Validate the graph and exit.")
	describeFlag := flagSet.Bool("describe-ops", false, "Print the operator catalog as JSON and exit.")
	feedFlag := flagSet.String("feed", "", "Bar source. Options: 'csv', 'ws' or 'clickhouse'.")
	feedPathFlag := flagSet.String("feed-path", "", "CSV file for the csv feed.")
	feedURLFlag := flagSet.String("feed-url", "", "Websocket endpoint for the ws feed.")
	feedDSNFlag := flagSet.String("feed-dsn", "", "ClickHouse DSN for the clickhouse feed.")
	feedTableFlag := flagSet.String("feed-table", "", "Candle table for the clickhouse feed.")
	feedSymbolFlag := flagSet.String("feed-symbol", "", "Symbol to replay from the clickhouse feed.")
	sinkCHDSNFlag := flagSet.String("sink-clickhouse-dsn", "", "ClickHouse DSN for the snapshot sink.")
	sinkCHTableFlag := flagSet.String("sink-clickhouse-table", "", "Snapshot table for the clickhouse sink.")
	sinkSIOURLFlag := flagSet.String("sink-socketio-url", "", "socket.io endpoint for the live snapshot sink.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	cfg := app.Config{}
	if *configFlag != "" {
		loaded, err := app.LoadConfigFile(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = *loaded
	}

	path := cfg.GraphPath
	if *graphFlag != "" {
		path = *graphFlag
	} else if *gFlag != "" {
		path = *gFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Graph path determined.", "path", path)

	if path == "" && !*describeFlag {
		slog.Debug("No graph path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	cfg.GraphPath = path
	cfg.Validate = cfg.Validate || *validateFlag
	cfg.DescribeOps = cfg.DescribeOps || *describeFlag

	// A flag given on the command line beats the config file.
	set := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Feed.Kind, *feedFlag)
	override(&cfg.Feed.Path, *feedPathFlag)
	override(&cfg.Feed.URL, *feedURLFlag)
	override(&cfg.Feed.DSN, *feedDSNFlag)
	override(&cfg.Feed.Table, *feedTableFlag)
	override(&cfg.Feed.Symbol, *feedSymbolFlag)
	override(&cfg.Sinks.ClickHouse.DSN, *sinkCHDSNFlag)
	override(&cfg.Sinks.ClickHouse.Table, *sinkCHTableFlag)
	override(&cfg.Sinks.SocketIO.URL, *sinkSIOURLFlag)
	if set["healthcheck-port"] {
		cfg.HealthcheckPort = *healthPortFlag
	}

	logFormat := cfg.LogFormat
	if set["log-format"] || logFormat == "" {
		logFormat = *logFormatFlag
	}
	logFormat = strings.ToLower(logFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	cfg.LogFormat = logFormat

	logLevel := cfg.LogLevel
	if set["log-level"] || logLevel == "" {
		logLevel = *logLevelFlag
	}
	logLevel = strings.ToLower(logLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	cfg.LogLevel = logLevel
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
