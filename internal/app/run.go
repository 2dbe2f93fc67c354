package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/quantforge/tickflow/internal/ctxlog"
	"github.com/quantforge/tickflow/internal/feed"
	"github.com/quantforge/tickflow/internal/schema"
	"github.com/quantforge/tickflow/internal/sink"
)

// Run executes the main application logic based on the configuration: a
// catalog dump, a validation pass, or a full feed-to-sink run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.DescribeOps {
		return a.describeOps()
	}

	graph, err := a.loadGraph(ctx)
	if err != nil {
		return err
	}

	result := schema.Validate(graph, a.registry)
	if !result.Valid {
		fmt.Fprint(a.outW, result.Format())
		return fmt.Errorf("graph validation failed with %d error(s)", len(result.Errors))
	}
	a.logger.Debug("Graph validation passed.", "nodes", len(graph.Nodes))

	if a.config.Validate {
		fmt.Fprintln(a.outW, "graph is valid")
		return nil
	}

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
	}

	fg, err := schema.Build(graph, a.registry)
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}
	a.logger.Debug("Executable graph built.", "node_count", fg.Len())

	src, err := a.openFeed(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	sinks, err := a.openSinks(ctx)
	if err != nil {
		return err
	}
	defer func() {
		for _, s := range sinks {
			if err := s.Close(); err != nil {
				a.logger.Warn("Sink close failed.", "error", err)
			}
		}
	}()

	a.logger.Info("🚀 Starting run.", "feed", a.config.Feed.Kind, "sinks", len(sinks))
	seq := uint64(0)
	for {
		bar, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("feed: %w", err)
		}
		state, err := fg.Update(bar)
		if err != nil {
			return fmt.Errorf("event %d: %w", seq, err)
		}
		for _, s := range sinks {
			if err := s.Emit(ctx, seq, bar, state); err != nil {
				return fmt.Errorf("sink: %w", err)
			}
		}
		seq++
	}
	a.logger.Info("🏁 Run finished.", "events", seq)
	return nil
}

// describeOps dumps the operator catalog as JSON.
func (a *App) describeOps() error {
	data, err := json.MarshalIndent(a.registry.Docs(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.outW, string(data))
	return err
}

func (a *App) openFeed(ctx context.Context) (feed.Feed, error) {
	fc := a.config.Feed
	switch fc.Kind {
	case "csv":
		return feed.OpenCSV(fc.Path)
	case "ws":
		return feed.DialWS(ctx, fc.URL)
	case "clickhouse":
		return feed.OpenClickHouse(ctx, fc.DSN, fc.Table, fc.Symbol)
	default:
		return nil, fmt.Errorf("unknown feed kind %q", fc.Kind)
	}
}

func (a *App) openSinks(ctx context.Context) ([]sink.Sink, error) {
	var sinks []sink.Sink
	sc := a.config.Sinks
	if sc.Print {
		sinks = append(sinks, sink.NewPrint(a.outW))
	}
	if sc.ClickHouse.DSN != "" {
		ch, err := sink.OpenClickHouse(ctx, sc.ClickHouse.DSN, sc.ClickHouse.Table, a.runID)
		if err != nil {
			closeSinks(sinks)
			return nil, err
		}
		sinks = append(sinks, ch)
	}
	if sc.SocketIO.URL != "" {
		sio, err := sink.DialSocketIO(ctx, sink.SocketIOOptions{
			URL:       sc.SocketIO.URL,
			Namespace: sc.SocketIO.Namespace,
			Event:     sc.SocketIO.Event,
		})
		if err != nil {
			closeSinks(sinks)
			return nil, err
		}
		sinks = append(sinks, sio)
	}
	return sinks, nil
}

func closeSinks(sinks []sink.Sink) {
	for _, s := range sinks {
		s.Close()
	}
}
