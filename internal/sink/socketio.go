package sink

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/quantforge/tickflow/internal/ctxlog"
	"github.com/quantforge/tickflow/internal/flow"
	"github.com/quantforge/tickflow/internal/market"
)

// SocketIOOptions configures the socket.io sink connection.
type SocketIOOptions struct {
	URL                string
	Namespace          string
	Event              string
	ConnectTimeout     time.Duration
	InsecureSkipVerify bool
}

// SocketIO pushes each snapshot to a socket.io namespace as a single event,
// for dashboards listening on the other side.
type SocketIO struct {
	io    *socket.Socket
	event string
}

// DialSocketIO connects and blocks until the server acknowledges the
// connection or the timeout passes.
func DialSocketIO(ctx context.Context, o SocketIOOptions) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", o.URL)

	if o.Event == "" {
		o.Event = "snapshot"
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 10 * time.Second
	}

	parsedURL, err := url.Parse(o.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(o.Namespace, opts)

	connected := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "namespace", o.Namespace, "sid", io.Id())
		connected <- nil
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				connected <- err
				return
			}
		}
		connected <- fmt.Errorf("connect_error")
	})

	io.Connect()

	opCtx, cancel := context.WithTimeout(ctx, o.ConnectTimeout)
	defer cancel()
	select {
	case <-opCtx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, err
		}
	}
	return &SocketIO{io: io, event: o.Event}, nil
}

// Emit sends one snapshot event.
func (s *SocketIO) Emit(ctx context.Context, seq uint64, bar market.Bar, state flow.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload := map[string]any{
		"seq":   seq,
		"ts":    bar.Timestamp,
		"state": map[string]any(state),
	}
	return s.io.Emit(s.event, payload)
}

// Close disconnects the socket client.
func (s *SocketIO) Close() error {
	s.io.Disconnect()
	return nil
}
