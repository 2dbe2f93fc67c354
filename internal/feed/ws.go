package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quantforge/tickflow/internal/market"
)

// WS streams bars from an exchange kline websocket. Prices arrive as JSON
// strings in the Binance wire shape; only closed candles become bars, so
// each bar is emitted exactly once.
type WS struct {
	conn *websocket.Conn
}

type klineEvent struct {
	Kline struct {
		OpenTime int64  `json:"t"`
		Open     string `json:"o"`
		High     string `json:"h"`
		Low      string `json:"l"`
		Close    string `json:"c"`
		Volume   string `json:"v"`
		Closed   bool   `json:"x"`
	} `json:"k"`
}

// DialWS connects to a kline stream endpoint.
func DialWS(ctx context.Context, url string) (*WS, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &WS{conn: conn}, nil
}

// Next blocks until the next closed candle arrives. A context deadline is
// applied as the read deadline; Close unblocks a pending read.
func (w *WS) Next(ctx context.Context) (market.Bar, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Time{}
	}
	if err := w.conn.SetReadDeadline(deadline); err != nil {
		return market.Bar{}, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return market.Bar{}, err
		}
		_, message, err := w.conn.ReadMessage()
		if err != nil {
			return market.Bar{}, err
		}
		var ev klineEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			return market.Bar{}, fmt.Errorf("decode kline event: %w", err)
		}
		if !ev.Kline.Closed {
			continue
		}
		return klineBar(ev)
	}
}

func klineBar(ev klineEvent) (market.Bar, error) {
	bar := market.Bar{Timestamp: ev.Kline.OpenTime}
	for _, f := range []struct {
		raw  string
		dst  *float64
		name string
	}{
		{ev.Kline.Open, &bar.Open, "open"},
		{ev.Kline.High, &bar.High, "high"},
		{ev.Kline.Low, &bar.Low, "low"},
		{ev.Kline.Close, &bar.Close, "close"},
		{ev.Kline.Volume, &bar.Volume, "volume"},
	} {
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return market.Bar{}, fmt.Errorf("kline %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = v
	}
	return bar, nil
}

// Close shuts the connection down.
func (w *WS) Close() error {
	return w.conn.Close()
}
