package transport

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSOptions NATS 连接参数
type NATSOptions struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

// Connect 建立 NATS 连接
func Connect(opts NATSOptions) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(opts.MaxReconnects),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.Warn("Disconnected from NATS", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("Reconnected to NATS", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.Info("NATS connection closed")
		}),
		nats.Timeout(10 * time.Second),
	}

	return nats.Connect(opts.URL, options...)
}

func marshalEnvelope(clientID int64, message any) ([]byte, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{ClientID: clientID, Body: body})
}
