package transport

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
)

// NATSClientBus 客户端总线
// 订阅本客户端的全部下行 Subject（响应 + 广播），上行时把客户端ID封入信封
type NATSClientBus struct {
	nc       *nats.Conn
	clientID int64
	inboxes  map[protocol.ChannelID]chan []byte
	subs     []*nats.Subscription
	logger   *slog.Logger
}

// NewNATSClientBus 创建客户端总线并订阅全部下行通道
func NewNATSClientBus(nc *nats.Conn, clientID int64, bufferSize int) (*NATSClientBus, error) {
	if bufferSize <= 0 {
		bufferSize = 256
	}

	b := &NATSClientBus{
		nc:       nc,
		clientID: clientID,
		inboxes:  make(map[protocol.ChannelID]chan []byte),
		logger:   slog.Default().With("component", "NATSClientBus", "clientId", clientID),
	}

	for _, spec := range protocol.Channels() {
		inbox := make(chan []byte, bufferSize)
		b.inboxes[spec.ID] = inbox

		sub, err := nc.Subscribe(protocol.DownstreamSubject(clientID, spec.ID), func(msg *nats.Msg) {
			select {
			case inbox <- msg.Data:
			default:
				b.logger.Warn("Inbox full, dropping message", "channel", spec.Name)
			}
		})
		if err != nil {
			b.Close()
			return nil, err
		}
		b.subs = append(b.subs, sub)
	}

	return b, nil
}

// ClientID 返回本客户端的传输层标识
func (b *NATSClientBus) ClientID() int64 {
	return b.clientID
}

// Poll 非阻塞取出指定通道的一条下行消息
func (b *NATSClientBus) Poll(ch protocol.ChannelID) ([]byte, bool) {
	select {
	case data := <-b.inboxes[ch]:
		return data, true
	default:
		return nil, false
	}
}

// Send 发送一条上行消息，fire-and-forget
func (b *NATSClientBus) Send(ch protocol.ChannelID, message any) error {
	data, err := marshalEnvelope(b.clientID, message)
	if err != nil {
		return err
	}
	return b.nc.Publish(protocol.UpstreamSubject(ch), data)
}

// Close 退订全部通道
func (b *NATSClientBus) Close() {
	for _, sub := range b.subs {
		if err := sub.Unsubscribe(); err != nil {
			b.logger.Error("Failed to unsubscribe", "error", err)
		}
	}
	b.subs = nil
}
