package transport

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
)

// NATSServerBus 服务端总线
// 每条请求通道订阅一个上行 Subject，收到的消息进入按通道划分的有界缓冲，
// 由 tick 协程非阻塞地排空；下行按客户端ID定向发布
type NATSServerBus struct {
	nc      *nats.Conn
	inboxes map[protocol.ChannelID]chan Inbound
	subs    []*nats.Subscription
	logger  *slog.Logger
}

// NewNATSServerBus 创建服务端总线并订阅全部请求通道
func NewNATSServerBus(nc *nats.Conn, bufferSize int) (*NATSServerBus, error) {
	if bufferSize <= 0 {
		bufferSize = 1024
	}

	b := &NATSServerBus{
		nc:      nc,
		inboxes: make(map[protocol.ChannelID]chan Inbound),
		logger:  slog.Default().With("component", "NATSServerBus"),
	}

	for _, spec := range protocol.RequestChannels() {
		inbox := make(chan Inbound, bufferSize)
		b.inboxes[spec.ID] = inbox

		sub, err := nc.Subscribe(protocol.UpstreamSubject(spec.ID), func(msg *nats.Msg) {
			var env envelope
			if err := json.Unmarshal(msg.Data, &env); err != nil {
				b.logger.Error("Failed to unmarshal upstream envelope", "error", err, "subject", msg.Subject)
				return
			}
			select {
			case inbox <- Inbound{ClientID: env.ClientID, Data: env.Body}:
			default:
				// 缓冲区满，记录警告
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

// Poll 非阻塞取出指定通道的一条上行消息
func (b *NATSServerBus) Poll(ch protocol.ChannelID) (Inbound, bool) {
	select {
	case in := <-b.inboxes[ch]:
		return in, true
	default:
		return Inbound{}, false
	}
}

// Send 向指定客户端发送一条下行消息，fire-and-forget
func (b *NATSServerBus) Send(clientID int64, ch protocol.ChannelID, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return b.nc.Publish(protocol.DownstreamSubject(clientID, ch), data)
}

// Close 退订全部通道
func (b *NATSServerBus) Close() {
	for _, sub := range b.subs {
		if err := sub.Unsubscribe(); err != nil {
			b.logger.Error("Failed to unsubscribe", "error", err)
		}
	}
	b.subs = nil
}
