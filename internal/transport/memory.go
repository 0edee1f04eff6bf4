package transport

import (
	"encoding/json"
	"sync"

	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
)

// MemoryBus 进程内总线，测试用
// 无损、按来源保序，语义上等同于全部通道都是可靠有序的情况
type MemoryBus struct {
	mu   sync.Mutex
	up   map[protocol.ChannelID][]Inbound
	down map[int64]map[protocol.ChannelID][][]byte
}

// NewMemoryBus 创建进程内总线
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		up:   make(map[protocol.ChannelID][]Inbound),
		down: make(map[int64]map[protocol.ChannelID][][]byte),
	}
}

// Poll 服务端取出一条上行消息
func (b *MemoryBus) Poll(ch protocol.ChannelID) (Inbound, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	queue := b.up[ch]
	if len(queue) == 0 {
		return Inbound{}, false
	}
	in := queue[0]
	b.up[ch] = queue[1:]
	return in, true
}

// Send 服务端向指定客户端投递一条下行消息
func (b *MemoryBus) Send(clientID int64, ch protocol.ChannelID, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.down[clientID] == nil {
		b.down[clientID] = make(map[protocol.ChannelID][][]byte)
	}
	b.down[clientID][ch] = append(b.down[clientID][ch], data)
	return nil
}

// Client 获取指定客户端ID的客户端侧句柄
func (b *MemoryBus) Client(clientID int64) *MemoryClient {
	return &MemoryClient{bus: b, clientID: clientID}
}

// MemoryClient 进程内总线的客户端侧
type MemoryClient struct {
	bus      *MemoryBus
	clientID int64
}

// ClientID 返回客户端标识
func (c *MemoryClient) ClientID() int64 {
	return c.clientID
}

// Poll 取出一条下行消息
func (c *MemoryClient) Poll(ch protocol.ChannelID) ([]byte, bool) {
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()

	inbox := c.bus.down[c.clientID]
	if inbox == nil || len(inbox[ch]) == 0 {
		return nil, false
	}
	data := inbox[ch][0]
	inbox[ch] = inbox[ch][1:]
	return data, true
}

// Send 发送一条上行消息
func (c *MemoryClient) Send(ch protocol.ChannelID, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()

	c.bus.up[ch] = append(c.bus.up[ch], Inbound{ClientID: c.clientID, Data: data})
	return nil
}
