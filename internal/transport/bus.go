package transport

import "encoding/json"

// Inbound 一条到达服务端的上行消息
type Inbound struct {
	ClientID int64
	Data     []byte
}

// envelope 上行消息封装，携带发送方的客户端ID用于回程路由
type envelope struct {
	ClientID int64           `json:"client_id"`
	Body     json.RawMessage `json:"body"`
}

// 发送是 fire-and-forget 的：调用方不等待投递结果，
// 请求通道的丢失由关联协议容忍，广播通道靠下个周期的全量快照补偿
