package protocol

// RoomState 房间状态（waiting/playing/paused）
type RoomState string

const (
	RoomStateWaiting RoomState = "waiting"
	RoomStatePlaying RoomState = "playing"
	RoomStatePaused  RoomState = "paused"
)

// PlayerRole 玩家角色（spectator/participant）
type PlayerRole string

const (
	RoleSpectator   PlayerRole = "spectator"
	RoleParticipant PlayerRole = "participant"
)

// Round 对局回合，严格线性推进
type Round string

const (
	RoundStart    Round = "start"
	RoundPreflop  Round = "preflop"
	RoundFlop     Round = "flop"
	RoundTurn     Round = "turn"
	RoundRiver    Round = "river"
	RoundShowdown Round = "showdown"
	RoundEnd      Round = "end"
)

// Player 玩家信息（线上传输格式）
type Player struct {
	ClientID   int64      `json:"client_id"`   // 传输层客户端ID，用于路由消息
	PlayerName string     `json:"player_name"` // 显示名称，仅房间内唯一
	PlayerRole PlayerRole `json:"player_role"` // 角色
	Chips      int64      `json:"chips"`       // 筹码
}

// RoomDTO 房间摘要（只读投影，不含密码和完整成员信息）
type RoomDTO struct {
	RoomID      int64     `json:"room_id"`
	RoomName    string    `json:"room_name"`
	RoomState   RoomState `json:"room_state"`
	OwnerName   string    `json:"owner_name"`
	PlayerCount int       `json:"player_count"`
}

// ============== 请求/响应消息 ==============
// 所有消息携带 timestamp 关联令牌，请求与响应按通道一一配对

// GetRoomsMessage 获取房间列表
type GetRoomsMessage struct {
	Timestamp int64 `json:"timestamp"`
	// resp
	Rooms []RoomDTO `json:"rooms"`
}

// CreateRoomMessage 创建房间
type CreateRoomMessage struct {
	Timestamp int64 `json:"timestamp"`
	// req
	RoomName     string `json:"room_name"`
	RoomPassword string `json:"room_password"`
	PlayerName   string `json:"player_name"`
	// resp
	RoomID int64 `json:"room_id"`
}

// EnterRoomMessage 进入房间
type EnterRoomMessage struct {
	Timestamp int64 `json:"timestamp"`
	// req
	RoomID       int64  `json:"room_id"`
	RoomPassword string `json:"room_password"`
	PlayerName   string `json:"player_name"`
	// resp
	Success bool `json:"success"`
}

// SwitchPlayerRoleMessage 切换玩家角色
type SwitchPlayerRoleMessage struct {
	Timestamp int64 `json:"timestamp"`
	// req
	RoomID           int64      `json:"room_id"`
	TargetPlayerRole PlayerRole `json:"target_player_role"`
	// resp
	Success bool `json:"success"`
}

// SetRoomStateMessage 设置房间状态（仅房主）
type SetRoomStateMessage struct {
	Timestamp int64 `json:"timestamp"`
	// req
	RoomID          int64     `json:"room_id"`
	PlayerName      string    `json:"player_name"`
	TargetRoomState RoomState `json:"target_room_state"`
	// resp
	Success bool `json:"success"`
}

// ============== 广播消息（服务端 -> 房间成员） ==============

// BroadcastRoomInfoMessage 房间信息快照
type BroadcastRoomInfoMessage struct {
	Timestamp int64     `json:"timestamp"`
	RoomID    int64     `json:"room_id"`
	RoomName  string    `json:"room_name"`
	RoomState RoomState `json:"room_state"`
	Players   []Player  `json:"players"`
}

// BroadcastPlayInfoMessage 对局信息快照
type BroadcastPlayInfoMessage struct {
	Timestamp    int64    `json:"timestamp"`
	RoomID       int64    `json:"room_id"`
	PlayID       int64    `json:"play_id"`
	Round        Round    `json:"round"`
	Participants []Player `json:"participants"`
}
