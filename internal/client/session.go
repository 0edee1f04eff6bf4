package client

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
)

// Bus 客户端传输总线
type Bus interface {
	ClientID() int64
	Poll(ch protocol.ChannelID) ([]byte, bool)
	Send(ch protocol.ChannelID, message any) error
}

// CurrentRoomInfo 当前房间镜像
type CurrentRoomInfo struct {
	RoomID    int64
	RoomState protocol.RoomState
	MyRole    protocol.PlayerRole
	Players   []protocol.Player
}

// CurrentPlayInfo 当前对局镜像，PlayID 为 0 表示还没有对局
type CurrentPlayInfo struct {
	PlayID       int64
	RoomID       int64
	Round        protocol.Round
	Participants []protocol.Player
}

// Session 客户端会话
// 维护服务端状态的最终一致本地镜像：三份只读缓存在收到可应用的响应或广播时
// 整体覆盖，绝不推测性修改；唯一的本地推导字段是 MyRole
type Session struct {
	bus        Bus
	playerName string

	tokens     *protocol.TokenSource
	correlator *protocol.Correlator
	freshness  *protocol.Freshness

	// get_rooms 轮询冷却，独立于响应是否到达
	getRoomsCD       time.Duration
	getRoomsInterval time.Duration

	roomList    []protocol.RoomDTO
	currentRoom CurrentRoomInfo
	currentPlay CurrentPlayInfo

	logger *slog.Logger
}

// NewSession 创建客户端会话
func NewSession(bus Bus, playerName string, getRoomsInterval time.Duration) *Session {
	if getRoomsInterval <= 0 {
		getRoomsInterval = 5 * time.Second
	}
	return &Session{
		bus:              bus,
		playerName:       playerName,
		tokens:           protocol.NewTokenSource(),
		correlator:       protocol.NewCorrelator(),
		freshness:        protocol.NewFreshness(),
		getRoomsInterval: getRoomsInterval,
		logger:           slog.Default().With("component", "Session", "playerName", playerName),
	}
}

// PlayerName 返回本端显示名
func (s *Session) PlayerName() string {
	return s.playerName
}

// RoomList 房间列表缓存（只读）
func (s *Session) RoomList() []protocol.RoomDTO {
	return s.roomList
}

// CurrentRoom 当前房间缓存（只读）
func (s *Session) CurrentRoom() CurrentRoomInfo {
	return s.currentRoom
}

// CurrentPlay 当前对局缓存（只读）
func (s *Session) CurrentPlay() CurrentPlayInfo {
	return s.currentPlay
}

// Update 执行一个客户端 tick：先轮询房间列表，再按通道排空入站消息做合并
func (s *Session) Update(dt time.Duration) {
	s.pollGetRooms(dt)

	s.recvGetRooms()
	s.recvCreateRoom()
	s.recvEnterRoom()
	s.recvSwitchPlayerRole()
	s.recvSetRoomState()
	s.recvRoomInfo()
	s.recvPlayInfo()
}

// ============== 意图（每次调用发出一个请求） ==============

// CreateRoom 请求创建房间
func (s *Session) CreateRoom(roomName, roomPassword string) {
	s.request(protocol.ChannelCreateRoom, func(token int64) any {
		// TODO 防止重复创建房间
		return protocol.CreateRoomMessage{
			Timestamp:    token,
			RoomName:     roomName,
			RoomPassword: roomPassword,
			PlayerName:   s.playerName,
		}
	})
}

// EnterRoom 请求进入房间
func (s *Session) EnterRoom(roomID int64, roomPassword string) {
	s.request(protocol.ChannelEnterRoom, func(token int64) any {
		return protocol.EnterRoomMessage{
			Timestamp:    token,
			RoomID:       roomID,
			RoomPassword: roomPassword,
			PlayerName:   s.playerName,
		}
	})
}

// SwitchPlayerRole 请求切换角色
func (s *Session) SwitchPlayerRole(roomID int64, target protocol.PlayerRole) {
	s.request(protocol.ChannelSwitchPlayerRole, func(token int64) any {
		return protocol.SwitchPlayerRoleMessage{
			Timestamp:        token,
			RoomID:           roomID,
			TargetPlayerRole: target,
		}
	})
}

// SetRoomState 请求设置当前房间状态（仅房主会成功）
func (s *Session) SetRoomState(target protocol.RoomState) {
	s.request(protocol.ChannelSetRoomState, func(token int64) any {
		return protocol.SetRoomStateMessage{
			Timestamp:       token,
			RoomID:          s.currentRoom.RoomID,
			PlayerName:      s.playerName,
			TargetRoomState: target,
		}
	})
}

// request 盖上新令牌、记录到关联器并发送
func (s *Session) request(ch protocol.ChannelID, build func(token int64) any) {
	token := s.tokens.Next()
	if err := s.bus.Send(ch, build(token)); err != nil {
		s.logger.Error("Failed to send request", "error", err, "channel", ch)
		return
	}
	s.correlator.Sent(ch, token)
}

// ============== 入站合并 ==============

func (s *Session) pollGetRooms(dt time.Duration) {
	s.getRoomsCD -= dt
	if s.getRoomsCD >= 0 {
		return
	}
	s.getRoomsCD = s.getRoomsInterval

	s.request(protocol.ChannelGetRooms, func(token int64) any {
		return protocol.GetRoomsMessage{Timestamp: token}
	})
}

func (s *Session) recvGetRooms() {
	for {
		data, ok := s.bus.Poll(protocol.ChannelGetRooms)
		if !ok {
			return
		}
		var msg protocol.GetRoomsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Error("Failed to unmarshal get rooms response", "error", err)
			continue
		}
		if !s.correlator.Matches(protocol.ChannelGetRooms, msg.Timestamp) {
			continue
		}
		s.roomList = msg.Rooms
	}
}

func (s *Session) recvCreateRoom() {
	for {
		data, ok := s.bus.Poll(protocol.ChannelCreateRoom)
		if !ok {
			return
		}
		var msg protocol.CreateRoomMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Error("Failed to unmarshal create room response", "error", err)
			continue
		}
		if !s.correlator.Matches(protocol.ChannelCreateRoom, msg.Timestamp) {
			continue
		}
		s.logger.Info("Room created", "roomId", msg.RoomID)
		s.currentRoom.RoomID = msg.RoomID
	}
}

func (s *Session) recvEnterRoom() {
	for {
		data, ok := s.bus.Poll(protocol.ChannelEnterRoom)
		if !ok {
			return
		}
		var msg protocol.EnterRoomMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Error("Failed to unmarshal enter room response", "error", err)
			continue
		}
		if !s.correlator.Matches(protocol.ChannelEnterRoom, msg.Timestamp) || !msg.Success {
			continue
		}
		s.logger.Info("Entered room", "roomId", msg.RoomID)
		s.currentRoom.RoomID = msg.RoomID
	}
}

func (s *Session) recvSwitchPlayerRole() {
	for {
		data, ok := s.bus.Poll(protocol.ChannelSwitchPlayerRole)
		if !ok {
			return
		}
		var msg protocol.SwitchPlayerRoleMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Error("Failed to unmarshal switch player role response", "error", err)
			continue
		}
		if !s.correlator.Matches(protocol.ChannelSwitchPlayerRole, msg.Timestamp) || !msg.Success {
			continue
		}
		s.currentRoom.MyRole = msg.TargetPlayerRole
	}
}

func (s *Session) recvSetRoomState() {
	for {
		data, ok := s.bus.Poll(protocol.ChannelSetRoomState)
		if !ok {
			return
		}
		var msg protocol.SetRoomStateMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Error("Failed to unmarshal set room state response", "error", err)
			continue
		}
		if !s.correlator.Matches(protocol.ChannelSetRoomState, msg.Timestamp) || !msg.Success {
			continue
		}
		s.currentRoom.RoomState = msg.TargetRoomState
	}
}

func (s *Session) recvRoomInfo() {
	for {
		data, ok := s.bus.Poll(protocol.ChannelBroadcastRoomInfo)
		if !ok {
			return
		}
		var msg protocol.BroadcastRoomInfoMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Error("Failed to unmarshal room info broadcast", "error", err)
			continue
		}
		if !s.freshness.Accept(protocol.ChannelBroadcastRoomInfo, msg.Timestamp) {
			continue
		}

		s.currentRoom.RoomID = msg.RoomID
		s.currentRoom.RoomState = msg.RoomState
		s.currentRoom.Players = msg.Players
		// 用最新成员列表按显示名反推自己的角色
		// 已知风险：重连后出现同名成员时可能认错人
		for _, p := range msg.Players {
			if p.PlayerName == s.playerName {
				s.currentRoom.MyRole = p.PlayerRole
				break
			}
		}
	}
}

func (s *Session) recvPlayInfo() {
	for {
		data, ok := s.bus.Poll(protocol.ChannelBroadcastPlayInfo)
		if !ok {
			return
		}
		var msg protocol.BroadcastPlayInfoMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Error("Failed to unmarshal play info broadcast", "error", err)
			continue
		}
		if !s.freshness.Accept(protocol.ChannelBroadcastPlayInfo, msg.Timestamp) {
			continue
		}

		s.currentPlay.PlayID = msg.PlayID
		s.currentPlay.RoomID = msg.RoomID
		s.currentPlay.Round = msg.Round
		s.currentPlay.Participants = msg.Participants
	}
}
