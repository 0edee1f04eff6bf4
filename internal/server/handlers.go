package server

import (
	"encoding/json"
	"errors"

	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
	"github.com/NightsWatchGames/texas-holdem/internal/room"
)

// 请求处理器
// 每个处理器在一个 tick 内排空自己通道的全部积压消息；
// 响应原样回带请求的 timestamp 令牌，由客户端做精确匹配

func (s *Server) handleGetRooms() {
	for {
		in, ok := s.bus.Poll(protocol.ChannelGetRooms)
		if !ok {
			return
		}
		s.seenClient(in.ClientID)

		var msg protocol.GetRoomsMessage
		if err := json.Unmarshal(in.Data, &msg); err != nil {
			s.logger.Error("Failed to unmarshal get rooms message", "error", err)
			continue
		}

		msg.Rooms = s.registry.DTOs()
		s.send(in.ClientID, protocol.ChannelGetRooms, msg)
	}
}

func (s *Server) handleCreateRoom() {
	for {
		in, ok := s.bus.Poll(protocol.ChannelCreateRoom)
		if !ok {
			return
		}
		s.seenClient(in.ClientID)

		var msg protocol.CreateRoomMessage
		if err := json.Unmarshal(in.Data, &msg); err != nil {
			s.logger.Error("Failed to unmarshal create room message", "error", err)
			continue
		}
		s.logger.Info("Received create room message", "roomName", msg.RoomName, "playerName", msg.PlayerName)

		r := s.registry.Create(msg.RoomName, msg.RoomPassword, msg.PlayerName, in.ClientID)
		msg.RoomID = r.RoomID
		s.send(in.ClientID, protocol.ChannelCreateRoom, msg)
	}
}

func (s *Server) handleEnterRoom() {
	for {
		in, ok := s.bus.Poll(protocol.ChannelEnterRoom)
		if !ok {
			return
		}
		s.seenClient(in.ClientID)

		var msg protocol.EnterRoomMessage
		if err := json.Unmarshal(in.Data, &msg); err != nil {
			s.logger.Error("Failed to unmarshal enter room message", "error", err)
			continue
		}
		s.logger.Info("Received enter room message", "roomId", msg.RoomID, "playerName", msg.PlayerName)

		success, err := s.registry.Join(msg.RoomID, msg.PlayerName, msg.RoomPassword, in.ClientID)
		if err != nil {
			// 房间不存在：只记日志，不回包，客户端表现为超时
			s.logger.Error("Room not found when enter room", "roomId", msg.RoomID)
			continue
		}
		// 拒绝时不区分密码错误和重名
		msg.Success = success
		s.send(in.ClientID, protocol.ChannelEnterRoom, msg)
	}
}

func (s *Server) handleSwitchPlayerRole() {
	for {
		in, ok := s.bus.Poll(protocol.ChannelSwitchPlayerRole)
		if !ok {
			return
		}
		s.seenClient(in.ClientID)

		var msg protocol.SwitchPlayerRoleMessage
		if err := json.Unmarshal(in.Data, &msg); err != nil {
			s.logger.Error("Failed to unmarshal switch player role message", "error", err)
			continue
		}
		s.logger.Info("Received switch player role message", "roomId", msg.RoomID, "targetRole", msg.TargetPlayerRole)

		success, err := s.registry.SwitchRole(msg.RoomID, in.ClientID, msg.TargetPlayerRole)
		switch {
		case errors.Is(err, room.ErrRoomNotFound):
			s.logger.Error("Room not found when switch player role", "roomId", msg.RoomID)
			continue
		case errors.Is(err, room.ErrPlayerNotFound):
			// 客户端ID在房间内没有对应成员：按失败上报而不是中止
			msg.Success = false
		default:
			msg.Success = success
		}
		s.send(in.ClientID, protocol.ChannelSwitchPlayerRole, msg)
	}
}

func (s *Server) handleSetRoomState() {
	for {
		in, ok := s.bus.Poll(protocol.ChannelSetRoomState)
		if !ok {
			return
		}
		s.seenClient(in.ClientID)

		var msg protocol.SetRoomStateMessage
		if err := json.Unmarshal(in.Data, &msg); err != nil {
			s.logger.Error("Failed to unmarshal set room state message", "error", err)
			continue
		}
		s.logger.Info("Received set room state message",
			"roomId", msg.RoomID,
			"playerName", msg.PlayerName,
			"targetState", msg.TargetRoomState)

		success, err := s.registry.SetState(msg.RoomID, msg.PlayerName, msg.TargetRoomState)
		if err != nil {
			s.logger.Error("Room not found when set room state", "roomId", msg.RoomID)
			continue
		}
		msg.Success = success
		s.send(in.ClientID, protocol.ChannelSetRoomState, msg)
	}
}

func (s *Server) send(clientID int64, ch protocol.ChannelID, message any) {
	if err := s.bus.Send(clientID, ch, message); err != nil {
		s.logger.Error("Failed to send message", "error", err, "clientId", clientID, "channel", ch)
	}
}
