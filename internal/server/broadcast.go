package server

import (
	"context"
	"time"

	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
)

// 广播调度
// 冷却计时器按帧间隔递减，降到零以下触发一次全量快照广播并复位；
// 每次触发对每个房间/对局向每个成员各发一条消息，不做合并

func (s *Server) broadcastRoomInfo(ctx context.Context, dt time.Duration) {
	s.roomInfoCD -= dt
	if s.roomInfoCD >= 0 {
		return
	}
	s.roomInfoCD = s.cfg.RoomInfoInterval

	for _, r := range s.registry.Rooms() {
		msg := protocol.BroadcastRoomInfoMessage{
			Timestamp: s.tokens.Next(),
			RoomID:    r.RoomID,
			RoomName:  r.RoomName,
			RoomState: r.RoomState,
			Players:   r.PlayersSnapshot(),
		}
		for _, p := range r.Players {
			s.send(p.ClientID, protocol.ChannelBroadcastRoomInfo, msg)
		}
	}

	s.publishLobbySnapshot(ctx)
}

func (s *Server) broadcastPlayInfo(dt time.Duration) {
	s.playInfoCD -= dt
	if s.playInfoCD >= 0 {
		return
	}
	s.playInfoCD = s.cfg.PlayInfoInterval

	for _, p := range s.engine.Plays() {
		msg := protocol.BroadcastPlayInfoMessage{
			Timestamp:    s.tokens.Next(),
			RoomID:       p.RoomID,
			PlayID:       p.PlayID,
			Round:        p.Round,
			Participants: append([]protocol.Player{}, p.Participants...),
		}
		// 向房间内的所有玩家广播对局信息，旁观者也收
		r, err := s.registry.Find(p.RoomID)
		if err != nil {
			s.logger.Error("Room not found for play broadcast", "playId", p.PlayID, "roomId", p.RoomID)
			continue
		}
		for _, member := range r.Players {
			s.send(member.ClientID, protocol.ChannelBroadcastPlayInfo, msg)
		}
	}
}

// publishLobbySnapshot 发布跨协程可读的房间摘要，并写出大厅目录
func (s *Server) publishLobbySnapshot(ctx context.Context) {
	dtos := s.registry.DTOs()
	s.snapshot.Store(&dtos)

	if s.store == nil {
		return
	}
	// 写 redis 不占用 tick 时间片
	go func() {
		if err := s.store.SaveLobby(ctx, dtos); err != nil {
			s.logger.Error("Failed to save lobby snapshot", "error", err)
		}
	}()
}
