package room

import (
	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
)

// Room 房间
// room_id 创建后不可变，全局唯一；成员显示名在房间内唯一
type Room struct {
	RoomID       int64
	RoomName     string
	RoomPassword string // 明文比对，创建时指定
	RoomState    protocol.RoomState
	OwnerName    string
	Players      []protocol.Player
	// 最近一次持有庄家位的玩家名称，空串表示本房间还没有进行过对局
	LastDealerName string
}

// ContainsPlayer 房间内是否已有同名玩家
func (r *Room) ContainsPlayer(playerName string) bool {
	for _, p := range r.Players {
		if p.PlayerName == playerName {
			return true
		}
	}
	return false
}

// FindPlayerByClientID 按传输层客户端ID查找成员
func (r *Room) FindPlayerByClientID(clientID int64) (int, bool) {
	for i, p := range r.Players {
		if p.ClientID == clientID {
			return i, true
		}
	}
	return -1, false
}

// Participants 参与者快照（按角色过滤的拷贝）
func (r *Room) Participants() []protocol.Player {
	participants := make([]protocol.Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.PlayerRole == protocol.RoleParticipant {
			participants = append(participants, p)
		}
	}
	return participants
}

// PlayersSnapshot 全体成员快照（拷贝）
func (r *Room) PlayersSnapshot() []protocol.Player {
	return append([]protocol.Player{}, r.Players...)
}

// DTO 房间摘要投影，发给未入房的客户端，不携带密码和成员详情
func (r *Room) DTO() protocol.RoomDTO {
	return protocol.RoomDTO{
		RoomID:      r.RoomID,
		RoomName:    r.RoomName,
		RoomState:   r.RoomState,
		OwnerName:   r.OwnerName,
		PlayerCount: len(r.Players),
	}
}
