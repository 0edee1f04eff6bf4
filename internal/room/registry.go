package room

import (
	"log/slog"

	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
	"github.com/NightsWatchGames/texas-holdem/internal/snowflake"
)

// Registry 房间注册表
// 由 Server 持有并在 tick 协程内独占读写（单写者约束），不加锁
type Registry struct {
	idGen  *snowflake.Node
	rooms  []*Room
	logger *slog.Logger
}

// NewRegistry 创建房间注册表
func NewRegistry(idGen *snowflake.Node) *Registry {
	return &Registry{
		idGen:  idGen,
		logger: slog.Default().With("component", "RoomRegistry"),
	}
}

// Create 创建房间，永不失败
// 创建者作为唯一成员入房，角色为旁观者，筹码为 0
func (g *Registry) Create(roomName, roomPassword, creatorName string, creatorClientID int64) *Room {
	r := &Room{
		RoomID:       g.idGen.Generate(),
		RoomName:     roomName,
		RoomPassword: roomPassword,
		RoomState:    protocol.RoomStateWaiting,
		OwnerName:    creatorName,
		Players: []protocol.Player{{
			ClientID:   creatorClientID,
			PlayerName: creatorName,
			PlayerRole: protocol.RoleSpectator,
			Chips:      0,
		}},
	}
	g.rooms = append(g.rooms, r)
	g.logger.Info("Room created", "roomId", r.RoomID, "roomName", roomName, "owner", creatorName)
	return r
}

// Find 按ID查找房间
func (g *Registry) Find(roomID int64) (*Room, error) {
	for _, r := range g.rooms {
		if r.RoomID == roomID {
			return r, nil
		}
	}
	return nil, ErrRoomNotFound
}

// Join 加入房间
// 密码精确匹配且房间内无同名玩家时成功；拒绝时不区分原因
func (g *Registry) Join(roomID int64, playerName, roomPassword string, clientID int64) (bool, error) {
	r, err := g.Find(roomID)
	if err != nil {
		return false, err
	}
	// 同一房间内不允许重名
	if r.RoomPassword != roomPassword || r.ContainsPlayer(playerName) {
		return false, nil
	}
	r.Players = append(r.Players, protocol.Player{
		ClientID:   clientID,
		PlayerName: playerName,
		PlayerRole: protocol.RoleSpectator,
		// TODO 断线重连后恢复筹码
		Chips: 0,
	})
	return true, nil
}

// SwitchRole 切换成员角色
// 按客户端ID定位成员；找不到成员按可上报的失败处理，而不是中止进程
func (g *Registry) SwitchRole(roomID int64, clientID int64, target protocol.PlayerRole) (bool, error) {
	r, err := g.Find(roomID)
	if err != nil {
		return false, err
	}
	i, ok := r.FindPlayerByClientID(clientID)
	if !ok {
		g.logger.Warn("Player not found when switching role", "roomId", roomID, "clientId", clientID)
		return false, ErrPlayerNotFound
	}
	r.Players[i].PlayerRole = target
	return true, nil
}

// SetState 设置房间状态，仅房主可操作
// 状态之间可以任意迁移，没有额外的迁移表约束
func (g *Registry) SetState(roomID int64, requesterName string, target protocol.RoomState) (bool, error) {
	r, err := g.Find(roomID)
	if err != nil {
		return false, err
	}
	if r.OwnerName != requesterName {
		return false, nil
	}
	r.RoomState = target
	return true, nil
}

// Rooms 返回全部房间
func (g *Registry) Rooms() []*Room {
	return g.rooms
}

// DTOs 返回全部房间的摘要投影
func (g *Registry) DTOs() []protocol.RoomDTO {
	dtos := make([]protocol.RoomDTO, 0, len(g.rooms))
	for _, r := range g.rooms {
		dtos = append(dtos, r.DTO())
	}
	return dtos
}
