package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
)

const (
	// LobbyKey 大厅目录 Key，存全量房间摘要 JSON
	LobbyKey = "holdem:lobby:rooms"

	// RoomInfoKeyPrefix 单房间摘要 Key 前缀
	// Key: holdem:room:info:{roomId}
	RoomInfoKeyPrefix = "holdem:room:info:"

	// LobbyTTL 大厅目录 TTL，广播周期内未续写则过期
	LobbyTTL = time.Minute
)

// BuildRoomInfoKey 构建单房间摘要 Key
func BuildRoomInfoKey(roomID int64) string {
	return fmt.Sprintf("%s%d", RoomInfoKeyPrefix, roomID)
}

// LobbyStore 大厅目录存储
// 服务端每次房间信息广播触发时把权威快照写入 redis，
// 供运维查看和其他服务读取，不参与对局核心流程
type LobbyStore struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewLobbyStore 创建大厅目录存储
func NewLobbyStore(redisClient *redis.Client) *LobbyStore {
	return &LobbyStore{
		redisClient: redisClient,
		logger:      slog.Default().With("component", "LobbyStore"),
	}
}

// SaveLobby 写出全量房间摘要
func (s *LobbyStore) SaveLobby(ctx context.Context, rooms []protocol.RoomDTO) error {
	data, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("marshal lobby snapshot: %w", err)
	}
	if err := s.redisClient.Set(ctx, LobbyKey, data, LobbyTTL).Err(); err != nil {
		return fmt.Errorf("save lobby snapshot: %w", err)
	}

	for _, r := range rooms {
		roomData, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal room info: %w", err)
		}
		if err := s.redisClient.Set(ctx, BuildRoomInfoKey(r.RoomID), roomData, LobbyTTL).Err(); err != nil {
			s.logger.Error("Failed to save room info", "error", err, "roomId", r.RoomID)
		}
	}
	return nil
}

// LoadLobby 读取全量房间摘要
func (s *LobbyStore) LoadLobby(ctx context.Context) ([]protocol.RoomDTO, error) {
	data, err := s.redisClient.Get(ctx, LobbyKey).Result()
	if err != nil {
		return nil, err
	}

	var rooms []protocol.RoomDTO
	if err := json.Unmarshal([]byte(data), &rooms); err != nil {
		return nil, fmt.Errorf("unmarshal lobby snapshot: %w", err)
	}
	return rooms, nil
}
