package server

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/NightsWatchGames/texas-holdem/internal/play"
	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
	"github.com/NightsWatchGames/texas-holdem/internal/room"
	"github.com/NightsWatchGames/texas-holdem/internal/snowflake"
	"github.com/NightsWatchGames/texas-holdem/internal/transport"
)

// Bus 服务端传输总线
type Bus interface {
	Poll(ch protocol.ChannelID) (transport.Inbound, bool)
	Send(clientID int64, ch protocol.ChannelID, message any) error
}

// LobbyStore 大厅目录存储，房间快照广播时同步写出（可选）
type LobbyStore interface {
	SaveLobby(ctx context.Context, rooms []protocol.RoomDTO) error
}

// HistoryRecorder 对局历史存储，盲注指定完成时记一行（可选）
type HistoryRecorder interface {
	RecordPlayStarted(ctx context.Context, p *play.Play) error
}

// Config 服务端运行参数
type Config struct {
	TickInterval     time.Duration // 模拟帧间隔
	RoomInfoInterval time.Duration // 房间信息广播周期
	PlayInfoInterval time.Duration // 对局信息广播周期
}

// Server 权威服务端
// 所有共享状态（房间注册表、对局列表、广播冷却）只在 tick 协程内读写，
// 跨协程读取一律走 LobbySnapshot 的原子快照
type Server struct {
	cfg      Config
	bus      Bus
	registry *room.Registry
	engine   *play.Engine
	tokens   *protocol.TokenSource

	store   LobbyStore
	history HistoryRecorder

	// 广播冷却计时器，按 tick 间隔递减，触发后复位
	roomInfoCD time.Duration
	playInfoCD time.Duration

	// 只记录见过的客户端，用于连接日志；断开在本层不可见
	knownClients map[int64]bool

	snapshot atomic.Pointer[[]protocol.RoomDTO]
	logger   *slog.Logger
}

// New 创建服务端
func New(cfg Config, bus Bus, idGen *snowflake.Node) *Server {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 50 * time.Millisecond
	}
	if cfg.RoomInfoInterval <= 0 {
		cfg.RoomInfoInterval = 5 * time.Second
	}
	if cfg.PlayInfoInterval <= 0 {
		cfg.PlayInfoInterval = time.Second
	}

	return &Server{
		cfg:          cfg,
		bus:          bus,
		registry:     room.NewRegistry(idGen),
		engine:       play.NewEngine(idGen),
		tokens:       protocol.NewTokenSource(),
		roomInfoCD:   cfg.RoomInfoInterval,
		playInfoCD:   cfg.PlayInfoInterval,
		knownClients: make(map[int64]bool),
		logger:       slog.Default().With("component", "Server"),
	}
}

// SetLobbyStore 挂接大厅目录存储
func (s *Server) SetLobbyStore(store LobbyStore) {
	s.store = store
}

// SetHistoryRecorder 挂接对局历史存储
func (s *Server) SetHistoryRecorder(h HistoryRecorder) {
	s.history = h
}

// Run 运行 tick 循环，直到 ctx 取消
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	s.logger.Info("Server started", "tickInterval", s.cfg.TickInterval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Server stopped")
			return ctx.Err()
		case now := <-ticker.C:
			s.Tick(ctx, now.Sub(last))
			last = now
		}
	}
}

// Tick 执行一个模拟帧：按固定顺序运行各处理器，每个处理器排空自己通道的积压消息
// 帧内没有任何操作会阻塞或挂起
func (s *Server) Tick(ctx context.Context, dt time.Duration) {
	s.handleGetRooms()
	s.handleCreateRoom()
	s.handleEnterRoom()
	s.handleSwitchPlayerRole()
	s.handleSetRoomState()

	s.engine.StartNewPlays(s.registry)
	for _, p := range s.engine.AdvanceRounds(s.registry) {
		s.recordHistory(ctx, p)
	}

	s.broadcastRoomInfo(ctx, dt)
	s.broadcastPlayInfo(dt)
}

// LobbySnapshot 返回最近一次发布的房间摘要快照（跨协程只读）
func (s *Server) LobbySnapshot() []protocol.RoomDTO {
	if snap := s.snapshot.Load(); snap != nil {
		return *snap
	}
	return nil
}

// seenClient 首次见到某个客户端ID时记一条连接日志
func (s *Server) seenClient(clientID int64) {
	if !s.knownClients[clientID] {
		s.knownClients[clientID] = true
		// TODO 断开连接的清理（房主离线等异常）尚未实现
		s.logger.Info("Client connected", "clientId", clientID)
	}
}

func (s *Server) recordHistory(ctx context.Context, p *play.Play) {
	if s.history == nil {
		return
	}
	// 写库不占用 tick 时间片
	go func() {
		if err := s.history.RecordPlayStarted(ctx, p); err != nil {
			s.logger.Error("Failed to record play history", "error", err, "playId", p.PlayID)
		}
	}()
}
