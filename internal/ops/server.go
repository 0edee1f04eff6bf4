package ops

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
)

// Status 依赖健康状态
type Status struct {
	NATS     string `json:"nats"`
	Redis    string `json:"redis,omitempty"`
	Database string `json:"database,omitempty"`
}

// Server 运维 HTTP 服务
// 只读：健康检查 + 最近一次发布的大厅快照，不触碰 tick 协程的权威状态
type Server struct {
	addr        string
	lobby       func() []protocol.RoomDTO
	nc          *nats.Conn
	redisClient *redis.Client
	db          *pgxpool.Pool
	logger      *slog.Logger
}

// New 创建运维服务
// redisClient 和 db 允许为 nil（对应存储未启用）
func New(addr string, lobby func() []protocol.RoomDTO, nc *nats.Conn, redisClient *redis.Client, db *pgxpool.Pool) *Server {
	return &Server{
		addr:        addr,
		lobby:       lobby,
		nc:          nc,
		redisClient: redisClient,
		db:          db,
		logger:      slog.Default().With("component", "OpsServer"),
	}
}

// Run 启动 HTTP 服务，直到 ctx 取消
func (s *Server) Run(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)
	r.GET("/rooms", s.handleRooms)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Ops server shutdown failed", "error", err)
		}
	}()

	s.logger.Info("Ops server started", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	status := Status{}
	healthy := true

	if s.nc != nil && s.nc.IsConnected() {
		status.NATS = "connected"
	} else {
		status.NATS = "disconnected"
		healthy = false
	}

	if s.redisClient != nil {
		redisCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.redisClient.Ping(redisCtx).Err(); err != nil {
			status.Redis = "unreachable"
			healthy = false
		} else {
			status.Redis = "connected"
		}
	}

	if s.db != nil {
		dbCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(dbCtx); err != nil {
			status.Database = "unreachable"
			healthy = false
		} else {
			status.Database = "connected"
		}
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

func (s *Server) handleRooms(c *gin.Context) {
	rooms := s.lobby()
	if rooms == nil {
		rooms = []protocol.RoomDTO{}
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}
