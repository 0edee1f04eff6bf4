package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/NightsWatchGames/texas-holdem/internal/config"
	"github.com/NightsWatchGames/texas-holdem/internal/ops"
	"github.com/NightsWatchGames/texas-holdem/internal/repository"
	"github.com/NightsWatchGames/texas-holdem/internal/server"
	"github.com/NightsWatchGames/texas-holdem/internal/snowflake"
	"github.com/NightsWatchGames/texas-holdem/internal/store"
	"github.com/NightsWatchGames/texas-holdem/internal/transport"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.App.LogLevel),
	}))
	slog.SetDefault(logger)

	// 创建上下文
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 连接 NATS
	nc, err := transport.Connect(transport.NATSOptions{
		URL:           cfg.NATS.URL,
		MaxReconnects: cfg.NATS.MaxReconnects,
		ReconnectWait: cfg.NATS.ReconnectWait,
	})
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer nc.Close()
	logger.Info("Connected to NATS", "url", cfg.NATS.URL)

	// 订阅上行通道
	bus, err := transport.NewNATSServerBus(nc, cfg.Server.BufferSize)
	if err != nil {
		logger.Error("Failed to subscribe upstream channels", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	idGen := snowflake.NewNode(cfg.App.NodeID)
	srv := server.New(server.Config{
		TickInterval:     cfg.Server.TickInterval,
		RoomInfoInterval: cfg.Server.RoomInfoInterval,
		PlayInfoInterval: cfg.Server.PlayInfoInterval,
	}, bus, idGen)

	// 连接 Redis（可选，用于大厅快照）
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = connectRedis(cfg.Redis)
		defer redisClient.Close()
		srv.SetLobbyStore(store.NewLobbyStore(redisClient))
		logger.Info("Connected to Redis", "host", cfg.Redis.Host)
	}

	// 连接数据库（可选，用于对局历史）
	var db *pgxpool.Pool
	if cfg.Database.Enabled {
		db, err = connectDatabase(ctx, cfg.Database)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		srv.SetHistoryRecorder(repository.NewPlayHistoryRepository(db))
		logger.Info("Connected to PostgreSQL", "host", cfg.Database.Host)
	}

	// 启动运维 HTTP 服务
	opsServer := ops.New(cfg.Ops.Addr, srv.LobbySnapshot, nc, redisClient, db)
	go func() {
		if err := opsServer.Run(ctx); err != nil {
			logger.Error("Ops server failed", "error", err)
		}
	}()

	// 启动模拟循环
	runErr := make(chan error, 1)
	go func() {
		runErr <- srv.Run(ctx)
	}()

	logger.Info("Holdem server started", "name", cfg.App.Name, "tick_interval", cfg.Server.TickInterval)

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		logger.Info("Shutting down...")
		cancel()
		<-runErr
	case err := <-runErr:
		if err != nil {
			logger.Error("Simulation loop failed", "error", err)
		}
		cancel()
	}
	logger.Info("Holdem server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// connectRedis 连接 Redis
func connectRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// connectDatabase 连接 PostgreSQL
func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = 10 * time.Minute

	return pgxpool.NewWithConfig(ctx, poolConfig)
}
