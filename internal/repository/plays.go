package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NightsWatchGames/texas-holdem/internal/play"
)

// PlayHistoryRepository 对局历史仓库
// 每场对局在盲注指定完成（进入 preflop）时记一行，用于赛后查询
type PlayHistoryRepository struct {
	db *pgxpool.Pool
}

// NewPlayHistoryRepository 创建对局历史仓库
func NewPlayHistoryRepository(db *pgxpool.Pool) *PlayHistoryRepository {
	return &PlayHistoryRepository{db: db}
}

// RecordPlayStarted 记录一场开始的对局
func (r *PlayHistoryRepository) RecordPlayStarted(ctx context.Context, p *play.Play) error {
	query := `
		INSERT INTO play_history (play_id, room_id, dealer_name, small_blind_name, big_blind_name, participant_count, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (play_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		p.PlayID,
		p.RoomID,
		p.DealerName,
		p.SmallBlindName,
		p.BigBlindName,
		len(p.Participants),
		time.Now(),
	)
	return err
}

// CountByRoom 查询某房间的历史对局数
func (r *PlayHistoryRepository) CountByRoom(ctx context.Context, roomID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM play_history WHERE room_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, roomID).Scan(&count)
	return count, err
}
