package play

import (
	"log/slog"

	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
	"github.com/NightsWatchGames/texas-holdem/internal/room"
	"github.com/NightsWatchGames/texas-holdem/internal/snowflake"
)

// Engine 对局引擎
// 持有对局列表，由 Server 在 tick 协程内驱动（单写者约束），不加锁
type Engine struct {
	idGen  *snowflake.Node
	plays  []*Play
	logger *slog.Logger
}

// NewEngine 创建对局引擎
func NewEngine(idGen *snowflake.Node) *Engine {
	return &Engine{
		idGen:  idGen,
		logger: slog.Default().With("component", "PlayEngine"),
	}
}

// FindByRoom 按房间ID查找进行中的对局
func (e *Engine) FindByRoom(roomID int64) (*Play, bool) {
	for _, p := range e.plays {
		if p.RoomID == roomID {
			return p, true
		}
	}
	return nil, false
}

// Plays 返回全部对局
func (e *Engine) Plays() []*Play {
	return e.plays
}

// StartNewPlays 为满足开局条件的房间创建对局，每 tick 调用一次
// 条件：房间状态为 playing、该房间没有进行中的对局、参与者人数达到下限
func (e *Engine) StartNewPlays(reg *room.Registry) {
	for _, r := range reg.Rooms() {
		if r.RoomState != protocol.RoomStatePlaying {
			continue
		}
		if _, exists := e.FindByRoom(r.RoomID); exists {
			continue
		}
		participants := r.Participants()
		if len(participants) < MinParticipants {
			continue
		}

		p := &Play{
			PlayID:       e.idGen.Generate(),
			RoomID:       r.RoomID,
			Round:        protocol.RoundStart,
			Participants: participants,
			CardPool:     NewCardPool(),
			HoleCards:    make(map[int64][]Card),
		}
		e.plays = append(e.plays, p)
		e.logger.Info("Play started",
			"playId", p.PlayID,
			"roomId", r.RoomID,
			"participantCount", len(participants))
	}
}

// AdvanceRounds 推进各对局的回合，每 tick 调用一次
// 返回本次完成庄家/盲注指定的对局（刚进入 preflop 的对局）
func (e *Engine) AdvanceRounds(reg *room.Registry) []*Play {
	var blindsAssigned []*Play

	for _, p := range e.plays {
		r, err := reg.Find(p.RoomID)
		if err != nil {
			e.logger.Error("Room not found for play", "playId", p.PlayID, "roomId", p.RoomID)
			continue
		}
		// 房间离开 playing 状态时对局原地保留，不推进也不终止
		if r.RoomState != protocol.RoomStatePlaying {
			continue
		}

		switch p.Round {
		case protocol.RoundStart:
			e.assignBlinds(p, r)
			p.Round = protocol.RoundPreflop
			blindsAssigned = append(blindsAssigned, p)

		case protocol.RoundPreflop:
			// TODO 发底牌、收盲注
			p.Round = protocol.RoundFlop

		case protocol.RoundFlop, protocol.RoundTurn, protocol.RoundRiver, protocol.RoundShowdown:
			// 后续回合的推进（下注轮、公共牌、比牌、结算）尚未实现，
			// 对局停留在 flop，这里是各回合逻辑的扩展点

		case protocol.RoundEnd:
		}
	}

	return blindsAssigned
}

// assignBlinds 指定庄家/小盲/大盲
// 房间记录了上一局庄家且其仍在参与者名单中时，从其下一位顺延；
// 否则按参与者名单的前三位指定
func (e *Engine) assignBlinds(p *Play, r *room.Room) {
	n := len(p.Participants)
	dealer, smallBlind, bigBlind := 0, 1, 2
	if r.LastDealerName != "" {
		if i, ok := p.ParticipantIndex(r.LastDealerName); ok {
			dealer = (i + 1) % n
			smallBlind = (i + 2) % n
			bigBlind = (i + 3) % n
		}
	}

	p.DealerName = p.Participants[dealer].PlayerName
	p.SmallBlindName = p.Participants[smallBlind].PlayerName
	p.BigBlindName = p.Participants[bigBlind].PlayerName
	r.LastDealerName = p.DealerName

	e.logger.Info("Blinds assigned",
		"playId", p.PlayID,
		"dealer", p.DealerName,
		"smallBlind", p.SmallBlindName,
		"bigBlind", p.BigBlindName)
}
