package play

import (
	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
)

// MinParticipants 开局所需的最少参与者人数
const MinParticipants = 3

// Play 一场对局
// 每个房间同一时刻至多存在一场对局；参与者名单在创建时按角色过滤拷贝，之后不变
type Play struct {
	PlayID       int64
	RoomID       int64
	Round        protocol.Round
	Participants []protocol.Player

	// 庄家/小盲/大盲，进入 preflop 时按轮转规则指定，一局内不变
	DealerName     string
	SmallBlindName string
	BigBlindName   string

	// 回合内的牌与彩池状态
	CardPool  []Card           // 牌堆，创建时为未洗牌的整副牌
	Flop      []Card           // 翻牌，未发出为空
	TurnCard  *Card            // 转牌
	RiverCard *Card            // 河牌
	HoleCards map[int64][]Card // 客户端ID -> 底牌
	Pot       int64            // 彩池
}

// ParticipantIndex 按名称查找参与者下标
func (p *Play) ParticipantIndex(playerName string) (int, bool) {
	for i, pl := range p.Participants {
		if pl.PlayerName == playerName {
			return i, true
		}
	}
	return -1, false
}
