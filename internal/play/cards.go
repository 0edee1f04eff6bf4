package play

// Suit 花色
type Suit string

const (
	SuitSpade   Suit = "spade"
	SuitHeart   Suit = "heart"
	SuitClub    Suit = "club"
	SuitDiamond Suit = "diamond"
)

// Rank 点数，2-10 按面值，11-14 依次为 J/Q/K/A
type Rank int

// Card 一张扑克牌
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

var allSuits = []Suit{SuitSpade, SuitHeart, SuitClub, SuitDiamond}

// NewCardPool 生成一副新的 52 张牌（13 点数 × 4 花色）
// 洗牌和发牌尚未实现，牌堆按固定顺序生成
func NewCardPool() []Card {
	pool := make([]Card, 0, 52)
	for _, suit := range allSuits {
		for rank := Rank(2); rank <= 14; rank++ {
			pool = append(pool, Card{Suit: suit, Rank: rank})
		}
	}
	return pool
}
