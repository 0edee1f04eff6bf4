package protocol

import "time"

// TokenSource 关联令牌发生器
// 产出毫秒级时间戳令牌，保证同一来源内严格递增
// （同一毫秒内连发或时钟回拨时在上一个令牌上加一）
// 令牌只用于请求/响应关联，不承诺墙上时钟精度
type TokenSource struct {
	last int64
	now  func() int64
}

// NewTokenSource 创建令牌发生器
func NewTokenSource() *TokenSource {
	return &TokenSource{
		now: func() int64 { return time.Now().UnixMilli() },
	}
}

// NewTokenSourceWithClock 创建使用指定时钟的令牌发生器（测试用）
func NewTokenSourceWithClock(now func() int64) *TokenSource {
	return &TokenSource{now: now}
}

// Next 产出下一个令牌
func (t *TokenSource) Next() int64 {
	token := t.now()
	if token <= t.last {
		token = t.last + 1
	}
	t.last = token
	return token
}

// Correlator 请求方关联状态
// 按通道记录最后一次发出的令牌，只接受令牌精确匹配的响应，
// 被新请求取代或重复送达的响应会被丢弃
type Correlator struct {
	lastSent map[ChannelID]int64
}

// NewCorrelator 创建关联器
func NewCorrelator() *Correlator {
	return &Correlator{lastSent: make(map[ChannelID]int64)}
}

// Sent 记录在指定通道上发出的令牌
func (c *Correlator) Sent(ch ChannelID, token int64) {
	c.lastSent[ch] = token
}

// Matches 判断响应令牌是否与该通道最后发出的令牌精确匹配
func (c *Correlator) Matches(ch ChannelID, token int64) bool {
	last, ok := c.lastSent[ch]
	return ok && last == token
}

// Freshness 广播接收方的新鲜度判定
// 按通道记录已应用的最高令牌，只接受严格更大的令牌（last-write-wins），
// 乱序和重复的广播被静默丢弃
type Freshness struct {
	lastApplied map[ChannelID]int64
}

// NewFreshness 创建新鲜度判定器
func NewFreshness() *Freshness {
	return &Freshness{lastApplied: make(map[ChannelID]int64)}
}

// Accept 判断广播令牌是否比已应用的更新，是则记录并返回 true
func (f *Freshness) Accept(ch ChannelID, token int64) bool {
	if token <= f.lastApplied[ch] {
		return false
	}
	f.lastApplied[ch] = token
	return true
}
