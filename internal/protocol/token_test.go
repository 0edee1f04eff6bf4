package protocol

import "testing"

func TestTokenSourceMonotonic(t *testing.T) {
	clock := int64(100)
	src := NewTokenSourceWithClock(func() int64 { return clock })

	if got := src.Next(); got != 100 {
		t.Errorf("Expected token 100, got %d", got)
	}

	// 同一毫秒内连发时令牌仍严格递增
	if got := src.Next(); got != 101 {
		t.Errorf("Expected token 101, got %d", got)
	}

	// 时钟回拨时令牌不回退
	clock = 50
	if got := src.Next(); got != 102 {
		t.Errorf("Expected token 102, got %d", got)
	}

	clock = 200
	if got := src.Next(); got != 200 {
		t.Errorf("Expected token 200, got %d", got)
	}
}

func TestCorrelatorExactMatch(t *testing.T) {
	c := NewCorrelator()

	// 未发出过请求的通道不接受任何响应
	if c.Matches(ChannelCreateRoom, 0) {
		t.Error("Expected no match before any request was sent")
	}

	c.Sent(ChannelCreateRoom, 1000)
	if !c.Matches(ChannelCreateRoom, 1000) {
		t.Error("Expected exact token to match")
	}
	if c.Matches(ChannelCreateRoom, 999) {
		t.Error("Expected stale token to be rejected")
	}
	if c.Matches(ChannelCreateRoom, 1001) {
		t.Error("Expected future token to be rejected")
	}

	// 新请求取代旧请求后，旧响应被丢弃
	c.Sent(ChannelCreateRoom, 2000)
	if c.Matches(ChannelCreateRoom, 1000) {
		t.Error("Expected superseded token to be rejected")
	}

	// 通道之间互不影响
	if c.Matches(ChannelEnterRoom, 2000) {
		t.Error("Expected token to be scoped per channel")
	}
}

func TestFreshnessStrictlyGreater(t *testing.T) {
	f := NewFreshness()

	if !f.Accept(ChannelBroadcastRoomInfo, 100) {
		t.Error("Expected first broadcast to be accepted")
	}
	if f.Accept(ChannelBroadcastRoomInfo, 100) {
		t.Error("Expected duplicate broadcast to be rejected")
	}
	if f.Accept(ChannelBroadcastRoomInfo, 99) {
		t.Error("Expected stale broadcast to be rejected")
	}
	if !f.Accept(ChannelBroadcastRoomInfo, 101) {
		t.Error("Expected newer broadcast to be accepted")
	}

	// 另一条广播通道独立计数
	if !f.Accept(ChannelBroadcastPlayInfo, 50) {
		t.Error("Expected other channel to track its own token")
	}
}
