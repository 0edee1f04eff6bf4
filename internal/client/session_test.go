package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
	"github.com/NightsWatchGames/texas-holdem/internal/transport"
)

const testClientID = int64(7001)

func newTestSession(t *testing.T) (*Session, *transport.MemoryBus) {
	t.Helper()
	bus := transport.NewMemoryBus()
	sess := NewSession(bus.Client(testClientID), "alice", 5*time.Second)
	return sess, bus
}

// popUpstream 以伪服务端身份取出一条上行消息并解析
func popUpstream[T any](t *testing.T, bus *transport.MemoryBus, ch protocol.ChannelID) T {
	t.Helper()
	in, ok := bus.Poll(ch)
	require.True(t, ok, "expected an upstream message on channel %d", ch)
	require.Equal(t, testClientID, in.ClientID)

	var msg T
	require.NoError(t, json.Unmarshal(in.Data, &msg))
	return msg
}

func TestGetRoomsPollerCooldown(t *testing.T) {
	sess, bus := newTestSession(t)

	// 首个 tick 立即发出一次轮询
	sess.Update(50 * time.Millisecond)
	req := popUpstream[protocol.GetRoomsMessage](t, bus, protocol.ChannelGetRooms)
	assert.NotZero(t, req.Timestamp)

	// 冷却期内不再发
	sess.Update(time.Second)
	_, ok := bus.Poll(protocol.ChannelGetRooms)
	assert.False(t, ok)

	// 冷却到期后重新请求，无论上一个响应是否到达
	sess.Update(5 * time.Second)
	popUpstream[protocol.GetRoomsMessage](t, bus, protocol.ChannelGetRooms)
}

func TestGetRoomsResponseCorrelation(t *testing.T) {
	sess, bus := newTestSession(t)

	sess.Update(50 * time.Millisecond)
	req := popUpstream[protocol.GetRoomsMessage](t, bus, protocol.ChannelGetRooms)

	rooms := []protocol.RoomDTO{{RoomID: 1, RoomName: "room", OwnerName: "bob", PlayerCount: 2}}

	// 令牌不匹配的响应被丢弃
	require.NoError(t, bus.Send(testClientID, protocol.ChannelGetRooms, protocol.GetRoomsMessage{
		Timestamp: req.Timestamp - 1,
		Rooms:     rooms,
	}))
	sess.Update(10 * time.Millisecond)
	assert.Empty(t, sess.RoomList())

	// 精确匹配的响应整体覆盖缓存
	require.NoError(t, bus.Send(testClientID, protocol.ChannelGetRooms, protocol.GetRoomsMessage{
		Timestamp: req.Timestamp,
		Rooms:     rooms,
	}))
	sess.Update(10 * time.Millisecond)
	require.Len(t, sess.RoomList(), 1)
	assert.Equal(t, "room", sess.RoomList()[0].RoomName)
}

func TestEnterRoomResponse(t *testing.T) {
	sess, bus := newTestSession(t)

	sess.EnterRoom(42, "secret")
	req := popUpstream[protocol.EnterRoomMessage](t, bus, protocol.ChannelEnterRoom)
	assert.Equal(t, int64(42), req.RoomID)
	assert.Equal(t, "alice", req.PlayerName)

	// 失败响应不改变缓存
	req.Success = false
	require.NoError(t, bus.Send(testClientID, protocol.ChannelEnterRoom, req))
	sess.Update(10 * time.Millisecond)
	assert.Zero(t, sess.CurrentRoom().RoomID)

	// 重发后成功响应生效
	sess.EnterRoom(42, "secret")
	req = popUpstream[protocol.EnterRoomMessage](t, bus, protocol.ChannelEnterRoom)
	req.Success = true
	require.NoError(t, bus.Send(testClientID, protocol.ChannelEnterRoom, req))
	sess.Update(10 * time.Millisecond)
	assert.Equal(t, int64(42), sess.CurrentRoom().RoomID)
}

func TestSupersededResponseIgnored(t *testing.T) {
	sess, bus := newTestSession(t)

	sess.CreateRoom("first", "")
	first := popUpstream[protocol.CreateRoomMessage](t, bus, protocol.ChannelCreateRoom)

	sess.CreateRoom("second", "")
	second := popUpstream[protocol.CreateRoomMessage](t, bus, protocol.ChannelCreateRoom)
	require.Greater(t, second.Timestamp, first.Timestamp)

	// 被新请求取代的旧响应不生效
	first.RoomID = 100
	require.NoError(t, bus.Send(testClientID, protocol.ChannelCreateRoom, first))
	sess.Update(10 * time.Millisecond)
	assert.Zero(t, sess.CurrentRoom().RoomID)

	second.RoomID = 200
	require.NoError(t, bus.Send(testClientID, protocol.ChannelCreateRoom, second))
	sess.Update(10 * time.Millisecond)
	assert.Equal(t, int64(200), sess.CurrentRoom().RoomID)
}

func TestRoomInfoBroadcastFreshness(t *testing.T) {
	sess, bus := newTestSession(t)

	players := []protocol.Player{
		{ClientID: testClientID, PlayerName: "alice", PlayerRole: protocol.RoleParticipant},
		{ClientID: 7002, PlayerName: "bob", PlayerRole: protocol.RoleSpectator},
	}

	require.NoError(t, bus.Send(testClientID, protocol.ChannelBroadcastRoomInfo, protocol.BroadcastRoomInfoMessage{
		Timestamp: 1000,
		RoomID:    42,
		RoomName:  "room",
		RoomState: protocol.RoomStatePlaying,
		Players:   players,
	}))
	sess.Update(10 * time.Millisecond)

	info := sess.CurrentRoom()
	assert.Equal(t, int64(42), info.RoomID)
	assert.Equal(t, protocol.RoomStatePlaying, info.RoomState)
	require.Len(t, info.Players, 2)
	// 按显示名反推出自己的角色
	assert.Equal(t, protocol.RoleParticipant, info.MyRole)

	// 令牌不大于已应用值的广播被丢弃
	require.NoError(t, bus.Send(testClientID, protocol.ChannelBroadcastRoomInfo, protocol.BroadcastRoomInfoMessage{
		Timestamp: 1000,
		RoomID:    42,
		RoomState: protocol.RoomStateWaiting,
		Players:   players[:1],
	}))
	require.NoError(t, bus.Send(testClientID, protocol.ChannelBroadcastRoomInfo, protocol.BroadcastRoomInfoMessage{
		Timestamp: 999,
		RoomID:    42,
		RoomState: protocol.RoomStateWaiting,
		Players:   players[:1],
	}))
	sess.Update(10 * time.Millisecond)
	assert.Equal(t, protocol.RoomStatePlaying, sess.CurrentRoom().RoomState)
	assert.Len(t, sess.CurrentRoom().Players, 2)

	// 更新的广播整体覆盖
	require.NoError(t, bus.Send(testClientID, protocol.ChannelBroadcastRoomInfo, protocol.BroadcastRoomInfoMessage{
		Timestamp: 1001,
		RoomID:    42,
		RoomState: protocol.RoomStatePaused,
		Players:   players[:1],
	}))
	sess.Update(10 * time.Millisecond)
	assert.Equal(t, protocol.RoomStatePaused, sess.CurrentRoom().RoomState)
	assert.Len(t, sess.CurrentRoom().Players, 1)
}

func TestPlayInfoBroadcast(t *testing.T) {
	sess, bus := newTestSession(t)

	participants := []protocol.Player{
		{ClientID: testClientID, PlayerName: "alice", PlayerRole: protocol.RoleParticipant},
	}
	require.NoError(t, bus.Send(testClientID, protocol.ChannelBroadcastPlayInfo, protocol.BroadcastPlayInfoMessage{
		Timestamp:    500,
		RoomID:       42,
		PlayID:       9000,
		Round:        protocol.RoundPreflop,
		Participants: participants,
	}))
	sess.Update(10 * time.Millisecond)

	info := sess.CurrentPlay()
	assert.Equal(t, int64(9000), info.PlayID)
	assert.Equal(t, protocol.RoundPreflop, info.Round)
	require.Len(t, info.Participants, 1)

	// 两条广播通道的新鲜度互不影响
	require.NoError(t, bus.Send(testClientID, protocol.ChannelBroadcastRoomInfo, protocol.BroadcastRoomInfoMessage{
		Timestamp: 400,
		RoomID:    42,
		Players:   participants,
	}))
	sess.Update(10 * time.Millisecond)
	assert.Equal(t, int64(42), sess.CurrentRoom().RoomID)
}
