package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NightsWatchGames/texas-holdem/internal/client"
	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
	"github.com/NightsWatchGames/texas-holdem/internal/snowflake"
	"github.com/NightsWatchGames/texas-holdem/internal/transport"
)

// 服务端与多个客户端会话跑在进程内总线上的联动测试

type fixture struct {
	srv      *Server
	bus      *transport.MemoryBus
	sessions map[string]*client.Session
}

func newFixture(playerNames ...string) *fixture {
	bus := transport.NewMemoryBus()
	f := &fixture{
		srv:      New(Config{}, bus, snowflake.NewNode(1)),
		bus:      bus,
		sessions: make(map[string]*client.Session),
	}
	for i, name := range playerNames {
		f.sessions[name] = client.NewSession(bus.Client(int64(1000+i)), name, time.Hour)
	}
	return f
}

// step 跑一帧：服务端 tick 处理积压请求，然后各会话合并收到的消息
func (f *fixture) step(dt time.Duration) {
	f.srv.Tick(context.Background(), dt)
	for _, sess := range f.sessions {
		sess.Update(dt)
	}
}

// 一个很短的帧间隔，短到不触发任何广播冷却
const quiet = time.Millisecond

func TestCreateRoomThenListRooms(t *testing.T) {
	f := newFixture("alice", "bob")
	alice, bob := f.sessions["alice"], f.sessions["bob"]

	alice.CreateRoom("德州一号桌", "123")
	f.step(quiet)
	require.NotZero(t, alice.CurrentRoom().RoomID)

	// bob 的 get_rooms 轮询在首帧已发出，下一帧收到响应后能看到新房间
	f.step(quiet)

	rooms := bob.RoomList()
	require.Len(t, rooms, 1)
	assert.Equal(t, "德州一号桌", rooms[0].RoomName)
	assert.Equal(t, "alice", rooms[0].OwnerName)
	assert.Equal(t, 1, rooms[0].PlayerCount)
	assert.Equal(t, protocol.RoomStateWaiting, rooms[0].RoomState)
}

func TestEnterRoom(t *testing.T) {
	f := newFixture("alice", "bob", "carol")
	alice, bob, carol := f.sessions["alice"], f.sessions["bob"], f.sessions["carol"]

	alice.CreateRoom("room", "secret")
	f.step(quiet)
	roomID := alice.CurrentRoom().RoomID
	require.NotZero(t, roomID)

	// 密码错误：success=false，不入房
	bob.EnterRoom(roomID, "wrong")
	f.step(quiet)
	assert.Zero(t, bob.CurrentRoom().RoomID)

	// 密码正确且名字唯一：成功
	bob.EnterRoom(roomID, "secret")
	f.step(quiet)
	assert.Equal(t, roomID, bob.CurrentRoom().RoomID)

	// 同名玩家被拒绝
	dup := client.NewSession(f.bus.Client(4999), "bob", time.Hour)
	dup.EnterRoom(roomID, "secret")
	f.srv.Tick(context.Background(), quiet)
	dup.Update(quiet)
	assert.Zero(t, dup.CurrentRoom().RoomID)

	// 进入不存在的房间：请求被丢弃，没有任何回包
	carol.EnterRoom(999999, "secret")
	f.step(quiet)
	assert.Zero(t, carol.CurrentRoom().RoomID)

	// 成员数最终为 2（alice + bob）
	f.step(10 * time.Second) // 触发房间信息广播
	assert.Len(t, alice.CurrentRoom().Players, 2)
}

func TestSetRoomStateOwnerGated(t *testing.T) {
	f := newFixture("alice", "bob")
	alice, bob := f.sessions["alice"], f.sessions["bob"]

	alice.CreateRoom("room", "")
	f.step(quiet)
	roomID := alice.CurrentRoom().RoomID

	bob.EnterRoom(roomID, "")
	f.step(quiet)
	require.Equal(t, roomID, bob.CurrentRoom().RoomID)

	// 非房主的请求返回 success=false，状态不变
	bob.SetRoomState(protocol.RoomStatePlaying)
	f.step(quiet)
	f.step(10 * time.Second)
	assert.Equal(t, protocol.RoomStateWaiting, alice.CurrentRoom().RoomState)

	// 房主的请求生效
	alice.SetRoomState(protocol.RoomStatePlaying)
	f.step(quiet)
	f.step(10 * time.Second)
	assert.Equal(t, protocol.RoomStatePlaying, alice.CurrentRoom().RoomState)
	assert.Equal(t, protocol.RoomStatePlaying, bob.CurrentRoom().RoomState)
}

func TestPlayLifecycle(t *testing.T) {
	f := newFixture("alice", "bob", "carol")
	alice := f.sessions["alice"]

	alice.CreateRoom("room", "")
	f.step(quiet)
	roomID := alice.CurrentRoom().RoomID

	for _, name := range []string{"bob", "carol"} {
		f.sessions[name].EnterRoom(roomID, "")
		f.step(quiet)
	}

	// alice 和 bob 转为参与者，carol 仍是旁观者
	alice.SwitchPlayerRole(roomID, protocol.RoleParticipant)
	f.sessions["bob"].SwitchPlayerRole(roomID, protocol.RoleParticipant)
	f.step(quiet)
	assert.Equal(t, protocol.RoleParticipant, alice.CurrentRoom().MyRole)

	// 参与者只有 2 人：进入 playing 也不开局
	alice.SetRoomState(protocol.RoomStatePlaying)
	f.step(quiet)
	f.step(2 * time.Second)
	assert.Empty(t, f.srv.engine.Plays())
	assert.Zero(t, alice.CurrentPlay().PlayID)

	// 第 3 名参与者到位后开局，回合推进并广播到旁观者在内的全体成员
	f.sessions["carol"].SwitchPlayerRole(roomID, protocol.RoleParticipant)
	f.step(quiet)
	f.step(2 * time.Second)
	f.step(2 * time.Second)

	for name, sess := range f.sessions {
		info := sess.CurrentPlay()
		require.NotZero(t, info.PlayID, "player %s should see the play", name)
		assert.Equal(t, roomID, info.RoomID)
		assert.Len(t, info.Participants, 3)
	}
	// 没有上一局庄家：按参与者名单前三位指定
	p := f.srv.engine.Plays()[0]
	assert.NotEmpty(t, p.DealerName)
	assert.NotEmpty(t, p.SmallBlindName)
	assert.NotEmpty(t, p.BigBlindName)
}

func TestLobbySnapshotPublished(t *testing.T) {
	f := newFixture("alice")
	f.sessions["alice"].CreateRoom("room", "")
	f.step(quiet)

	assert.Nil(t, f.srv.LobbySnapshot())

	// 房间信息广播触发时同步发布快照
	f.step(10 * time.Second)
	snap := f.srv.LobbySnapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "room", snap[0].RoomName)
}
