package protocol

import "fmt"

// ChannelID 逻辑通道编号
// 每种请求/响应动作独占一条通道，另有两条服务端广播通道
type ChannelID uint8

const (
	// 获取房间列表
	ChannelGetRooms ChannelID = 0
	// 创建房间
	ChannelCreateRoom ChannelID = 1
	// 进入房间
	ChannelEnterRoom ChannelID = 2
	// 切换玩家角色
	ChannelSwitchPlayerRole ChannelID = 3
	// 设置房间状态
	ChannelSetRoomState ChannelID = 4
	// 广播房间信息（服务端 -> 房间内所有玩家）
	ChannelBroadcastRoomInfo ChannelID = 5
	// 广播对局信息（服务端 -> 房间内所有玩家）
	ChannelBroadcastPlayInfo ChannelID = 6
)

// Reliability 通道可靠性等级
type Reliability uint8

const (
	// ReliableOrdered 可靠有序：请求/响应通道，不允许丢包
	ReliableOrdered Reliability = iota
	// BestEffort 尽力而为：广播通道，丢了下个周期会重发全量快照
	BestEffort
)

// ChannelSpec 通道配置
type ChannelSpec struct {
	ID          ChannelID
	Name        string
	Reliability Reliability
}

var channelTable = []ChannelSpec{
	{ChannelGetRooms, "get_rooms", ReliableOrdered},
	{ChannelCreateRoom, "create_room", ReliableOrdered},
	{ChannelEnterRoom, "enter_room", ReliableOrdered},
	{ChannelSwitchPlayerRole, "switch_player_role", ReliableOrdered},
	{ChannelSetRoomState, "set_room_state", ReliableOrdered},
	{ChannelBroadcastRoomInfo, "broadcast_room_info", BestEffort},
	{ChannelBroadcastPlayInfo, "broadcast_play_info", BestEffort},
}

// Channels 返回全部通道配置
func Channels() []ChannelSpec {
	return channelTable
}

// RequestChannels 返回客户端 -> 服务端的请求通道
func RequestChannels() []ChannelSpec {
	return channelTable[:5]
}

// BroadcastChannels 返回服务端 -> 客户端的广播通道
func BroadcastChannels() []ChannelSpec {
	return channelTable[5:]
}

// Spec 按编号查找通道配置
func Spec(id ChannelID) (ChannelSpec, bool) {
	for _, spec := range channelTable {
		if spec.ID == id {
			return spec, true
		}
	}
	return ChannelSpec{}, false
}

// NATS Subject 常量定义
const (
	// SubjectUpstreamPrefix 客户端 -> 服务端上行消息前缀
	// 完整格式: holdem.up.{channel_name}
	SubjectUpstreamPrefix = "holdem.up."

	// SubjectDownstreamPrefix 服务端 -> 客户端下行消息前缀
	// 完整格式: holdem.down.{client_id}.{channel_name}
	SubjectDownstreamPrefix = "holdem.down."
)

// UpstreamSubject 构建上行 Subject
func UpstreamSubject(id ChannelID) string {
	spec, _ := Spec(id)
	return SubjectUpstreamPrefix + spec.Name
}

// DownstreamSubject 构建指定客户端的下行 Subject
func DownstreamSubject(clientID int64, id ChannelID) string {
	spec, _ := Spec(id)
	return fmt.Sprintf("%s%d.%s", SubjectDownstreamPrefix, clientID, spec.Name)
}
