package room

import "errors"

// 房间错误定义

var (
	// ErrRoomNotFound 房间不存在
	ErrRoomNotFound = errors.New("ROOM_NOT_FOUND")

	// ErrPlayerNotFound 按客户端ID找不到房间内成员
	ErrPlayerNotFound = errors.New("PLAYER_NOT_FOUND")
)
