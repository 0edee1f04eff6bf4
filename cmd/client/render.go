package main

import (
	"strconv"

	"github.com/pterm/pterm"

	"github.com/NightsWatchGames/texas-holdem/internal/client"
	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
)

// renderRoomList 以表格渲染房间列表缓存
func renderRoomList(rooms []protocol.RoomDTO) {
	if len(rooms) == 0 {
		pterm.Info.Println("no rooms yet")
		return
	}
	data := pterm.TableData{{"ROOM ID", "NAME", "STATE", "OWNER", "PLAYERS"}}
	for _, r := range rooms {
		data = append(data, []string{
			strconv.FormatInt(r.RoomID, 10),
			r.RoomName,
			string(r.RoomState),
			r.OwnerName,
			strconv.Itoa(r.PlayerCount),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}
}

// renderCurrentRoom 渲染当前房间镜像
func renderCurrentRoom(room client.CurrentRoomInfo) {
	if room.RoomID == 0 {
		pterm.Info.Println("not in a room")
		return
	}
	header := pterm.Sprintf("room %d  state=%s  my_role=%s", room.RoomID, room.RoomState, room.MyRole)
	data := pterm.TableData{{"PLAYER", "ROLE", "CHIPS"}}
	for _, p := range room.Players {
		data = append(data, []string{
			p.PlayerName,
			string(p.PlayerRole),
			strconv.FormatInt(p.Chips, 10),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	pterm.DefaultBox.WithTitle(pterm.LightYellow("|ROOM|")).WithTitleTopCenter().Println(header + "\n\n" + table)
}

// renderCurrentPlay 渲染当前对局镜像
func renderCurrentPlay(play client.CurrentPlayInfo) {
	if play.PlayID == 0 {
		pterm.Info.Println("no play in progress")
		return
	}
	header := pterm.Sprintf("play %d  room %d  round=%s", play.PlayID, play.RoomID, play.Round)
	data := pterm.TableData{{"PARTICIPANT", "CHIPS"}}
	for _, p := range play.Participants {
		data = append(data, []string{
			p.PlayerName,
			strconv.FormatInt(p.Chips, 10),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	pterm.DefaultBox.WithTitle(pterm.LightGreen("|PLAY|")).WithTitleTopCenter().Println(header + "\n\n" + table)
}
