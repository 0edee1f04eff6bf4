package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/NightsWatchGames/texas-holdem/internal/client"
	"github.com/NightsWatchGames/texas-holdem/internal/protocol"
	"github.com/NightsWatchGames/texas-holdem/internal/snowflake"
	"github.com/NightsWatchGames/texas-holdem/internal/transport"
)

func main() {
	configPath := flag.String("config", "configs/client.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := client.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 控制台客户端日志直接走 pterm
	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	slog.SetDefault(slog.New(handler))

	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Texas ", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Holdem", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err == nil {
		pterm.Print(title)
	}

	playerName := cfg.Client.PlayerName
	if playerName == "" {
		playerName, _ = pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your player name").Show()
	}
	pterm.Info.Printfln("Player: %s", playerName)

	// 连接 NATS
	nc, err := transport.Connect(transport.NATSOptions{
		URL:           cfg.NATS.URL,
		MaxReconnects: cfg.NATS.MaxReconnects,
		ReconnectWait: cfg.NATS.ReconnectWait,
	})
	if err != nil {
		pterm.Error.Printfln("Failed to connect to NATS: %v", err)
		os.Exit(1)
	}
	defer nc.Close()
	pterm.Info.Printfln("Connected to %s", cfg.NATS.URL)

	// 客户端ID用雪花ID，重连后当作新客户端处理
	// TODO 断线重连后恢复原客户端ID
	clientID := snowflake.NewNode(cfg.Client.NodeID).Generate()
	bus, err := transport.NewNATSClientBus(nc, clientID, 64)
	if err != nil {
		pterm.Error.Printfln("Failed to subscribe downstream channels: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	session := client.NewSession(bus, playerName, cfg.Client.GetRoomsInterval)

	tickInterval := cfg.Client.TickInterval
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}

	// 会话只在本循环内读写，输入协程只投递命令
	commands := make(chan []string, 8)
	go readCommands(commands)

	printHelp()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			session.Update(now.Sub(last))
			last = now
		case args, ok := <-commands:
			if !ok {
				return
			}
			if !dispatch(session, args) {
				return
			}
		}
	}
}

// readCommands 读取标准输入，按空白切分后投递给主循环
func readCommands(commands chan<- []string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		commands <- args
	}
	close(commands)
}

// dispatch 执行一条控制台命令，返回 false 表示退出
func dispatch(session *client.Session, args []string) bool {
	switch args[0] {
	case "rooms":
		renderRoomList(session.RoomList())
	case "create":
		if len(args) < 2 {
			pterm.Warning.Println("usage: create <roomName> [password]")
			return true
		}
		password := ""
		if len(args) > 2 {
			password = args[2]
		}
		session.CreateRoom(args[1], password)
	case "enter":
		if len(args) < 2 {
			pterm.Warning.Println("usage: enter <roomId> [password]")
			return true
		}
		roomID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			pterm.Warning.Printfln("invalid room id: %s", args[1])
			return true
		}
		password := ""
		if len(args) > 2 {
			password = args[2]
		}
		session.EnterRoom(roomID, password)
	case "role":
		if len(args) < 2 {
			pterm.Warning.Println("usage: role <spectator|participant>")
			return true
		}
		role, ok := parseRole(args[1])
		if !ok {
			pterm.Warning.Printfln("unknown role: %s", args[1])
			return true
		}
		current := session.CurrentRoom()
		if current.RoomID == 0 {
			pterm.Warning.Println("not in a room")
			return true
		}
		session.SwitchPlayerRole(current.RoomID, role)
	case "state":
		if len(args) < 2 {
			pterm.Warning.Println("usage: state <waiting|playing|paused>")
			return true
		}
		state, ok := parseState(args[1])
		if !ok {
			pterm.Warning.Printfln("unknown state: %s", args[1])
			return true
		}
		session.SetRoomState(state)
	case "room":
		renderCurrentRoom(session.CurrentRoom())
	case "play":
		renderCurrentPlay(session.CurrentPlay())
	case "help":
		printHelp()
	case "quit", "exit":
		return false
	default:
		pterm.Warning.Printfln("unknown command: %s (try help)", args[0])
	}
	return true
}

func parseRole(s string) (protocol.PlayerRole, bool) {
	switch s {
	case "spectator":
		return protocol.RoleSpectator, true
	case "participant":
		return protocol.RoleParticipant, true
	}
	return "", false
}

func parseState(s string) (protocol.RoomState, bool) {
	switch s {
	case "waiting":
		return protocol.RoomStateWaiting, true
	case "playing":
		return protocol.RoomStatePlaying, true
	case "paused":
		return protocol.RoomStatePaused, true
	}
	return "", false
}

func printHelp() {
	pterm.DefaultBox.WithTitle("commands").Println(strings.Join([]string{
		"rooms                        查看房间列表",
		"create <name> [password]     创建房间",
		"enter <roomId> [password]    进入房间",
		"role <spectator|participant> 切换角色",
		"state <waiting|playing|paused> 设置房间状态（仅房主）",
		"room                         查看当前房间",
		"play                         查看当前对局",
		"quit                         退出",
	}, "\n"))
}
