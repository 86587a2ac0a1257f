package consts

const (
	// ChatRoomKey 会话房间频道，chat:room:<mode>:<matchID>
	ChatRoomKey = "chat:room:"
)
