package dto

import "time"

// SendMessageReq 发送消息请求体；mode 缺省兼容老客户端
type SendMessageReq struct {
	MatchID uint64 `json:"match_id" binding:"required"`
	Body    string `json:"body" binding:"required"`
	Mode    string `json:"mode"`
}

// SendMessageResultDTO 发送结果
type SendMessageResultDTO struct {
	ChatID    uint64 `json:"chatId"`
	MessageID uint64 `json:"messageId"`
}

// MessageDTO 消息明细响应
type MessageDTO struct {
	ID        uint64    `json:"id"`
	ChatID    uint64    `json:"chatId"`
	SenderID  uint64    `json:"senderId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatDTO 会话列表项响应
type ChatDTO struct {
	ChatID        uint64        `json:"chatId"`
	MatchID       uint64        `json:"matchId"`
	Peer          *UserBriefDTO `json:"peer"`
	Preview       string        `json:"preview"`
	LastMessageAt *time.Time    `json:"lastMessageAt"`
}

// WsSendFrame 客户端经 websocket 发来的消息帧
type WsSendFrame struct {
	Type    string `json:"type"`
	MatchID uint64 `json:"matchId"`
	Body    string `json:"body"`
	Mode    string `json:"mode"`
}

// RoomEventDTO 房间内广播的事件
type RoomEventDTO struct {
	Type    string      `json:"type"`
	MatchID uint64      `json:"matchId"`
	Message *MessageDTO `json:"message,omitempty"`
}
