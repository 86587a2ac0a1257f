package dto

import "time"

// UserBriefDTO 对手方展示信息
type UserBriefDTO struct {
	UserID    uint64 `json:"userId"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
}

// MatchDTO 匹配摘要响应
type MatchDTO struct {
	MatchID       uint64        `json:"matchId"`
	ChatID        *uint64       `json:"chatId"`
	Mode          string        `json:"mode"`
	Peer          *UserBriefDTO `json:"peer"`
	CreatedAt     time.Time     `json:"createdAt"`
	LastMessageAt *time.Time    `json:"lastMessageAt"`
}
