package model

import "time"

// Chat 会话容器，由且仅由一条 Match 持有，首条消息时惰性创建
type Chat struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Preview       string     `gorm:"type:varchar(160)" json:"preview"`
	LastMessageAt *time.Time `gorm:"index" json:"lastMessageAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Message 消息明细，写入后不可变，会话内按插入顺序全序
type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID    uint64    `gorm:"index" json:"chatId"`
	SenderID  uint64    `gorm:"not null" json:"senderId"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatOverview 会话列表项的联表查询结果
type ChatOverview struct {
	ChatID        uint64     `json:"chatId"`
	MatchID       uint64     `json:"matchId"`
	UserAID       uint64     `json:"userAId"`
	UserBID       uint64     `json:"userBId"`
	Preview       string     `json:"preview"`
	LastMessageAt *time.Time `json:"lastMessageAt"`
}
