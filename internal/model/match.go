package model

import (
	"fmt"
	"time"
)

// Match 互相喜欢形成的无向关系，PairKey 唯一索引保证
// 每个无序用户对在一个模式下至多一条记录。
// ChatID 首条消息时才写入，写入后直到整条记录删除前不再变更。
type Match struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PairKey       string     `gorm:"uniqueIndex;type:varchar(64)" json:"pairKey"`
	UserAID       uint64     `gorm:"index" json:"userAId"`
	UserBID       uint64     `gorm:"index" json:"userBId"`
	ChatID        *uint64    `json:"chatId"`
	IsActive      bool       `gorm:"not null;default:1" json:"isActive"`
	LastMessageAt *time.Time `json:"lastMessageAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// PairKey 规范化无序用户对，小 ID 固定在前，
// 避免调用方各自做 min/max 比较导致查反方向。
func PairKey(a, b uint64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

// Involves 判断用户是否为该匹配的参与方。匹配内的鉴权一律以此为准，
// 不依赖 UserA/UserB 的落位（由哪条插入胜出决定，无业务含义）。
func (m *Match) Involves(userID uint64) bool {
	return m.UserAID == userID || m.UserBID == userID
}

// PeerOf 返回对手方用户 ID
func (m *Match) PeerOf(userID uint64) uint64 {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}
