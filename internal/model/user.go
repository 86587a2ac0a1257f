package model

import "time"

// User 用户档案只读视图。身份与档案由上游系统维护，
// 这里仅为匹配、会话列表装配对手方展示信息，全模式共用一张表。
type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(64)" json:"username"`
	Nickname  string    `gorm:"type:varchar(64)" json:"nickname"`
	AvatarURL string    `gorm:"type:varchar(255)" json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string { return "users" }
