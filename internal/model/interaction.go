package model

import "time"

// Like 有向的喜欢记录，同一有序对 (actor, target) 至多一条，
// 与同方向的 Pass 互斥。物理表由 Mode 决定，不在模型上绑定表名。
type Like struct {
	ActorID   uint64    `gorm:"primaryKey" json:"actorId"`
	TargetID  uint64    `gorm:"primaryKey;index:idx_target_id" json:"targetId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Pass 有向的划走记录，约束与 Like 对称
type Pass struct {
	ActorID   uint64    `gorm:"primaryKey" json:"actorId"`
	TargetID  uint64    `gorm:"primaryKey;index:idx_target_id" json:"targetId"`
	CreatedAt time.Time `json:"createdAt"`
}
