package dto

import "time"

// LikeDTO 喜欢记录响应
type LikeDTO struct {
	ActorID   uint64    `json:"actorId"`
	TargetID  uint64    `json:"targetId"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"createdAt"`
}

// PassDTO 划走记录响应
type PassDTO struct {
	ActorID   uint64    `json:"actorId"`
	TargetID  uint64    `json:"targetId"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeResultDTO 喜欢操作的结果；互相喜欢时带上新形成（或已存在）的匹配
type LikeResultDTO struct {
	IsMatch bool      `json:"isMatch"`
	Like    *LikeDTO  `json:"like"`
	Match   *MatchDTO `json:"match"`
}

// PassResultDTO 划走操作的结果
type PassResultDTO struct {
	Pass *PassDTO `json:"pass"`
}

// LikerDTO “谁喜欢了我”列表项
type LikerDTO struct {
	UserID    uint64    `json:"userId"`
	Nickname  string    `json:"nickname"`
	AvatarURL string    `json:"avatarUrl"`
	LikedAt   time.Time `json:"likedAt"`
}
