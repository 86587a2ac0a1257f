package repository

import (
	"Kindred/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepo interface {
	CreateMatch(ctx context.Context, mode model.Mode, userA, userB uint64) (*model.Match, bool, error)
	GetMatchByChatID(ctx context.Context, mode model.Mode, chatID uint64) (*model.Match, error)
	ListMatches(ctx context.Context, mode model.Mode, userID uint64) ([]*model.Match, error)
	Unmatch(ctx context.Context, mode model.Mode, matchID, actorID uint64) (*model.Match, error)
	DanglingChatRefs(ctx context.Context, mode model.Mode) ([]*model.Match, error)
}

type matchRepoImpl struct {
	db *gorm.DB
}

func NewMatchRepo(db *gorm.DB) MatchRepo {
	return &matchRepoImpl{db: db}
}

// CreateMatch 以规范化 PairKey 上的唯一索引吸收并发的互相喜欢检测：
// 插入遇冲突时不报错，回读已存在的行，调用方永远拿到唯一的那条 Match。
// 第二个返回值标记本次调用是否真正新建了匹配。
func (s *matchRepoImpl) CreateMatch(ctx context.Context, mode model.Mode, userA, userB uint64) (*model.Match, bool, error) {
	t := mode.Tables()
	m := &model.Match{
		PairKey:   model.PairKey(userA, userB),
		UserAID:   userA,
		UserBID:   userB,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	err := s.db.WithContext(ctx).Table(t.Matches).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m).Error
	if err != nil {
		return nil, false, err
	}

	// ID 为零说明插入被唯一索引挡下，另一条并发检测已经赢了
	if m.ID == 0 {
		var existing model.Match
		if err := s.db.WithContext(ctx).Table(t.Matches).
			Where("pair_key = ?", m.PairKey).
			First(&existing).Error; err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}
	return m, true, nil
}

func (s *matchRepoImpl) GetMatchByChatID(ctx context.Context, mode model.Mode, chatID uint64) (*model.Match, error) {
	t := mode.Tables()
	var m model.Match
	err := s.db.WithContext(ctx).Table(t.Matches).
		Where("chat_id = ? AND is_active = 1", chatID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMatches 获取用户的全部有效匹配，最近互动在前
func (s *matchRepoImpl) ListMatches(ctx context.Context, mode model.Mode, userID uint64) ([]*model.Match, error) {
	t := mode.Tables()
	var matches []*model.Match
	err := s.db.WithContext(ctx).Table(t.Matches).
		Where("(user_a_id = ? OR user_b_id = ?) AND is_active = 1", userID, userID).
		Order("last_message_at desc, created_at desc").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Unmatch 单事务内把关系图退回“无关系”：锁定 Match 行并校验参与方，
// 删除双向 Like、会话消息、会话、最后是 Match 本身。
// 任一步失败整体回滚，外界不会观察到半拆除状态。
// 找不到匹配或 actor 非参与方统一返回 gorm.ErrRecordNotFound，由上层映射。
func (s *matchRepoImpl) Unmatch(ctx context.Context, mode model.Mode, matchID, actorID uint64) (*model.Match, error) {
	t := mode.Tables()
	var m model.Match

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(t.Matches).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_active = 1", matchID).
			First(&m).Error; err != nil {
			return err
		}
		if !m.Involves(actorID) {
			return gorm.ErrRecordNotFound
		}

		// 双向 Like 一并清除，之后双方可以重新滑动、干净地重来
		if err := tx.Table(t.Likes).
			Where("(actor_id = ? AND target_id = ?) OR (actor_id = ? AND target_id = ?)",
				m.UserAID, m.UserBID, m.UserBID, m.UserAID).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}

		// 先删消息再删会话，维持外键引用完整性
		if m.ChatID != nil {
			if err := tx.Table(t.Messages).
				Where("chat_id = ?", *m.ChatID).
				Delete(&model.Message{}).Error; err != nil {
				return err
			}
			if err := tx.Table(t.Chats).
				Where("id = ?", *m.ChatID).
				Delete(&model.Chat{}).Error; err != nil {
				return err
			}
		}

		return tx.Table(t.Matches).
			Where("id = ?", m.ID).
			Delete(&model.Match{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DanglingChatRefs 找出 chat_id 指向的会话行已缺失的匹配（分区巡检用）
func (s *matchRepoImpl) DanglingChatRefs(ctx context.Context, mode model.Mode) ([]*model.Match, error) {
	t := mode.Tables()
	var matches []*model.Match
	err := s.db.WithContext(ctx).Table(t.Matches+" m").
		Select("m.*").
		Joins("LEFT JOIN "+t.Chats+" c ON m.chat_id = c.id").
		Where("m.chat_id IS NOT NULL AND c.id IS NULL").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}
