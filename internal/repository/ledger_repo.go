package repository

import (
	"Kindred/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerRepo interface {
	RecordLike(ctx context.Context, mode model.Mode, actorID, targetID uint64) (*model.Like, error)
	RecordPass(ctx context.Context, mode model.Mode, actorID, targetID uint64) (*model.Pass, error)
	HasLike(ctx context.Context, mode model.Mode, actorID, targetID uint64) (bool, error)
	GetLikedBy(ctx context.Context, mode model.Mode, targetID uint64, limit, offset int) ([]*model.Like, error)
}

type ledgerRepoImpl struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepo {
	return &ledgerRepoImpl{db: db}
}

// RecordLike 同一事务内先清除反向操作再落 Like：
// 删除同有序对的 Pass，再 upsert Like（重复滑动刷新 created_at）。
func (s *ledgerRepoImpl) RecordLike(ctx context.Context, mode model.Mode, actorID, targetID uint64) (*model.Like, error) {
	t := mode.Tables()
	like := &model.Like{ActorID: actorID, TargetID: targetID, CreatedAt: time.Now()}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(t.Passes).
			Where("actor_id = ? AND target_id = ?", actorID, targetID).
			Delete(&model.Pass{}).Error; err != nil {
			return err
		}
		return tx.Table(t.Likes).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"created_at"}),
			}).
			Create(like).Error
	})
	if err != nil {
		return nil, err
	}
	return like, nil
}

// RecordPass 与 RecordLike 对称，Like/Pass 角色互换
func (s *ledgerRepoImpl) RecordPass(ctx context.Context, mode model.Mode, actorID, targetID uint64) (*model.Pass, error) {
	t := mode.Tables()
	pass := &model.Pass{ActorID: actorID, TargetID: targetID, CreatedAt: time.Now()}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(t.Likes).
			Where("actor_id = ? AND target_id = ?", actorID, targetID).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Table(t.Passes).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"created_at"}),
			}).
			Create(pass).Error
	})
	if err != nil {
		return nil, err
	}
	return pass, nil
}

// HasLike 检查有序对上是否存在 Like
func (s *ledgerRepoImpl) HasLike(ctx context.Context, mode model.Mode, actorID, targetID uint64) (bool, error) {
	t := mode.Tables()
	var count int64
	err := s.db.WithContext(ctx).Table(t.Likes).
		Where("actor_id = ? AND target_id = ?", actorID, targetID).
		Count(&count).Error
	return count > 0, err
}

// GetLikedBy 获取喜欢过 targetID 的记录，最新在前
func (s *ledgerRepoImpl) GetLikedBy(ctx context.Context, mode model.Mode, targetID uint64, limit, offset int) ([]*model.Like, error) {
	t := mode.Tables()
	var likes []*model.Like
	err := s.db.WithContext(ctx).Table(t.Likes).
		Where("target_id = ?", targetID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}
