package repository

import (
	"Kindred/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserRepo interface {
	GetByID(ctx context.Context, userID uint64) (*model.User, error)
	GetByIDs(ctx context.Context, userIDs []uint64) (map[uint64]*model.User, error)
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepoImpl{db: db}
}

func (s *userRepoImpl) GetByID(ctx context.Context, userID uint64) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByIDs 批量读取档案，装配列表时避免逐条查询
func (s *userRepoImpl) GetByIDs(ctx context.Context, userIDs []uint64) (map[uint64]*model.User, error) {
	if len(userIDs) == 0 {
		return map[uint64]*model.User{}, nil
	}
	var users []*model.User
	err := s.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error
	if err != nil {
		return nil, err
	}
	res := make(map[uint64]*model.User, len(users))
	for _, u := range users {
		res[u.ID] = u
	}
	return res, nil
}
