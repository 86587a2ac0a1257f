package service

import (
	"Kindred/internal/api/dto"
	"Kindred/internal/model"
	"Kindred/internal/pkg/kafka"
	"Kindred/internal/repository"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// MatchService 匹配列表与解除匹配
type MatchService interface {
	ListMatches(ctx context.Context, userID uint64, mode model.Mode) ([]*dto.MatchDTO, error)
	Unmatch(ctx context.Context, actorID, matchID uint64, mode model.Mode) error
}

type matchServiceImpl struct {
	matchRepo repository.MatchRepo
	userRepo  repository.UserRepo
	events    EventPublisher
}

func NewMatchService(matchRepo repository.MatchRepo, userRepo repository.UserRepo, events EventPublisher) MatchService {
	return &matchServiceImpl{matchRepo: matchRepo, userRepo: userRepo, events: events}
}

// ListMatches 当前用户的有效匹配，带对手方展示信息
func (s *matchServiceImpl) ListMatches(ctx context.Context, userID uint64, mode model.Mode) ([]*dto.MatchDTO, error) {
	matches, err := s.matchRepo.ListMatches(ctx, mode, userID)
	if err != nil {
		return nil, err
	}

	peerIDs := make([]uint64, 0, len(matches))
	for _, m := range matches {
		peerIDs = append(peerIDs, m.PeerOf(userID))
	}
	users, err := s.userRepo.GetByIDs(ctx, peerIDs)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MatchDTO, 0, len(matches))
	for _, m := range matches {
		d := &dto.MatchDTO{
			MatchID:       m.ID,
			ChatID:        m.ChatID,
			Mode:          string(mode),
			CreatedAt:     m.CreatedAt,
			LastMessageAt: m.LastMessageAt,
		}
		peerID := m.PeerOf(userID)
		d.Peer = &dto.UserBriefDTO{UserID: peerID}
		if u, ok := users[peerID]; ok {
			d.Peer.Nickname = u.Nickname
			d.Peer.AvatarURL = u.AvatarURL
		}
		res = append(res, d)
	}
	return res, nil
}

// Unmatch 解除匹配。匹配不存在或 actor 非参与方一律返回匹配不存在，
// 不向外暴露他人匹配是否存在。
func (s *matchServiceImpl) Unmatch(ctx context.Context, actorID, matchID uint64, mode model.Mode) error {
	m, err := s.matchRepo.Unmatch(ctx, mode, matchID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMatchNotFound
		}
		return err
	}

	if s.events != nil {
		s.events.PublishRelationshipEvent(&kafka.RelationshipEvent{
			Type:    kafka.EventMatchUnmatched,
			Mode:    string(mode),
			MatchID: m.ID,
			UserIDs: []uint64{m.UserAID, m.UserBID},
			At:      time.Now(),
		})
	}
	return nil
}
