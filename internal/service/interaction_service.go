package service

import (
	"Kindred/internal/api/dto"
	"Kindred/internal/model"
	"Kindred/internal/pkg/kafka"
	"Kindred/internal/repository"
	"context"
	log "log/slog"
	"time"
)

// EventPublisher 关系事件总线的发布口
type EventPublisher interface {
	PublishRelationshipEvent(event *kafka.RelationshipEvent)
}

// InteractionService 互动台账：喜欢 / 划走，以及由喜欢触发的匹配形成
type InteractionService interface {
	Like(ctx context.Context, actorID, targetID uint64, mode model.Mode) (*dto.LikeResultDTO, error)
	Pass(ctx context.Context, actorID, targetID uint64, mode model.Mode) (*dto.PassResultDTO, error)
	GetLikedBy(ctx context.Context, userID uint64, mode model.Mode, limit, offset int) ([]*dto.LikerDTO, error)
}

type interactionServiceImpl struct {
	ledgerRepo   repository.LedgerRepo
	matchRepo    repository.MatchRepo
	userRepo     repository.UserRepo
	blockService BlockService
	events       EventPublisher
}

func NewInteractionService(
	ledgerRepo repository.LedgerRepo,
	matchRepo repository.MatchRepo,
	userRepo repository.UserRepo,
	blockService BlockService,
	events EventPublisher,
) InteractionService {
	return &interactionServiceImpl{
		ledgerRepo:   ledgerRepo,
		matchRepo:    matchRepo,
		userRepo:     userRepo,
		blockService: blockService,
		events:       events,
	}
}

// Like 记录喜欢并做互相喜欢检测。重复喜欢是幂等的；
// 若对方已喜欢过自己，则形成（或复用并发检测已建出的）唯一匹配。
func (s *interactionServiceImpl) Like(ctx context.Context, actorID, targetID uint64, mode model.Mode) (*dto.LikeResultDTO, error) {
	if actorID == targetID {
		return nil, ErrSelfTarget
	}

	like, err := s.ledgerRepo.RecordLike(ctx, mode, actorID, targetID)
	if err != nil {
		return nil, err
	}

	res := &dto.LikeResultDTO{
		Like: &dto.LikeDTO{
			ActorID:   like.ActorID,
			TargetID:  like.TargetID,
			Mode:      string(mode),
			CreatedAt: like.CreatedAt,
		},
	}

	mutual, err := s.ledgerRepo.HasLike(ctx, mode, targetID, actorID)
	if err != nil {
		return nil, err
	}
	if !mutual {
		return res, nil
	}

	match, created, err := s.matchRepo.CreateMatch(ctx, mode, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if created && s.events != nil {
		s.events.PublishRelationshipEvent(&kafka.RelationshipEvent{
			Type:    kafka.EventMatchCreated,
			Mode:    string(mode),
			MatchID: match.ID,
			UserIDs: []uint64{match.UserAID, match.UserBID},
			At:      time.Now(),
		})
	}

	res.IsMatch = true
	res.Match = s.toMatchDTO(ctx, match, actorID, mode)
	return res, nil
}

// Pass 记录划走，清除同方向的喜欢；从不触发匹配检测
func (s *interactionServiceImpl) Pass(ctx context.Context, actorID, targetID uint64, mode model.Mode) (*dto.PassResultDTO, error) {
	if actorID == targetID {
		return nil, ErrSelfTarget
	}

	pass, err := s.ledgerRepo.RecordPass(ctx, mode, actorID, targetID)
	if err != nil {
		return nil, err
	}

	return &dto.PassResultDTO{
		Pass: &dto.PassDTO{
			ActorID:   pass.ActorID,
			TargetID:  pass.TargetID,
			Mode:      string(mode),
			CreatedAt: pass.CreatedAt,
		},
	}, nil
}

// GetLikedBy 收到的喜欢列表，过滤双向任一方向存在拉黑的用户。
// 信任服务不可用时按未拉黑处理，只记日志，不让列表整体失败。
func (s *interactionServiceImpl) GetLikedBy(ctx context.Context, userID uint64, mode model.Mode, limit, offset int) ([]*dto.LikerDTO, error) {
	likes, err := s.ledgerRepo.GetLikedBy(ctx, mode, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	actorIDs := make([]uint64, 0, len(likes))
	for _, l := range likes {
		actorIDs = append(actorIDs, l.ActorID)
	}
	users, err := s.userRepo.GetByIDs(ctx, actorIDs)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LikerDTO, 0, len(likes))
	for _, l := range likes {
		blocked, err := s.blockService.IsEitherBlocked(ctx, userID, l.ActorID)
		if err != nil {
			log.WarnContext(ctx, "Block check failed, treating as not blocked",
				"userID", userID, "likerID", l.ActorID, "err", err)
		} else if blocked {
			continue
		}

		item := &dto.LikerDTO{UserID: l.ActorID, LikedAt: l.CreatedAt}
		if u, ok := users[l.ActorID]; ok {
			item.Nickname = u.Nickname
			item.AvatarURL = u.AvatarURL
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *interactionServiceImpl) toMatchDTO(ctx context.Context, m *model.Match, viewerID uint64, mode model.Mode) *dto.MatchDTO {
	d := &dto.MatchDTO{
		MatchID:       m.ID,
		ChatID:        m.ChatID,
		Mode:          string(mode),
		CreatedAt:     m.CreatedAt,
		LastMessageAt: m.LastMessageAt,
	}
	peerID := m.PeerOf(viewerID)
	peer, err := s.userRepo.GetByID(ctx, peerID)
	if err != nil || peer == nil {
		d.Peer = &dto.UserBriefDTO{UserID: peerID}
		return d
	}
	d.Peer = &dto.UserBriefDTO{UserID: peer.ID, Nickname: peer.Nickname, AvatarURL: peer.AvatarURL}
	return d
}
