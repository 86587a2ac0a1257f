package service

import (
	"Kindred/internal/api/dto"
	"Kindred/internal/model"
	"Kindred/internal/pkg/consts"
	"Kindred/internal/pkg/kafka"
	"Kindred/internal/pkg/redis"
	"Kindred/internal/pkg/util"
	"Kindred/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

const (
	maxMessageRunes = 5000
	previewRunes    = 120
	defaultPageSize = 50
	maxPageSize     = 200
	roomEventNewMsg = "newMessage"
)

// ChatService 会话与消息。会话在首条消息时惰性创建，
// 串行化完全依赖存储层对 Match 行的锁，服务层不做任何互斥。
type ChatService interface {
	SendMessage(ctx context.Context, senderID, matchID uint64, body string, mode model.Mode) (*dto.SendMessageResultDTO, error)
	ListChats(ctx context.Context, userID uint64, mode model.Mode) ([]*dto.ChatDTO, error)
	GetMessages(ctx context.Context, userID, chatID uint64, mode model.Mode, limit int) ([]*dto.MessageDTO, error)
}

type chatServiceImpl struct {
	chatRepo  repository.ChatRepo
	matchRepo repository.MatchRepo
	userRepo  repository.UserRepo
	events    EventPublisher
}

func NewChatService(chatRepo repository.ChatRepo, matchRepo repository.MatchRepo, userRepo repository.UserRepo, events EventPublisher) ChatService {
	return &chatServiceImpl{chatRepo: chatRepo, matchRepo: matchRepo, userRepo: userRepo, events: events}
}

// SendMessage 发送消息；首条消息建会话，之后复用已定格的 chat_id。
// 房间广播与事件发布都在事务提交之后，尽力投递，失败不影响已落库的消息。
func (s *chatServiceImpl) SendMessage(ctx context.Context, senderID, matchID uint64, body string, mode model.Mode) (*dto.SendMessageResultDTO, error) {
	body = util.NormalizeBody(body)
	if body == "" || utf8.RuneCountInString(body) > maxMessageRunes {
		return nil, ErrMessageBody
	}
	preview := util.TruncateRunes(body, previewRunes)

	chat, msg, err := s.chatRepo.AppendMessage(ctx, mode, matchID, senderID, body, preview)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	s.broadcast(ctx, mode, matchID, msg)

	if s.events != nil {
		s.events.PublishRelationshipEvent(&kafka.RelationshipEvent{
			Type:    kafka.EventMessageSent,
			Mode:    string(mode),
			MatchID: matchID,
			UserIDs: []uint64{senderID},
			At:      time.Now(),
		})
	}

	return &dto.SendMessageResultDTO{ChatID: chat.ID, MessageID: msg.ID}, nil
}

// ListChats 会话列表，带对手方展示信息，最近消息在前
func (s *chatServiceImpl) ListChats(ctx context.Context, userID uint64, mode model.Mode) ([]*dto.ChatDTO, error) {
	rows, err := s.chatRepo.ListChats(ctx, mode, userID)
	if err != nil {
		return nil, err
	}

	peerIDs := make([]uint64, 0, len(rows))
	for _, r := range rows {
		peerIDs = append(peerIDs, peerOf(r, userID))
	}
	users, err := s.userRepo.GetByIDs(ctx, peerIDs)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatDTO, 0, len(rows))
	for _, r := range rows {
		d := &dto.ChatDTO{
			ChatID:        r.ChatID,
			MatchID:       r.MatchID,
			Preview:       r.Preview,
			LastMessageAt: r.LastMessageAt,
		}
		peerID := peerOf(r, userID)
		d.Peer = &dto.UserBriefDTO{UserID: peerID}
		if u, ok := users[peerID]; ok {
			d.Peer.Nickname = u.Nickname
			d.Peer.AvatarURL = u.AvatarURL
		}
		res = append(res, d)
	}
	return res, nil
}

// GetMessages 会话消息，最新在前。非参与方一律视为会话不存在。
func (s *chatServiceImpl) GetMessages(ctx context.Context, userID, chatID uint64, mode model.Mode, limit int) ([]*dto.MessageDTO, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	match, err := s.matchRepo.GetMatchByChatID(ctx, mode, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if !match.Involves(userID) {
		return nil, ErrChatNotFound
	}

	messages, err := s.chatRepo.ListMessages(ctx, mode, chatID, limit)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageDTO, 0, len(messages))
	for _, m := range messages {
		res = append(res, &dto.MessageDTO{
			ID:        m.ID,
			ChatID:    m.ChatID,
			SenderID:  m.SenderID,
			Body:      m.Body,
			CreatedAt: m.CreatedAt,
		})
	}
	return res, nil
}

// broadcast 向匹配房间推送新消息事件
func (s *chatServiceImpl) broadcast(ctx context.Context, mode model.Mode, matchID uint64, msg *model.Message) {
	event := &dto.RoomEventDTO{
		Type:    roomEventNewMsg,
		MatchID: matchID,
		Message: &dto.MessageDTO{
			ID:        msg.ID,
			ChatID:    msg.ChatID,
			SenderID:  msg.SenderID,
			Body:      msg.Body,
			CreatedAt: msg.CreatedAt,
		},
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.ErrorContext(ctx, "Failed to marshal room event", "matchID", matchID, "err", err)
		return
	}
	if err := redis.Publish(ctx, RoomChannel(mode, matchID), payload); err != nil {
		log.ErrorContext(ctx, "Failed to publish room event", "matchID", matchID, "err", err)
	}
}

// RoomChannel 匹配房间的发布订阅频道名
func RoomChannel(mode model.Mode, matchID uint64) string {
	return fmt.Sprintf("%s%s:%d", consts.ChatRoomKey, mode, matchID)
}

func peerOf(r *model.ChatOverview, userID uint64) uint64 {
	if r.UserAID == userID {
		return r.UserBID
	}
	return r.UserAID
}
