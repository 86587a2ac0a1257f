package service

import (
	"Kindred/internal/model"
	"Kindred/internal/pkg/kafka"
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

type pairKey struct {
	mode          model.Mode
	actor, target uint64
}

type likeEntry struct {
	like *model.Like
	seq  uint64
}

// memStore 内存版存储层，单把互斥锁模拟 Match 行锁的串行化语义，
// 同时实现台账、匹配、会话、用户四个仓储接口。
type memStore struct {
	mu sync.Mutex

	likes  map[pairKey]likeEntry
	passes map[pairKey]*model.Pass

	matches map[model.Mode]map[uint64]*model.Match
	chats   map[model.Mode]map[uint64]*model.Chat
	msgs    map[model.Mode][]*model.Message

	users map[uint64]*model.User

	seq         uint64
	nextMatchID uint64
	nextChatID  uint64
	nextMsgID   uint64

	// 置位后 Unmatch 在删除 Match 行之前失败，已做的删除全部回滚，
	// 模拟真实存储层事务在最后一步前中断的情形。
	unmatchErrBeforeMatchDelete error
}

func newMemStore() *memStore {
	s := &memStore{
		likes:   map[pairKey]likeEntry{},
		passes:  map[pairKey]*model.Pass{},
		matches: map[model.Mode]map[uint64]*model.Match{},
		chats:   map[model.Mode]map[uint64]*model.Chat{},
		msgs:    map[model.Mode][]*model.Message{},
		users:   map[uint64]*model.User{},
	}
	for _, m := range model.Modes {
		s.matches[m] = map[uint64]*model.Match{}
		s.chats[m] = map[uint64]*model.Chat{}
	}
	return s
}

func (s *memStore) addUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *memStore) RecordLike(ctx context.Context, mode model.Mode, actorID, targetID uint64) (*model.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pairKey{mode, actorID, targetID}
	delete(s.passes, k)
	like := &model.Like{ActorID: actorID, TargetID: targetID, CreatedAt: time.Now()}
	s.seq++
	s.likes[k] = likeEntry{like: like, seq: s.seq}
	return like, nil
}

func (s *memStore) RecordPass(ctx context.Context, mode model.Mode, actorID, targetID uint64) (*model.Pass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pairKey{mode, actorID, targetID}
	delete(s.likes, k)
	pass := &model.Pass{ActorID: actorID, TargetID: targetID, CreatedAt: time.Now()}
	s.passes[k] = pass
	return pass, nil
}

func (s *memStore) HasLike(ctx context.Context, mode model.Mode, actorID, targetID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.likes[pairKey{mode, actorID, targetID}]
	return ok, nil
}

func (s *memStore) GetLikedBy(ctx context.Context, mode model.Mode, targetID uint64, limit, offset int) ([]*model.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []likeEntry
	for k, e := range s.likes {
		if k.mode == mode && k.target == targetID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })
	var res []*model.Like
	for i, e := range entries {
		if i < offset {
			continue
		}
		if limit > 0 && len(res) >= limit {
			break
		}
		res = append(res, e.like)
	}
	return res, nil
}

func (s *memStore) CreateMatch(ctx context.Context, mode model.Mode, userA, userB uint64) (*model.Match, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pk := model.PairKey(userA, userB)
	for _, m := range s.matches[mode] {
		if m.PairKey == pk {
			return m, false, nil
		}
	}
	s.nextMatchID++
	m := &model.Match{
		ID:        s.nextMatchID,
		PairKey:   pk,
		UserAID:   userA,
		UserBID:   userB,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	s.matches[mode][m.ID] = m
	return m, true, nil
}

func (s *memStore) GetMatch(ctx context.Context, mode model.Mode, matchID uint64) (*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[mode][matchID]
	if !ok || !m.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (s *memStore) GetMatchByChatID(ctx context.Context, mode model.Mode, chatID uint64) (*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches[mode] {
		if m.IsActive && m.ChatID != nil && *m.ChatID == chatID {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) ListMatches(ctx context.Context, mode model.Mode, userID uint64) ([]*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*model.Match
	for _, m := range s.matches[mode] {
		if m.IsActive && m.Involves(userID) {
			res = append(res, m)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *memStore) Unmatch(ctx context.Context, mode model.Mode, matchID, actorID uint64) (*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[mode][matchID]
	if !ok || !m.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	if !m.Involves(actorID) {
		return nil, gorm.ErrRecordNotFound
	}

	savedLikes := map[pairKey]likeEntry{}
	for _, k := range []pairKey{{mode, m.UserAID, m.UserBID}, {mode, m.UserBID, m.UserAID}} {
		if e, ok := s.likes[k]; ok {
			savedLikes[k] = e
		}
	}
	savedMsgs := s.msgs[mode]
	var savedChat *model.Chat
	if m.ChatID != nil {
		savedChat = s.chats[mode][*m.ChatID]
	}

	delete(s.likes, pairKey{mode, m.UserAID, m.UserBID})
	delete(s.likes, pairKey{mode, m.UserBID, m.UserAID})

	if m.ChatID != nil {
		var kept []*model.Message
		for _, msg := range s.msgs[mode] {
			if msg.ChatID != *m.ChatID {
				kept = append(kept, msg)
			}
		}
		s.msgs[mode] = kept
		delete(s.chats[mode], *m.ChatID)
	}

	if s.unmatchErrBeforeMatchDelete != nil {
		for k, e := range savedLikes {
			s.likes[k] = e
		}
		s.msgs[mode] = savedMsgs
		if savedChat != nil {
			s.chats[mode][savedChat.ID] = savedChat
		}
		return nil, s.unmatchErrBeforeMatchDelete
	}

	delete(s.matches[mode], matchID)
	return m, nil
}

func (s *memStore) DanglingChatRefs(ctx context.Context, mode model.Mode) ([]*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*model.Match
	for _, m := range s.matches[mode] {
		if m.ChatID != nil {
			if _, ok := s.chats[mode][*m.ChatID]; !ok {
				res = append(res, m)
			}
		}
	}
	return res, nil
}

func (s *memStore) AppendMessage(ctx context.Context, mode model.Mode, matchID, senderID uint64, body, preview string) (*model.Chat, *model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[mode][matchID]
	if !ok || !m.IsActive {
		return nil, nil, gorm.ErrRecordNotFound
	}
	if !m.Involves(senderID) {
		return nil, nil, gorm.ErrRecordNotFound
	}

	now := time.Now()
	var chat *model.Chat
	if m.ChatID != nil {
		chat = s.chats[mode][*m.ChatID]
	}
	if chat == nil {
		s.nextChatID++
		chat = &model.Chat{ID: s.nextChatID, CreatedAt: now}
		s.chats[mode][chat.ID] = chat
		id := chat.ID
		m.ChatID = &id
	}

	s.nextMsgID++
	msg := &model.Message{ID: s.nextMsgID, ChatID: chat.ID, SenderID: senderID, Body: body, CreatedAt: now}
	s.msgs[mode] = append(s.msgs[mode], msg)

	chat.Preview = preview
	chat.LastMessageAt = &now
	m.LastMessageAt = &now
	return chat, msg, nil
}

func (s *memStore) ListChats(ctx context.Context, mode model.Mode, userID uint64) ([]*model.ChatOverview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*model.ChatOverview
	for _, m := range s.matches[mode] {
		if !m.IsActive || !m.Involves(userID) || m.ChatID == nil {
			continue
		}
		chat, ok := s.chats[mode][*m.ChatID]
		if !ok {
			continue
		}
		res = append(res, &model.ChatOverview{
			ChatID:        chat.ID,
			MatchID:       m.ID,
			UserAID:       m.UserAID,
			UserBID:       m.UserBID,
			Preview:       chat.Preview,
			LastMessageAt: chat.LastMessageAt,
		})
	}
	return res, nil
}

func (s *memStore) ListMessages(ctx context.Context, mode model.Mode, chatID uint64, limit int) ([]*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*model.Message
	for _, msg := range s.msgs[mode] {
		if msg.ChatID == chatID {
			res = append(res, msg)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (s *memStore) OrphanChats(ctx context.Context, mode model.Mode) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	referenced := map[uint64]bool{}
	for _, m := range s.matches[mode] {
		if m.ChatID != nil {
			referenced[*m.ChatID] = true
		}
	}
	var res []uint64
	for id := range s.chats[mode] {
		if !referenced[id] {
			res = append(res, id)
		}
	}
	return res, nil
}

func (s *memStore) GetByID(ctx context.Context, userID uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userID], nil
}

func (s *memStore) GetByIDs(ctx context.Context, userIDs []uint64) (map[uint64]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := map[uint64]*model.User{}
	for _, id := range userIDs {
		if u, ok := s.users[id]; ok {
			res[id] = u
		}
	}
	return res, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []*kafka.RelationshipEvent
}

func (s *fakeEvents) PublishRelationshipEvent(event *kafka.RelationshipEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *fakeEvents) byType(eventType string) []*kafka.RelationshipEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*kafka.RelationshipEvent
	for _, e := range s.events {
		if e.Type == eventType {
			res = append(res, e)
		}
	}
	return res
}

type fakeBlocks struct {
	blocked map[string]bool
	err     error
}

func newFakeBlocks() *fakeBlocks {
	return &fakeBlocks{blocked: map[string]bool{}}
}

func (s *fakeBlocks) block(a, b uint64) {
	s.blocked[model.PairKey(a, b)] = true
}

func (s *fakeBlocks) IsEitherBlocked(ctx context.Context, userA, userB uint64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.blocked[model.PairKey(userA, userB)], nil
}
