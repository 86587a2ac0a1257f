package service

import (
	"Kindred/internal/model"
	"Kindred/internal/pkg/kafka"
	"context"
	"errors"
	"sync"
	"testing"
)

func newInteractionFixture() (*memStore, *fakeBlocks, *fakeEvents, InteractionService) {
	store := newMemStore()
	blocks := newFakeBlocks()
	events := &fakeEvents{}
	svc := NewInteractionService(store, store, store, blocks, events)
	return store, blocks, events, svc
}

func TestLikeSelfTarget(t *testing.T) {
	_, _, _, svc := newInteractionFixture()

	if _, err := svc.Like(context.Background(), 1, 1, model.ModeRomantic); !errors.Is(err, ErrSelfTarget) {
		t.Fatalf("expected ErrSelfTarget, got %v", err)
	}
	if _, err := svc.Pass(context.Background(), 1, 1, model.ModeRomantic); !errors.Is(err, ErrSelfTarget) {
		t.Fatalf("expected ErrSelfTarget, got %v", err)
	}
}

func TestMutualLikeFormsSingleMatch(t *testing.T) {
	ctx := context.Background()
	store, _, events, svc := newInteractionFixture()

	res, err := svc.Like(ctx, 1, 2, model.ModeRomantic)
	if err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if res.IsMatch {
		t.Fatal("one-sided like must not form a match")
	}

	res, err = svc.Like(ctx, 2, 1, model.ModeRomantic)
	if err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if !res.IsMatch || res.Match == nil {
		t.Fatal("mutual like must form a match")
	}
	matchID := res.Match.MatchID

	// 重复喜欢幂等：仍然返回同一条匹配，不再发匹配事件
	res, err = svc.Like(ctx, 2, 1, model.ModeRomantic)
	if err != nil {
		t.Fatalf("repeated like failed: %v", err)
	}
	if !res.IsMatch || res.Match.MatchID != matchID {
		t.Fatalf("repeated like must return the same match, got %+v", res.Match)
	}

	if n := len(store.matches[model.ModeRomantic]); n != 1 {
		t.Fatalf("expected exactly 1 match, got %d", n)
	}
	if n := len(events.byType(kafka.EventMatchCreated)); n != 1 {
		t.Fatalf("expected exactly 1 match.created event, got %d", n)
	}
}

func TestModesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store, _, _, svc := newInteractionFixture()

	if _, err := svc.Like(ctx, 1, 2, model.ModeRomantic); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	res, err := svc.Like(ctx, 2, 1, model.ModePlatonic)
	if err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if res.IsMatch {
		t.Fatal("likes in different modes must not form a match")
	}
	if n := len(store.matches[model.ModeRomantic]) + len(store.matches[model.ModePlatonic]); n != 0 {
		t.Fatalf("expected no matches, got %d", n)
	}
}

func TestPassClearsLike(t *testing.T) {
	ctx := context.Background()
	store, _, _, svc := newInteractionFixture()

	if _, err := svc.Like(ctx, 1, 2, model.ModeRomantic); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if _, err := svc.Pass(ctx, 1, 2, model.ModeRomantic); err != nil {
		t.Fatalf("pass failed: %v", err)
	}

	has, err := store.HasLike(ctx, model.ModeRomantic, 1, 2)
	if err != nil || has {
		t.Fatalf("pass must clear the like in the same direction, has=%v err=%v", has, err)
	}

	// 对方此后喜欢过来也不会形成匹配
	res, err := svc.Like(ctx, 2, 1, model.ModeRomantic)
	if err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if res.IsMatch {
		t.Fatal("like after the counterpart passed must not match")
	}
}

func TestLikeClearsPass(t *testing.T) {
	ctx := context.Background()
	store, _, _, svc := newInteractionFixture()

	if _, err := svc.Pass(ctx, 1, 2, model.ModeRomantic); err != nil {
		t.Fatalf("pass failed: %v", err)
	}
	if _, err := svc.Like(ctx, 1, 2, model.ModeRomantic); err != nil {
		t.Fatalf("like failed: %v", err)
	}

	store.mu.Lock()
	_, hasPass := store.passes[pairKey{model.ModeRomantic, 1, 2}]
	_, hasLike := store.likes[pairKey{model.ModeRomantic, 1, 2}]
	store.mu.Unlock()
	if hasPass || !hasLike {
		t.Fatalf("like must replace the pass, hasPass=%v hasLike=%v", hasPass, hasLike)
	}
}

func TestConcurrentMutualLikeSingleMatch(t *testing.T) {
	ctx := context.Background()
	store, _, events, svc := newInteractionFixture()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.Like(ctx, 1, 2, model.ModeRomantic)
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Like(ctx, 2, 1, model.ModeRomantic)
		}()
	}
	wg.Wait()

	if n := len(store.matches[model.ModeRomantic]); n != 1 {
		t.Fatalf("concurrent mutual likes must form exactly 1 match, got %d", n)
	}
	if n := len(events.byType(kafka.EventMatchCreated)); n != 1 {
		t.Fatalf("expected exactly 1 match.created event, got %d", n)
	}
}

func TestGetLikedByFiltersBlocked(t *testing.T) {
	ctx := context.Background()
	store, blocks, _, svc := newInteractionFixture()
	store.addUser(&model.User{ID: 2, Nickname: "b"})
	store.addUser(&model.User{ID: 3, Nickname: "c"})

	if _, err := svc.Like(ctx, 2, 1, model.ModeRomantic); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if _, err := svc.Like(ctx, 3, 1, model.ModeRomantic); err != nil {
		t.Fatalf("like failed: %v", err)
	}

	blocks.block(1, 2)

	res, err := svc.GetLikedBy(ctx, 1, model.ModeRomantic, 50, 0)
	if err != nil {
		t.Fatalf("liked-by failed: %v", err)
	}
	if len(res) != 1 || res[0].UserID != 3 {
		t.Fatalf("expected only user 3, got %+v", res)
	}
	if res[0].Nickname != "c" {
		t.Fatalf("expected profile info assembled, got %+v", res[0])
	}
}

func TestGetLikedByFailsOpenOnBlockError(t *testing.T) {
	ctx := context.Background()
	_, blocks, _, svc := newInteractionFixture()

	if _, err := svc.Like(ctx, 2, 1, model.ModeRomantic); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	blocks.err = errors.New("trust service down")

	res, err := svc.GetLikedBy(ctx, 1, model.ModeRomantic, 50, 0)
	if err != nil {
		t.Fatalf("liked-by must not fail when block check fails: %v", err)
	}
	if len(res) != 1 || res[0].UserID != 2 {
		t.Fatalf("expected liker kept on block check failure, got %+v", res)
	}
}
