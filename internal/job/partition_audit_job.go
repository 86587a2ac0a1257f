package job

import (
	"Kindred/internal/model"
	"Kindred/internal/repository"
	"context"
	log "log/slog"
)

// PartitionAuditJob 巡检各模式分区的引用完整性。
// 历史数据曾把平台模式的会话落在共享分区，只报告不修复，修复由人工确认后执行。
type PartitionAuditJob struct {
	matchRepo repository.MatchRepo
	chatRepo  repository.ChatRepo
}

func NewPartitionAuditJob(matchRepo repository.MatchRepo, chatRepo repository.ChatRepo) *PartitionAuditJob {
	return &PartitionAuditJob{matchRepo: matchRepo, chatRepo: chatRepo}
}

func (s *PartitionAuditJob) Run() {
	ctx := context.Background()
	log.Info("start partition audit job")

	for _, mode := range model.Modes {
		dangling, err := s.matchRepo.DanglingChatRefs(ctx, mode)
		if err != nil {
			log.Error("failed to scan dangling chat refs", "mode", mode, "err", err)
			continue
		}
		for _, m := range dangling {
			log.Warn("match references missing chat", "mode", mode, "matchID", m.ID, "chatID", m.ChatID)
		}

		orphans, err := s.chatRepo.OrphanChats(ctx, mode)
		if err != nil {
			log.Error("failed to scan orphan chats", "mode", mode, "err", err)
			continue
		}
		for _, chatID := range orphans {
			log.Warn("chat has no referencing match", "mode", mode, "chatID", chatID)
		}

		log.Info("partition audit finished", "mode", mode, "dangling", len(dangling), "orphans", len(orphans))
	}
}
