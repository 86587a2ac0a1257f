package wire

import (
	"Kindred/internal/api"
	"Kindred/internal/api/config"
	"Kindred/internal/api/handler"
	"Kindred/internal/job"
	"Kindred/internal/pkg/cron"
	"Kindred/internal/pkg/kafka"
	"Kindred/internal/repository"
	"Kindred/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router   *gin.Engine
	DB       *gorm.DB
	Producer *kafka.Producer
	CronMgr  *cron.Manager
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, err
	}

	ledgerRepo := repository.NewLedgerRepo(db)
	matchRepo := repository.NewMatchRepo(db)
	chatRepo := repository.NewChatRepo(db)
	userRepo := repository.NewUserRepo(db)

	blockService := service.NewBlockService(cfg.Trust)
	interactionService := service.NewInteractionService(ledgerRepo, matchRepo, userRepo, blockService, producer)
	matchService := service.NewMatchService(matchRepo, userRepo, producer)
	chatService := service.NewChatService(chatRepo, matchRepo, userRepo, producer)

	handlers := &api.HandlersGroup{
		InteractionHandler: handler.NewInteractionHandler(interactionService),
		MatchHandler:       handler.NewMatchHandler(matchService),
		ChatHandler:        handler.NewChatHandler(chatService),
		WSHandler:          handler.NewWsHandler(matchService, chatService),
	}

	router := api.SetupRouter(handlers)

	auditJob := job.NewPartitionAuditJob(matchRepo, chatRepo)
	cronMgr := cron.NewCronManager(auditJob)

	return &ApplicationContainer{
		Router:   router,
		DB:       db,
		Producer: producer,
		CronMgr:  cronMgr,
	}, nil
}
