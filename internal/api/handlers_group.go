package api

import "Kindred/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	InteractionHandler *handler.InteractionHandler
	MatchHandler       *handler.MatchHandler
	ChatHandler        *handler.ChatHandler
	WSHandler          *handler.WsHandler
}
