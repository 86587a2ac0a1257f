package api

import (
	"Kindred/internal/api/middleware"
	"Kindred/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		interactionGroup := apiGroup.Group("/interactions")
		{
			interactionGroup.Use(middleware.AuthMiddleware())
			{
				interactionGroup.POST("/like/:target_id", group.InteractionHandler.Like)
				interactionGroup.POST("/pass/:target_id", group.InteractionHandler.Pass)
				interactionGroup.GET("/liked-by", group.InteractionHandler.GetLikedBy)
			}
		}

		matchGroup := apiGroup.Group("/matches")
		{
			matchGroup.Use(middleware.AuthMiddleware())
			{
				matchGroup.GET("", group.MatchHandler.ListMatches)
				matchGroup.DELETE("/:match_id", group.MatchHandler.Unmatch)
			}
		}

		chatGroup := apiGroup.Group("/chats")
		{
			chatGroup.Use(middleware.AuthMiddleware())
			{
				chatGroup.GET("", group.ChatHandler.ListChats)
				chatGroup.POST("/send", group.ChatHandler.SendMessage)
				chatGroup.GET("/:chat_id/messages", group.ChatHandler.GetMessages)
			}
		}

		// Websocket 走 query token 鉴权，不挂 Auth 中间件
		apiGroup.GET("/ws", group.WSHandler.Connect)
	}

	return r
}
