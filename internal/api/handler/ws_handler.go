package handler

import (
	"Kindred/internal/api/dto"
	"Kindred/internal/model"
	"Kindred/internal/pkg/redis"
	"Kindred/internal/pkg/response"
	"Kindred/internal/pkg/security"
	"Kindred/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WsHandler struct {
	matchService service.MatchService
	chatService  service.ChatService
}

func NewWsHandler(matchService service.MatchService, chatService service.ChatService) *WsHandler {
	return &WsHandler{matchService: matchService, chatService: chatService}
}

// Connect 建立 websocket 连接。订阅用户在两种模式下所有有效匹配的房间频道，
// 同时支持客户端经 send 帧直接发消息，落库与广播走同一条 HTTP 发送链路。
func (s *WsHandler) Connect(c *gin.Context) {
	// 鉴权
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	// 升级 Websocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	// 获取用户在所有模式下参与的匹配，订阅对应房间频道
	var channels []string
	for _, mode := range model.Modes {
		matches, err := s.matchService.ListMatches(context.Background(), userID, mode)
		if err != nil {
			log.Error("获取匹配列表失败", "userID", userID, "mode", mode, "err", err)
			return
		}
		for _, m := range matches {
			channels = append(channels, service.RoomChannel(mode, m.MatchID))
		}
	}

	// 订阅 Redis 总线
	pubsub := redis.Subscribe(context.Background(), channels...)
	defer func() {
		_ = pubsub.Close()
	}()

	log.Info("用户 WS 连接已建立", "userID", userID, "channels", len(channels))

	stopChan := make(chan struct{})

	// 读循环：处理客户端 send 帧，连接出错即退出
	go func() {
		defer close(stopChan)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var frame dto.WsSendFrame
			if err := json.Unmarshal(data, &frame); err != nil || frame.Type != "send" {
				continue
			}
			mode, ok := model.ParseMode(frame.Mode)
			if !ok {
				continue
			}
			if _, err := s.chatService.SendMessage(context.Background(), userID, frame.MatchID, frame.Body, mode); err != nil {
				log.Warn("WS 消息发送失败", "userID", userID, "matchID", frame.MatchID, "err", err)
			}
		}
	}()

	// 写循环：监听 Redis 并推送至客户端
	redisCh := pubsub.Channel()
	for {
		select {
		case msg := <-redisCh:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload))
			if err != nil {
				log.Error("WS 推送失败", "userID", userID, "err", err)
				return
			}
		case <-stopChan:
			log.Info("用户 WS 连接已断开", "userID", userID)
			return
		}
	}
}
