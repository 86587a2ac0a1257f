package handler

import (
	"Kindred/internal/api/dto"
	"Kindred/internal/model"
	"Kindred/internal/pkg/response"
	"Kindred/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessage 发送消息接口
func (s *ChatHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	mode, ok := model.ParseMode(req.Mode)
	if !ok {
		response.Error(c, service.ErrModeInvalid)
		return
	}

	// 从 Context 中获取中间件解析出的当前用户 ID
	senderID := c.GetUint64("user_id")

	res, err := s.chatService.SendMessage(c, senderID, req.MatchID, req.Body, mode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListChats 获取会话列表
func (s *ChatHandler) ListChats(c *gin.Context) {
	mode, ok := model.ParseMode(c.Query("mode"))
	if !ok {
		response.Error(c, service.ErrModeInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.chatService.ListChats(c, userID, mode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetMessages 获取会话历史消息，最新在前
func (s *ChatHandler) GetMessages(c *gin.Context) {
	chatID, err := strconv.ParseUint(c.Param("chat_id"), 10, 64)
	if err != nil || chatID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	mode, ok := model.ParseMode(c.Query("mode"))
	if !ok {
		response.Error(c, service.ErrModeInvalid)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	userID := c.GetUint64("user_id")

	res, err := s.chatService.GetMessages(c, userID, chatID, mode, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
