package handler

import (
	"Kindred/internal/model"
	"Kindred/internal/pkg/response"
	"Kindred/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactionService service.InteractionService
}

func NewInteractionHandler(interactionService service.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// Like 喜欢接口；互相喜欢时在响应里直接带回匹配
func (s *InteractionHandler) Like(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("target_id"), 10, 64)
	if err != nil || targetID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	mode, ok := model.ParseMode(c.Query("mode"))
	if !ok {
		response.Error(c, service.ErrModeInvalid)
		return
	}

	actorID := c.GetUint64("user_id")

	res, err := s.interactionService.Like(c, actorID, targetID, mode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Pass 划走接口
func (s *InteractionHandler) Pass(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("target_id"), 10, 64)
	if err != nil || targetID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	mode, ok := model.ParseMode(c.Query("mode"))
	if !ok {
		response.Error(c, service.ErrModeInvalid)
		return
	}

	actorID := c.GetUint64("user_id")

	res, err := s.interactionService.Pass(c, actorID, targetID, mode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetLikedBy 获取喜欢过我的用户列表
func (s *InteractionHandler) GetLikedBy(c *gin.Context) {
	mode, ok := model.ParseMode(c.Query("mode"))
	if !ok {
		response.Error(c, service.ErrModeInvalid)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	userID := c.GetUint64("user_id")

	res, err := s.interactionService.GetLikedBy(c, userID, mode, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
