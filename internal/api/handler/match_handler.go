package handler

import (
	"Kindred/internal/model"
	"Kindred/internal/pkg/response"
	"Kindred/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchService service.MatchService
}

func NewMatchHandler(matchService service.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// ListMatches 获取当前用户的有效匹配列表
func (s *MatchHandler) ListMatches(c *gin.Context) {
	mode, ok := model.ParseMode(c.Query("mode"))
	if !ok {
		response.Error(c, service.ErrModeInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.matchService.ListMatches(c, userID, mode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Unmatch 解除匹配接口
func (s *MatchHandler) Unmatch(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("match_id"), 10, 64)
	if err != nil || matchID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	mode, ok := model.ParseMode(c.Query("mode"))
	if !ok {
		response.Error(c, service.ErrModeInvalid)
		return
	}

	actorID := c.GetUint64("user_id")

	if err := s.matchService.Unmatch(c, actorID, matchID, mode); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
