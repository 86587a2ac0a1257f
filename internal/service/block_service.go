package service

import (
	"Kindred/internal/api/config"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// BlockService 查询信任与安全系统的拉黑关系。
// 目前只在“谁喜欢了我”列表处消费，喜欢与匹配形成路径不查（与现有产品行为一致）。
type BlockService interface {
	IsEitherBlocked(ctx context.Context, userA, userB uint64) (bool, error)
}

type blockServiceImpl struct {
	client *resty.Client
}

func NewBlockService(cfg config.TrustConfig) BlockService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(timeout) * time.Second)
	return &blockServiceImpl{client: client}
}

type blockCheckResp struct {
	Code int `json:"code"`
	Data struct {
		Blocked bool `json:"blocked"`
	} `json:"data"`
}

// IsEitherBlocked 任一方向存在拉黑即视为 blocked
func (s *blockServiceImpl) IsEitherBlocked(ctx context.Context, userA, userB uint64) (bool, error) {
	var res blockCheckResp
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("user_a", strconv.FormatUint(userA, 10)).
		SetQueryParam("user_b", strconv.FormatUint(userB, 10)).
		SetResult(&res).
		Get("/api/blocks/check")
	if err != nil {
		return false, err
	}
	if resp.StatusCode() != http.StatusOK {
		return false, fmt.Errorf("trust service returned status %d", resp.StatusCode())
	}
	return res.Data.Blocked, nil
}
