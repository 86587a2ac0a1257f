package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid   = errors.New("参数错误")
	ErrModeInvalid    = errors.New("未知的互动模式")
	ErrSelfTarget     = errors.New("不能对自己执行该操作")
	ErrMessageBody    = errors.New("消息内容为空或超出长度限制")
	ErrMatchNotFound  = errors.New("匹配不存在")
	ErrChatNotFound   = errors.New("会话不存在")
	ErrUserNotFound   = errors.New("用户不存在")
	UnauthorizedError = errors.New("权限不足")
	UnExpectedError   = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:   BadRequest,
	ErrModeInvalid:    BadRequest,
	ErrSelfTarget:     BadRequest,
	ErrMessageBody:    BadRequest,
	ErrMatchNotFound:  NotFound,
	ErrChatNotFound:   NotFound,
	ErrUserNotFound:   NotFound,
	UnauthorizedError: Unauthorized,
	UnExpectedError:   InternalServerError,
}
