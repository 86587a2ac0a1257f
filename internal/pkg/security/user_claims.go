package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	JWTSecret         string = "Kindred"
	JWTExpirationTime        = time.Hour * 24
)

// UserClaims Token 中携带的业务信息。身份由上游鉴权系统签发，
// 本服务只做校验与解析。
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}
