package service

import "github.com/golang-jwt/jwt/v5"

// UserJWTClaims 用户令牌声明（令牌由上游商城后端签发，本服务仅校验）
type UserJWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
