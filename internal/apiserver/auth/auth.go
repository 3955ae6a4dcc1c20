// Package auth 用户认证：JWT 令牌管理、密码哈希、HTTP 中间件
package auth

import (
	"context"
	"fmt"
	"time"

	"kitchen-server/internal/shared/model"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// contextKey context 键类型
type contextKey string

const ctxKeyCurrentUser contextKey = "current_user"

// Config 认证配置
type Config struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
}

// DefaultConfig 返回默认认证配置
func DefaultConfig() Config {
	return Config{
		JWTSecret:      "",
		AccessTokenTTL: 30 * time.Minute,
	}
}

// ============================================================================
// 密码哈希
// ============================================================================

// HashPassword 使用 bcrypt 哈希密码
// 盐值随机，同一明文每次调用产生不同摘要
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(bytes), err
}

// CheckPassword 验证密码
// 摘要格式非法一律视为验证失败，不报错
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ============================================================================
// JWT Token
// ============================================================================

// Claims JWT 声明，只携带 sub 和 exp
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateAccessToken 生成访问令牌
// sub = username，有效期 cfg.AccessTokenTTL，HS256 签名
func GenerateAccessToken(cfg Config, username string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.AccessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken 解析并验证 JWT
//
// 签名算法固定为 HMAC，不接受令牌自带的其他算法（防降级攻击）。
// exp 为必填声明，缺失视为非法，不存在无限期令牌。
// 签名不符、已过期、缺少 sub、格式非法均返回错误。
func ParseToken(cfg Config, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("missing sub claim")
	}
	return claims, nil
}

// ============================================================================
// Context 辅助函数
// ============================================================================

// WithCurrentUser 将认证用户注入 context
func WithCurrentUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, ctxKeyCurrentUser, user)
}

// GetCurrentUser 从 context 获取认证用户
// 未认证请求返回 nil
func GetCurrentUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(ctxKeyCurrentUser).(*model.User)
	return user
}
