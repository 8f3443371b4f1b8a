package middleware

import (
	"errors"
	"net/http"
	"strings"

	"alertdesk_go/internal/service"
	"alertdesk_go/pkg/log"
	"alertdesk_go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// 上下文键，Handler 通过 c.Get 读取
const (
	ContextKeyClaims = "claims"
	ContextKeyUser   = "user"
)

// AuthMiddleware 是 JWT 认证中间件。
// 流程：
//  1. 从 Authorization 头提取 Bearer Token
//  2. 校验签名、有效期，并要求是 access token
//  3. 检查 Redis 黑名单（已登出的 token）；rdb 为 nil 时跳过
//  4. 按用户名查库，确认用户仍然存在
//  5. 把 claims 和 *model.User 注入上下文
func AuthMiddleware(jwtManager *token.JWTManager, userService service.UserService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtManager == nil || userService == nil {
			abort(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		tokenString, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid authorization header")
			return
		}

		claims, err := jwtManager.VerifyAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, token.ErrWrongTokenType) {
				abort(c, http.StatusUnauthorized, "Invalid token type")
				return
			}
			abort(c, http.StatusUnauthorized, "Invalid or expired access token")
			return
		}

		if rdb != nil {
			// 与 Logout 写黑名单使用同一前缀
			exists, err := rdb.Exists(c.Request.Context(), service.TokenBlacklistPrefix+tokenString).Result()
			if err != nil {
				log.Errorf("AuthMiddleware: failed to check token blacklist: %v", err)
				abort(c, http.StatusInternalServerError, "Internal server error")
				return
			}
			if exists > 0 {
				abort(c, http.StatusUnauthorized, "Invalid or expired access token")
				return
			}
		}

		user, err := userService.GetProfile(c.Request.Context(), claims.Username)
		if err != nil || user == nil {
			if err == nil || errors.Is(err, service.ErrUserNotFound) {
				abort(c, http.StatusUnauthorized, "User not found")
				return
			}
			abort(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code":    status,
		"message": message,
	})
}

// extractBearerToken 解析 "Bearer <token>"，前缀大小写不敏感
func extractBearerToken(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
