package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"alertdesk_go/internal/middleware"
	"alertdesk_go/internal/model"
	"alertdesk_go/internal/service"
	"alertdesk_go/pkg/log"

	"github.com/gin-gonic/gin"
)

// mapServiceError 把 Service 层哨兵错误转换为 HTTP 状态码和对外消息。
func mapServiceError(err error) (httpStatus int, message string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid request parameters"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, service.ErrUserAlreadyExists):
		return http.StatusConflict, "User already exists"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrAlertNotFound):
		return http.StatusNotFound, "Alert not found"
	case errors.Is(err, service.ErrCommentNotFound):
		return http.StatusNotFound, "Comment not found"
	case errors.Is(err, service.ErrCommentNotOwned):
		return http.StatusForbidden, "Comment does not belong to user"
	case errors.Is(err, service.ErrTagAlreadyExists):
		return http.StatusConflict, "Tag already exists"
	case errors.Is(err, service.ErrFeatureStoreUnavailable):
		return http.StatusServiceUnavailable, "Feature flag store unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// writeServiceError 记录日志并按 mapServiceError 的映射写错误响应。
func writeServiceError(c *gin.Context, op string, err error) {
	status, msg := mapServiceError(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s: %v", op, err)
	} else {
		log.Warnf("%s: %v", op, err)
	}
	c.JSON(status, gin.H{
		"code":    status,
		"message": msg,
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    http.StatusBadRequest,
		"message": message,
	})
}

// parseIDParam 解析路径中的数字 ID，失败时直接写 400。
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// extractBearerToken 从 Authorization 请求头提取 Bearer Token。
func extractBearerToken(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

// getUserFromContext 读取 AuthMiddleware 注入的用户；失败时已写好响应，调用方直接 return。
func getUserFromContext(c *gin.Context) (*model.User, bool) {
	userVal, exists := c.Get(middleware.ContextKeyUser)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    http.StatusUnauthorized,
			"message": "User not found in context",
		})
		return nil, false
	}

	user, ok := userVal.(*model.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to get user profile",
		})
		return nil, false
	}
	return user, true
}
