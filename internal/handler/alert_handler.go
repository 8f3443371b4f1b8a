package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"alertdesk_go/internal/service"
	"alertdesk_go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AlertHandler 负责告警、分析和评论接口。
// 写接口都会经过仓库的 Save，因此会同步触发通知和自动打标。
type AlertHandler struct {
	alertService service.AlertService
}

func NewAlertHandler(alertService service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

type CreateAlertRequest struct {
	Title          string          `json:"title" binding:"required"`
	Level          string          `json:"level"`
	AssignedUserID *uint           `json:"assignedUserId"`
	Data           json.RawMessage `json:"data"`
}

// UpdateAlertRequest 中缺省的字段保持不变
type UpdateAlertRequest struct {
	Title          *string `json:"title"`
	Level          *string `json:"level"`
	Status         *string `json:"status"`
	Outcome        *string `json:"outcome"`
	AssignedUserID *uint   `json:"assignedUserId"`
}

type AnalysisRequest struct {
	Notes string `json:"notes"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateAlert POST /alerts
func (h *AlertHandler) CreateAlert(c *gin.Context) {
	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateAlert: failed to bind request: %v", err)
		badRequest(c, "Invalid request body")
		return
	}

	alert, err := h.alertService.Create(c.Request.Context(), service.CreateAlertInput{
		Title:          req.Title,
		Level:          req.Level,
		AssignedUserID: req.AssignedUserID,
		Data:           req.Data,
	})
	if err != nil {
		writeServiceError(c, "CreateAlert", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "Alert created successfully",
		"data":    alert,
	})
}

// ListAlerts GET /alerts?page=&size=
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		badRequest(c, "Invalid page parameter")
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size <= 0 {
		badRequest(c, "Invalid size parameter")
		return
	}

	alerts, total, err := h.alertService.List(c.Request.Context(), page, size)
	if err != nil {
		writeServiceError(c, "ListAlerts", err)
		return
	}

	totalPages := 0
	if total > 0 {
		totalPages = (int(total) + size - 1) / size
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Alerts retrieved successfully",
		"data": gin.H{
			"content":       alerts,
			"totalElements": total,
			"totalPages":    totalPages,
			"size":          size,
			"number":        page,
		},
	})
}

// GetAlert GET /alerts/:id，附带关联标签、分析和评论
func (h *AlertHandler) GetAlert(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.alertService.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, "GetAlert", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Alert retrieved successfully",
		"data":    detail,
	})
}

// UpdateAlert PUT /alerts/:id
func (h *AlertHandler) UpdateAlert(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateAlert: failed to bind request: %v", err)
		badRequest(c, "Invalid request body")
		return
	}

	alert, err := h.alertService.Update(c.Request.Context(), id, service.UpdateAlertInput{
		Title:          req.Title,
		Level:          req.Level,
		Status:         req.Status,
		Outcome:        req.Outcome,
		AssignedUserID: req.AssignedUserID,
	})
	if err != nil {
		writeServiceError(c, "UpdateAlert", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Alert updated successfully",
		"data":    alert,
	})
}

// SaveAnalysis PUT /alerts/:id/analysis，分析人为当前用户
func (h *AlertHandler) SaveAnalysis(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("SaveAnalysis: failed to bind request: %v", err)
		badRequest(c, "Invalid request body")
		return
	}
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}

	analysis, err := h.alertService.SaveAnalysis(c.Request.Context(), id, user.ID, req.Notes)
	if err != nil {
		writeServiceError(c, "SaveAnalysis", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Analysis saved successfully",
		"data":    analysis,
	})
}

// AddComment POST /alerts/:id/comments
func (h *AlertHandler) AddComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("AddComment: failed to bind request: %v", err)
		badRequest(c, "Invalid request body")
		return
	}
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}

	comment, err := h.alertService.AddComment(c.Request.Context(), id, user.ID, req.Content)
	if err != nil {
		writeServiceError(c, "AddComment", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "Comment added successfully",
		"data":    comment,
	})
}

// UpdateComment PUT /comments/:id，只有作者本人可以修改
func (h *AlertHandler) UpdateComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateComment: failed to bind request: %v", err)
		badRequest(c, "Invalid request body")
		return
	}
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}

	comment, err := h.alertService.UpdateComment(c.Request.Context(), id, user.ID, req.Content)
	if err != nil {
		writeServiceError(c, "UpdateComment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Comment updated successfully",
		"data":    comment,
	})
}
