package handler

import (
	"net/http"
	"strconv"

	"alertdesk_go/internal/model"
	"alertdesk_go/internal/service"
	"alertdesk_go/pkg/log"

	"github.com/gin-gonic/gin"
)

// TagHandler 负责标签字典、对象标签查询、打标规则和邮件通知开关。
type TagHandler struct {
	tagService service.TagService
	flags      service.FeatureFlags
}

func NewTagHandler(tagService service.TagService, flags service.FeatureFlags) *TagHandler {
	return &TagHandler{tagService: tagService, flags: flags}
}

type CreateTagRequest struct {
	Name  string `json:"name" binding:"required"`
	Topic string `json:"topic"`
}

type DataTaggerRequest struct {
	FieldName  string `json:"fieldName" binding:"required"`
	Topic      string `json:"topic" binding:"required"`
	ExactMatch bool   `json:"exactMatch"`
	CreateTags bool   `json:"createTags"`
}

type FeatureToggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// ListTags GET /tags
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.ListTags(c.Request.Context())
	if err != nil {
		writeServiceError(c, "ListTags", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Tags retrieved successfully",
		"data":    tags,
	})
}

// CreateTag POST /admin/tags
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateTag: failed to bind request: %v", err)
		badRequest(c, "Invalid request body")
		return
	}

	tag, err := h.tagService.CreateTag(c.Request.Context(), req.Name, req.Topic)
	if err != nil {
		writeServiceError(c, "CreateTag", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "Tag created successfully",
		"data":    tag,
	})
}

// ListRelations GET /tag-relations?contentType=&objectId=
func (h *TagHandler) ListRelations(c *gin.Context) {
	objectID, err := strconv.ParseUint(c.Query("objectId"), 10, 32)
	if err != nil {
		badRequest(c, "Invalid objectId parameter")
		return
	}

	relations, err := h.tagService.ListRelations(c.Request.Context(), c.Query("contentType"), uint(objectID))
	if err != nil {
		writeServiceError(c, "ListRelations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Tag relations retrieved successfully",
		"data":    relations,
	})
}

// ListDataTaggers GET /admin/datataggers
func (h *TagHandler) ListDataTaggers(c *gin.Context) {
	taggers, err := h.tagService.ListDataTaggers(c.Request.Context())
	if err != nil {
		writeServiceError(c, "ListDataTaggers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Data taggers retrieved successfully",
		"data":    taggers,
	})
}

// CreateDataTagger POST /admin/datataggers
func (h *TagHandler) CreateDataTagger(c *gin.Context) {
	var req DataTaggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateDataTagger: failed to bind request: %v", err)
		badRequest(c, "Invalid request body")
		return
	}

	tagger, err := h.tagService.CreateDataTagger(c.Request.Context(), &model.DataTagger{
		FieldName:  req.FieldName,
		Topic:      req.Topic,
		ExactMatch: req.ExactMatch,
		CreateTags: req.CreateTags,
	})
	if err != nil {
		writeServiceError(c, "CreateDataTagger", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "Data tagger created successfully",
		"data":    tagger,
	})
}

// SetEmailNotifications PUT /admin/features/emails
func (h *TagHandler) SetEmailNotifications(c *gin.Context) {
	var req FeatureToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("SetEmailNotifications: failed to bind request: %v", err)
		badRequest(c, "Invalid request body")
		return
	}

	if err := h.flags.SetEmailsEnabled(c.Request.Context(), *req.Enabled); err != nil {
		writeServiceError(c, "SetEmailNotifications", err)
		return
	}
	log.Infof("Email notifications set to %t", *req.Enabled)
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Feature updated successfully",
		"data":    gin.H{"emailsEnabled": h.flags.EmailsEnabled(c.Request.Context())},
	})
}
