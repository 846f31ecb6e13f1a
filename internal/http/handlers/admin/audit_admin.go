package admin

import (
	"strings"

	handlershared "github.com/vendora/internal/http/handlers/shared"
	"github.com/vendora/internal/http/response"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/repository"
	"github.com/vendora/internal/service"

	"github.com/gin-gonic/gin"
)

// recordAudit 写入后台审计日志，失败只记日志不影响主流程
func (h *Handler) recordAudit(c *gin.Context, action, targetType string, targetID uint, detail models.JSON) {
	var operatorID uint
	if value, ok := c.Get("admin_id"); ok {
		operatorID, _ = value.(uint)
	}
	requestID := ""
	if value, ok := c.Get("request_id"); ok {
		requestID, _ = value.(string)
	}
	err := h.AuditService.Record(service.AuditRecordInput{
		OperatorAdminID:  operatorID,
		OperatorUsername: currentUsername(c),
		Action:           action,
		TargetType:       targetType,
		TargetID:         targetID,
		RequestID:        requestID,
		Detail:           detail,
	})
	if err != nil {
		requestLog(c).Warnw("admin_audit_record_failed", "action", action, "error", err)
	}
}

// ListAuditLogs 后台审计日志列表
func (h *Handler) ListAuditLogs(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	operatorID, err := handlershared.ParseQueryUint(c, "operator_admin_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	targetID, err := handlershared.ParseQueryUint(c, "target_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	createdFrom, err := handlershared.ParseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	createdTo, err := handlershared.ParseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	items, total, err := h.AuditService.List(repository.AdminAuditLogListFilter{
		Page:            page,
		PageSize:        pageSize,
		OperatorAdminID: operatorID,
		Action:          strings.TrimSpace(c.Query("action")),
		TargetType:      strings.TrimSpace(c.Query("target_type")),
		TargetID:        targetID,
		CreatedFrom:     createdFrom,
		CreatedTo:       createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, items, handlershared.BuildPagination(page, pageSize, total))
}
