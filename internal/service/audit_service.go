package service

import (
	"strings"
	"time"

	"github.com/vendora/internal/models"
	"github.com/vendora/internal/repository"
)

// AuditRecordInput 审计记录输入
type AuditRecordInput struct {
	OperatorAdminID  uint
	OperatorUsername string
	Action           string
	TargetType       string
	TargetID         uint
	RequestID        string
	Detail           models.JSON
}

// AuditService 后台审计服务
type AuditService struct {
	repo repository.AdminAuditLogRepository
}

// NewAuditService 创建审计服务
func NewAuditService(repo repository.AdminAuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record 记录一次后台变更，缺少操作者或动作时忽略
func (s *AuditService) Record(input AuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if input.OperatorAdminID == 0 || strings.TrimSpace(input.Action) == "" {
		return nil
	}
	return s.repo.Create(&models.AdminAuditLog{
		OperatorAdminID:  input.OperatorAdminID,
		OperatorUsername: strings.TrimSpace(input.OperatorUsername),
		Action:           strings.TrimSpace(input.Action),
		TargetType:       strings.TrimSpace(input.TargetType),
		TargetID:         input.TargetID,
		RequestID:        strings.TrimSpace(input.RequestID),
		DetailJSON:       input.Detail,
		CreatedAt:        time.Now(),
	})
}

// List 管理端查询审计日志
func (s *AuditService) List(filter repository.AdminAuditLogListFilter) ([]models.AdminAuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AdminAuditLog{}, 0, nil
	}
	return s.repo.List(filter)
}
