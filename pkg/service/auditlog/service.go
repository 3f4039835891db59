// pkg/service/auditlog/service.go
package auditlog

import (
	"context"
	"encoding/json"
	"log"

	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/repository"
)

// Service 负责记录后台敏感操作的审计日志。
// 审计写入失败不应阻断业务流程，只在服务端日志里留痕。
type Service struct {
	repo repository.LogRepository
}

// NewService 是审计日志服务的构造函数
func NewService(repo repository.LogRepository) *Service {
	return &Service{repo: repo}
}

// Info 记录一条操作日志。data 会被序列化为 JSON 存入日志的上下文字段。
func (s *Service) Info(ctx context.Context, userID uint, module, action, message string, data any) {
	encoded := ""
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			log.Printf("[AuditLog] 序列化日志上下文失败: %v", err)
		} else {
			encoded = string(raw)
		}
	}

	entry := &model.Log{
		Module:  module,
		Action:  action,
		Message: message,
		Data:    encoded,
		UserID:  userID,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		log.Printf("[AuditLog] 写入审计日志失败: %v", err)
	}
}
