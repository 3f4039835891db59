// internal/infra/persistence/sqlrepo/upload_file_repo.go
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/qingshu-lab/qingshu-app/pkg/constant"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/repository"
)

type uploadFileRepo struct {
	db *sql.DB
}

// NewUploadFileRepository 创建上传文件仓储的 MySQL 实现。
func NewUploadFileRepository(db *sql.DB) repository.UploadFileRepository {
	return &uploadFileRepo{db: db}
}

func (r *uploadFileRepo) Create(ctx context.Context, file *model.UploadFile) (*model.UploadFile, error) {
	now := time.Now()
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO upload_files (filename, uri, size, mime_type, created_at) VALUES (?, ?, ?, ?, ?)",
		file.Filename, file.URI, file.Size, file.MimeType, now)
	if err != nil {
		return nil, fmt.Errorf("创建上传文件记录失败: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("获取上传文件 ID 失败: %w", err)
	}
	file.ID = uint(id)
	file.CreatedAt = now
	return file, nil
}

func (r *uploadFileRepo) FindByID(ctx context.Context, id uint) (*model.UploadFile, error) {
	var file model.UploadFile
	err := r.db.QueryRowContext(ctx,
		"SELECT id, filename, uri, size, mime_type, created_at FROM upload_files WHERE id = ?", id).
		Scan(&file.ID, &file.Filename, &file.URI, &file.Size, &file.MimeType, &file.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, constant.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询上传文件 (ID: %d) 失败: %w", id, err)
	}
	return &file, nil
}

func (r *uploadFileRepo) CreateUses(ctx context.Context, fileIDs []uint, targetType string, targetID uint, useType string) error {
	if len(fileIDs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启文件关联事务失败: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	for _, fileID := range fileIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO file_uses (file_id, target_type, target_id, use_type, created_at) VALUES (?, ?, ?, ?, ?)",
			fileID, targetType, targetID, useType, now); err != nil {
			return fmt.Errorf("创建文件关联 (fileID: %d) 失败: %w", fileID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交文件关联事务失败: %w", err)
	}
	return nil
}
