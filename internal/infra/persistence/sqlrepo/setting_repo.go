// internal/infra/persistence/sqlrepo/setting_repo.go
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

type settingRepo struct {
	db *sql.DB
}

// NewSettingRepository 创建配置仓储的 MySQL 实现。
func NewSettingRepository(db *sql.DB) repository.SettingRepository {
	return &settingRepo{db: db}
}

func (r *settingRepo) FindByKey(ctx context.Context, key string) (*model.Setting, error) {
	var setting model.Setting
	err := r.db.QueryRowContext(ctx,
		"SELECT id, created_at, updated_at, config_key, value, comment FROM settings WHERE config_key = ?", key).
		Scan(&setting.ID, &setting.CreatedAt, &setting.UpdatedAt, &setting.ConfigKey, &setting.Value, &setting.Comment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, constant.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询配置项 %s 失败: %w", key, err)
	}
	return &setting, nil
}

func (r *settingRepo) FindAll(ctx context.Context) ([]*model.Setting, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, created_at, updated_at, config_key, value, comment FROM settings")
	if err != nil {
		return nil, fmt.Errorf("查询全部配置项失败: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var settings []*model.Setting
	for rows.Next() {
		var setting model.Setting
		if err := rows.Scan(&setting.ID, &setting.CreatedAt, &setting.UpdatedAt, &setting.ConfigKey, &setting.Value, &setting.Comment); err != nil {
			return nil, fmt.Errorf("扫描配置数据失败: %w", err)
		}
		settings = append(settings, &setting)
	}
	return settings, rows.Err()
}

func (r *settingRepo) Save(ctx context.Context, key, value string) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO settings (config_key, value, comment, created_at, updated_at)
VALUES (?, ?, '', ?, ?)
ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`,
		key, value, now, now)
	if err != nil {
		return fmt.Errorf("保存配置项 %s 失败: %w", key, err)
	}
	return nil
}

// UpdateValueCAS 在同一事务内对单个配置键做读取-修改-写回。
// SELECT ... FOR UPDATE 持有行锁，保证并发修改互不覆盖；键不存在时 modify 收到空串。
func (r *settingRepo) UpdateValueCAS(ctx context.Context, key string, modify func(old string) (string, error)) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("开启配置事务失败: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var old string
	err = tx.QueryRowContext(ctx, "SELECT value FROM settings WHERE config_key = ? FOR UPDATE", key).Scan(&old)
	exists := true
	if errors.Is(err, sql.ErrNoRows) {
		exists = false
		old = ""
	} else if err != nil {
		return "", fmt.Errorf("读取配置项 %s 失败: %w", key, err)
	}

	updated, err := modify(old)
	if err != nil {
		return "", err
	}

	now := time.Now()
	if exists {
		_, err = tx.ExecContext(ctx, "UPDATE settings SET value = ?, updated_at = ? WHERE config_key = ?", updated, now, key)
	} else {
		_, err = tx.ExecContext(ctx, "INSERT INTO settings (config_key, value, comment, created_at, updated_at) VALUES (?, ?, '', ?, ?)", key, updated, now, now)
	}
	if err != nil {
		return "", fmt.Errorf("写回配置项 %s 失败: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("提交配置事务失败: %w", err)
	}
	return updated, nil
}
