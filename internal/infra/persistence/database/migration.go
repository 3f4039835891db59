package database

import (
	"database/sql"
	"fmt"
	"log"
)

// migrations 按顺序执行的建表语句。只做增量建表，不做破坏性变更。
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS articles (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title VARCHAR(255) NOT NULL,
		body MEDIUMTEXT,
		thumb VARCHAR(512) NOT NULL DEFAULT '',
		original_thumb VARCHAR(512) NOT NULL DEFAULT '',
		category_id BIGINT UNSIGNED NOT NULL DEFAULT 0,
		source VARCHAR(255) NOT NULL DEFAULT '',
		source_url VARCHAR(1024) NOT NULL DEFAULT '',
		org_code VARCHAR(64) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL DEFAULT 'normal',
		published TINYINT(1) NOT NULL DEFAULT 0,
		published_time DATETIME NULL,
		sticky TINYINT(1) NOT NULL DEFAULT 0,
		featured TINYINT(1) NOT NULL DEFAULT 0,
		promoted TINYINT(1) NOT NULL DEFAULT 0,
		hit_num INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_articles_status (status),
		KEY idx_articles_category (category_id),
		KEY idx_articles_org (org_code)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		parent_id BIGINT UNSIGNED NOT NULL DEFAULT 0,
		name VARCHAR(255) NOT NULL,
		code VARCHAR(64) NOT NULL DEFAULT '',
		weight INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_categories_parent (parent_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tags (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(64) NOT NULL,
		owner_type VARCHAR(32) NOT NULL,
		owner_id BIGINT UNSIGNED NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_tags_owner (owner_type, owner_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS settings (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		config_key VARCHAR(255) NOT NULL,
		value TEXT,
		comment VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uk_settings_key (config_key)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS upload_files (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		filename VARCHAR(255) NOT NULL,
		uri VARCHAR(512) NOT NULL,
		size BIGINT NOT NULL DEFAULT 0,
		mime_type VARCHAR(128) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS file_uses (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		file_id BIGINT UNSIGNED NOT NULL,
		target_type VARCHAR(32) NOT NULL,
		target_id BIGINT UNSIGNED NOT NULL,
		use_type VARCHAR(32) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_file_uses_target (target_type, target_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS logs (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		module VARCHAR(64) NOT NULL,
		action VARCHAR(64) NOT NULL,
		message VARCHAR(1024) NOT NULL DEFAULT '',
		data TEXT,
		user_id BIGINT UNSIGNED NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_logs_module (module)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate 按顺序执行所有建表语句。
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("执行第 %d 条迁移失败: %w", i+1, err)
		}
	}
	log.Printf("数据库迁移完成，共 %d 条语句。", len(migrations))
	return nil
}
