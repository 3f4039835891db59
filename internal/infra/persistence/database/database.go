/*
 * @Description: 数据库连接管理
 */
package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/qingshu-lab/qingshu-app/pkg/config"

	_ "github.com/go-sql-driver/mysql"
)

// NewSQLDB 创建并返回一个标准的 *sql.DB 连接池。
func NewSQLDB(cfg *config.Config) (*sql.DB, error) {
	dbUser := cfg.GetString(config.KeyDBUser)
	dbPass := cfg.GetString(config.KeyDBPassword)
	dbHost := cfg.GetString(config.KeyDBHost)
	dbPort := cfg.GetString(config.KeyDBPort)
	dbName := cfg.GetString(config.KeyDBName)

	if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
		return nil, fmt.Errorf("MySQL 连接参数不完整 (需要 User, Host, Port, Name)")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbUser, dbPass, dbHost, dbPort, dbName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("打开数据库连接失败: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	log.Printf("成功连接到 MySQL (%s:%s/%s)", dbHost, dbPort, dbName)
	return db, nil
}
