/*
 * @Description: 统一配置管理 (手动加载，文件 + 环境变量)
 */
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"
)

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerPort, KeyServerDebug,
	KeyDBHost, KeyDBPort, KeyDBUser, KeyDBPassword, KeyDBName,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeyJWTSecret, KeySessionSecret,
	KeyUploadDir, KeyUploadPublicPrefix,
}

const (
	KeyServerPort    = "System.Port"
	KeyServerDebug   = "System.Debug"
	KeyDBHost        = "Database.Host"
	KeyDBPort        = "Database.Port"
	KeyDBUser        = "Database.User"
	KeyDBPassword    = "Database.Password"
	KeyDBName        = "Database.Name"
	KeyRedisAddr     = "Redis.Addr"
	KeyRedisPassword = "Redis.Password"
	KeyRedisDB       = "Redis.DB"
	KeyJWTSecret     = "Security.JWTSecret"
	KeySessionSecret = "Security.SessionSecret"

	KeyUploadDir          = "Upload.Dir"
	KeyUploadPublicPrefix = "Upload.PublicPrefix"
)

type Config struct {
	vp *viper.Viper
}

// NewConfig 手动加载 data/conf.ini 与环境变量，环境变量优先。
func NewConfig() (*Config, error) {
	vp := viper.New()
	filePath := "data/conf.ini"

	// --- 步骤 1: 使用 go-ini 从文件加载配置 (作为默认值) ---
	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("提示: 未找到 %s，将创建默认配置文件。", filePath)
			if err := createDefaultConfigFile(filePath); err != nil {
				log.Printf("警告: 创建默认配置文件失败: %v，将仅依赖环境变量或内部默认值。", err)
			} else {
				iniCfg, err = ini.Load(filePath)
				if err != nil {
					log.Printf("警告: 重新加载配置文件失败: %v", err)
				}
			}
		} else {
			return nil, fmt.Errorf("错误: 解析配置文件 '%s' 失败: %w", filePath, err)
		}
	}

	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				if section.Name() == "DEFAULT" {
					viperKey = key.Name()
				}
				vp.Set(viperKey, key.Value())
			}
		}
		log.Println("从 data/conf.ini 文件加载了默认配置。")
	}

	// --- 步骤 2: 手动检查并覆盖环境变量 ---
	envReplacer := strings.NewReplacer(".", "_")
	envPrefix := "QINGSHU"

	for _, key := range allKeys {
		// 构建环境变量名，例如 QINGSHU_DATABASE_HOST
		envVarName := fmt.Sprintf("%s_%s", envPrefix, envReplacer.Replace(strings.ToUpper(key)))
		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("发现环境变量: %s, 已覆盖配置 '%s'。", envVarName, key)
		}
	}

	log.Println("配置加载器初始化完成。")
	return &Config{vp: vp}, nil
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// createDefaultConfigFile 创建默认的配置文件
func createDefaultConfigFile(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	defaultConfig := `[System]
Port = 8091
Debug = false

[Database]
Host = 127.0.0.1
Port = 3306
User = root
Password =
Name = qingshu_app

# Redis 配置（可选）
# 如果不配置或留空 Addr，系统将自动使用内存缓存
[Redis]
Addr =
Password =
DB = 0

[Security]
JWTSecret =
SessionSecret =

[Upload]
Dir = data/uploads
PublicPrefix = /uploads
`

	if err := os.WriteFile(filePath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}
