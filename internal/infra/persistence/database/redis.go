package database

import (
	"context"
	"log"
	"strconv"

	"github.com/qingshu-lab/qingshu-app/pkg/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient 接收配置并返回 Redis 客户端或 nil（用于自动降级）。
// 如果 Redis 未配置或连接失败，返回 nil 而不是 error，让上层降级到内存缓存。
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	redisAddr := cfg.GetString(config.KeyRedisAddr)
	redisPassword := cfg.GetString(config.KeyRedisPassword)

	if redisAddr == "" {
		log.Println("Redis 地址未配置，将使用内存缓存")
		return nil, nil
	}

	redisDB := 0
	if dbStr := cfg.GetString(config.KeyRedisDB); dbStr != "" {
		var err error
		redisDB, err = strconv.Atoi(dbStr)
		if err != nil {
			log.Printf("无效的 Redis.DB 值 '%s': %v，将使用内存缓存", dbStr, err)
			return nil, nil
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("连接 Redis (%s, DB %d) 失败: %v，将使用内存缓存", redisAddr, redisDB, err)
		rdb.Close()
		return nil, nil
	}

	log.Printf("成功连接到 Redis (%s, DB %d)", redisAddr, redisDB)
	return rdb, nil
}
