// pkg/service/utility/memory_cache_service.go
package utility

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// cacheItem 缓存项结构
type cacheItem struct {
	value      string
	expiration time.Time
	hasExpiry  bool
}

// isExpired 检查是否过期
func (item *cacheItem) isExpired() bool {
	if !item.hasExpiry {
		return false
	}
	return time.Now().After(item.expiration)
}

// memoryCacheService 是基于内存的缓存服务实现（Redis 不可用时的降级方案）
type memoryCacheService struct {
	data   sync.Map
	ticker *time.Ticker
	done   chan bool
}

// NewMemoryCacheService 创建内存缓存服务实例
func NewMemoryCacheService() CacheService {
	svc := &memoryCacheService{
		ticker: time.NewTicker(1 * time.Minute), // 每分钟清理一次过期数据
		done:   make(chan bool),
	}

	// 启动后台清理任务
	go svc.cleanupExpired()

	return svc
}

// cleanupExpired 定期清理过期的缓存项
func (s *memoryCacheService) cleanupExpired() {
	for {
		select {
		case <-s.ticker.C:
			s.data.Range(func(key, value interface{}) bool {
				if item, ok := value.(*cacheItem); ok {
					if item.isExpired() {
						s.data.Delete(key)
					}
				}
				return true
			})
		case <-s.done:
			s.ticker.Stop()
			return
		}
	}
}

// Set 设置缓存。value 按字符串存储，调用方负责序列化。
func (s *memoryCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	item := &cacheItem{
		value: toString(value),
	}
	if expiration > 0 {
		item.expiration = time.Now().Add(expiration)
		item.hasExpiry = true
	}
	s.data.Store(key, item)
	return nil
}

// Get 获取缓存，键不存在或已过期时返回空字符串
func (s *memoryCacheService) Get(ctx context.Context, key string) (string, error) {
	raw, ok := s.data.Load(key)
	if !ok {
		return "", nil
	}
	item, ok := raw.(*cacheItem)
	if !ok || item.isExpired() {
		s.data.Delete(key)
		return "", nil
	}
	return item.value, nil
}

// Delete 删除缓存
func (s *memoryCacheService) Delete(ctx context.Context, key ...string) error {
	for _, k := range key {
		s.data.Delete(k)
	}
	return nil
}

// Stop 停止后台清理任务
func (s *memoryCacheService) Stop() {
	s.done <- true
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
