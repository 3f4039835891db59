// pkg/service/setting/service.go
package setting

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/qingshu-lab/qingshu-app/pkg/constant"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/repository"
)

// defaultSettings 是各配置键的代码内默认值，数据库中的同名键会覆盖它们。
var defaultSettings = map[constant.SettingKey]string{
	constant.KeySiteName:          "轻书资讯",
	constant.KeySiteURL:           "",
	constant.KeySafeIframeDomains: "[]",
	constant.KeyArticlePageSize:   "20",
}

// SettingService 定义了配置服务的接口
type SettingService interface {
	LoadAllSettings(ctx context.Context) error
	Get(key string) string
	// GetStrings 把配置值按 JSON 字符串数组解码，值为空或解码失败时返回 nil。
	GetStrings(key string) []string
	Set(ctx context.Context, key, value string) error
	// AppendToStrings 向 JSON 字符串数组类型的配置项末尾追加一个元素。
	// 追加不做去重；整个读取-追加-写回在仓储层的同一事务内完成。
	AppendToStrings(ctx context.Context, key, item string) error
}

// settingService 是 SettingService 接口的实现
type settingService struct {
	repo  repository.SettingRepository
	cache map[string]string
	mu    sync.RWMutex
}

// NewSettingService 是 settingService 的构造函数
func NewSettingService(repo repository.SettingRepository) SettingService {
	return &settingService{
		repo:  repo,
		cache: make(map[string]string),
	}
}

// LoadAllSettings 从代码默认值和数据库中加载所有配置项到内存缓存。
func (s *settingService) LoadAllSettings(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	newCache := make(map[string]string)
	for key, value := range defaultSettings {
		newCache[key.String()] = value
	}

	dbSettings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cache = newCache
		log.Printf("⚠️ 警告: 从数据库加载配置失败: %v。服务将使用代码中定义的默认配置。", err)
		return err
	}

	for _, dbSetting := range dbSettings {
		newCache[dbSetting.ConfigKey] = dbSetting.Value
	}

	s.cache = newCache

	log.Printf("所有站点配置已成功加载到缓存，共 %d 项。", len(s.cache))
	return nil
}

// Get 从内存缓存中读取单个配置项的值
func (s *settingService) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[key]
}

// GetStrings 读取并解码一个 JSON 字符串数组类型的配置项
func (s *settingService) GetStrings(key string) []string {
	raw := s.Get(key)
	if raw == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("[SettingService] 配置项 %s 不是合法的 JSON 数组: %v", key, err)
		return nil
	}
	return items
}

// Set 更新单个配置项并刷新内存缓存
func (s *settingService) Set(ctx context.Context, key, value string) error {
	if err := s.repo.Save(ctx, key, value); err != nil {
		return err
	}
	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()
	return nil
}

// AppendToStrings 在仓储事务内向 JSON 数组配置项追加元素，成功后刷新缓存
func (s *settingService) AppendToStrings(ctx context.Context, key, item string) error {
	updated, err := s.repo.UpdateValueCAS(ctx, key, func(old string) (string, error) {
		var items []string
		if old != "" {
			if err := json.Unmarshal([]byte(old), &items); err != nil {
				return "", fmt.Errorf("配置项 %s 的现有值无法解析: %w", key, err)
			}
		}
		items = append(items, item)
		encoded, err := json.Marshal(items)
		if err != nil {
			return "", fmt.Errorf("序列化配置项 %s 失败: %w", key, err)
		}
		return string(encoded), nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = updated
	s.mu.Unlock()
	return nil
}
