package article

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/qingshu-lab/qingshu-app/internal/pkg/auth"
	"github.com/qingshu-lab/qingshu-app/pkg/constant"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
	"github.com/qingshu-lab/qingshu-app/pkg/service/auditlog"
	"github.com/qingshu-lab/qingshu-app/pkg/service/category"
	"github.com/qingshu-lab/qingshu-app/pkg/service/extractor"
	"github.com/qingshu-lab/qingshu-app/pkg/service/security"
	"github.com/qingshu-lab/qingshu-app/pkg/service/setting"
	"github.com/qingshu-lab/qingshu-app/pkg/service/tag"
	"github.com/qingshu-lab/qingshu-app/pkg/service/utility"

	articleSvc "github.com/qingshu-lab/qingshu-app/pkg/service/article"
)

// stubArticleService 返回预设结果的文章服务。
type stubArticleService struct {
	listResult   *model.ArticleListResponse
	getResult    *model.ArticleResponse
	getErr       error
	deleteResult *model.BatchDeleteResult
	trashedID    uint
	lastOrgCode  string
}

func (s *stubArticleService) List(ctx context.Context, page int, categoryID uint, keyword, orgCode string) (*model.ArticleListResponse, error) {
	s.lastOrgCode = orgCode
	return s.listResult, nil
}

func (s *stubArticleService) Get(ctx context.Context, id uint) (*model.ArticleResponse, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getResult, nil
}

func (s *stubArticleService) Create(ctx context.Context, req *model.SaveArticleRequest, orgCode string) (*model.ArticleResponse, error) {
	s.lastOrgCode = orgCode
	return &model.ArticleResponse{ID: 1, Title: req.Title}, nil
}

func (s *stubArticleService) Update(ctx context.Context, id uint, req *model.SaveArticleRequest) (*model.ArticleResponse, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &model.ArticleResponse{ID: id, Title: req.Title}, nil
}

func (s *stubArticleService) SetProperty(ctx context.Context, id uint, property string) error {
	if !constant.ArticleProperties[property] {
		return constant.ErrBadRequest
	}
	return nil
}

func (s *stubArticleService) CancelProperty(ctx context.Context, id uint, property string) error {
	return s.SetProperty(ctx, id, property)
}

func (s *stubArticleService) Trash(ctx context.Context, id uint) error {
	s.trashedID = id
	return nil
}

func (s *stubArticleService) RemoveThumb(ctx context.Context, id uint) error { return nil }

func (s *stubArticleService) BatchDelete(ctx context.Context, ids []uint) *model.BatchDeleteResult {
	return s.deleteResult
}

func (s *stubArticleService) Publish(ctx context.Context, id uint) error   { return nil }
func (s *stubArticleService) Unpublish(ctx context.Context, id uint) error { return nil }

func (s *stubArticleService) CropIndexPicture(ctx context.Context, fileID uint, selections []model.CropSelection) ([]*model.CropFile, error) {
	return nil, nil
}

func (s *stubArticleService) ToAPIResponse(a *model.Article) *model.ArticleResponse { return nil }

var _ articleSvc.Service = (*stubArticleService)(nil)

// fakeCategoryRepo 只认识分类 3，其余 ID 一律未找到。
type fakeCategoryRepo struct{}

var testCategory = &model.Category{ID: 3, ParentID: 0, Name: "时政", Code: "politics"}

func (fakeCategoryRepo) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	if id == testCategory.ID {
		return testCategory, nil
	}
	return nil, constant.ErrNotFound
}
func (fakeCategoryRepo) FindByIDs(ctx context.Context, ids []uint) ([]*model.Category, error) {
	return nil, nil
}
func (fakeCategoryRepo) FindAll(ctx context.Context) ([]*model.Category, error) { return nil, nil }

// emptyTagRepo 返回空标签集合。
type emptyTagRepo struct{}

func (emptyTagRepo) FindByOwner(ctx context.Context, conditions *model.TagOwnerConditions) ([]*model.Tag, error) {
	return nil, nil
}
func (emptyTagRepo) ReplaceOwnerTags(ctx context.Context, ownerType string, ownerID uint, names []string) error {
	return nil
}

// memSettingRepo 是内存配置仓储。
type memSettingRepo struct {
	values map[string]string
}

func (m *memSettingRepo) FindByKey(ctx context.Context, key string) (*model.Setting, error) {
	if value, ok := m.values[key]; ok {
		return &model.Setting{ConfigKey: key, Value: value}, nil
	}
	return nil, constant.ErrNotFound
}

func (m *memSettingRepo) FindAll(ctx context.Context) ([]*model.Setting, error) {
	settings := make([]*model.Setting, 0, len(m.values))
	for key, value := range m.values {
		settings = append(settings, &model.Setting{ConfigKey: key, Value: value})
	}
	return settings, nil
}

func (m *memSettingRepo) Save(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memSettingRepo) UpdateValueCAS(ctx context.Context, key string, modify func(old string) (string, error)) (string, error) {
	updated, err := modify(m.values[key])
	if err != nil {
		return "", err
	}
	m.values[key] = updated
	return updated, nil
}

// nopLogRepo 丢弃审计日志。
type nopLogRepo struct{}

func (nopLogRepo) Create(ctx context.Context, entry *model.Log) error { return nil }

// newTestRouter 组装一个带假身份的测试路由。
func newTestRouter(t *testing.T, svc articleSvc.Service, claims *auth.CustomClaims, safeDomains string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	settingRepo := &memSettingRepo{values: map[string]string{}}
	if safeDomains != "" {
		settingRepo.values[constant.KeySafeIframeDomains.String()] = safeDomains
	}
	settingSvc := setting.NewSettingService(settingRepo)
	if err := settingSvc.LoadAllSettings(context.Background()); err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	guard := security.NewGuard(settingSvc, auditlog.NewService(nopLogRepo{}))
	importer := extractor.NewImporter(extractor.NewReadabilityExtractor())
	categorySvc := category.NewService(fakeCategoryRepo{}, utility.NewMemoryCacheService())
	tagSvc := tag.NewService(emptyTagRepo{})

	handler := NewHandler(svc, categorySvc, tagSvc, nil, importer, guard)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(auth.ClaimsKey, claims)
		c.Next()
	})

	group := engine.Group("/api/admin/articles")
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/form", handler.ShowForm)
	group.GET("/from-url", handler.ShowFormFromURL)
	group.GET("/add-domain", handler.AddDomain)
	group.POST("/delete", handler.BatchDelete)
	group.GET("/:id/form", handler.ShowEditForm)
	group.POST("/:id", handler.Update)
	group.POST("/:id/property/:property", handler.SetProperty)
	group.DELETE("/:id/property/:property", handler.CancelProperty)
	group.POST("/:id/trash", handler.Trash)
	group.POST("/:id/thumb/remove", handler.RemoveThumb)
	group.POST("/:id/publish", handler.Publish)
	group.POST("/:id/unpublish", handler.Unpublish)
	return engine
}

func adminClaims() *auth.CustomClaims {
	return &auth.CustomClaims{
		UserID:      1,
		Username:    "admin",
		GroupID:     constant.AdminGroupID,
		OrgCode:     "org01",
		Permissions: []string{constant.PermissionAdminArticle, constant.PermissionAdminSettingSecurity},
	}
}

func doRequest(engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestListUsesOrgCodeFromClaims(t *testing.T) {
	svc := &stubArticleService{
		listResult: &model.ArticleListResponse{
			Articles:  []*model.ArticleResponse{},
			Paginator: model.NewPaginator(0, 1, 20),
		},
	}
	engine := newTestRouter(t, svc, adminClaims(), "")

	w := doRequest(engine, http.MethodGet, "/api/admin/articles?page=2&keyword=abc", "")
	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d", w.Code)
	}
	if svc.lastOrgCode != "org01" {
		t.Errorf("列表应使用 Token 中的机构编码, 实际 %q", svc.lastOrgCode)
	}
}

func TestAckEndpointsReturnLiteralTrue(t *testing.T) {
	svc := &stubArticleService{}
	engine := newTestRouter(t, svc, adminClaims(), "")

	paths := map[string]string{
		"属性开启":  "/api/admin/articles/3/property/sticky",
		"回收站":   "/api/admin/articles/3/trash",
		"清除缩略图": "/api/admin/articles/3/thumb/remove",
		"发布":    "/api/admin/articles/3/publish",
		"下线":    "/api/admin/articles/3/unpublish",
	}
	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			w := doRequest(engine, http.MethodPost, path, "")
			if w.Code != http.StatusOK {
				t.Fatalf("状态码 = %d", w.Code)
			}
			if strings.TrimSpace(w.Body.String()) != "true" {
				t.Errorf("应答体 = %q, 期望裸 true", w.Body.String())
			}
		})
	}

	t.Run("属性关闭", func(t *testing.T) {
		w := doRequest(engine, http.MethodDelete, "/api/admin/articles/3/property/sticky", "")
		if strings.TrimSpace(w.Body.String()) != "true" {
			t.Errorf("应答体 = %q, 期望裸 true", w.Body.String())
		}
	})

	t.Run("未知属性名被拒绝", func(t *testing.T) {
		w := doRequest(engine, http.MethodPost, "/api/admin/articles/3/property/status", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("状态码 = %d, 期望 400", w.Code)
		}
	})
}

func TestBatchDeletePolarity(t *testing.T) {
	t.Run("全部成功时应答success", func(t *testing.T) {
		svc := &stubArticleService{deleteResult: &model.BatchDeleteResult{SuccessCount: 2}}
		engine := newTestRouter(t, svc, adminClaims(), "")

		w := doRequest(engine, http.MethodPost, "/api/admin/articles/delete", `{"ids":[1,2]}`)
		if w.Code != http.StatusOK {
			t.Fatalf("状态码 = %d", w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("应答体不是 JSON: %v", err)
		}
		if body["status"] != "success" {
			t.Errorf("status = %q", body["status"])
		}
	})

	t.Run("任一失败时应答failed", func(t *testing.T) {
		svc := &stubArticleService{deleteResult: &model.BatchDeleteResult{SuccessCount: 1, FailedCount: 1, FailedIDs: []uint{2}}}
		engine := newTestRouter(t, svc, adminClaims(), "")

		w := doRequest(engine, http.MethodPost, "/api/admin/articles/delete", `{"ids":[1,2]}`)
		var body map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["status"] != "failed" {
			t.Errorf("status = %q", body["status"])
		}
	})

	t.Run("通过查询参数传单个ID", func(t *testing.T) {
		svc := &stubArticleService{deleteResult: &model.BatchDeleteResult{SuccessCount: 1}}
		engine := newTestRouter(t, svc, adminClaims(), "")

		w := doRequest(engine, http.MethodPost, "/api/admin/articles/delete?id=9", "")
		if w.Code != http.StatusOK {
			t.Errorf("状态码 = %d", w.Code)
		}
	})

	t.Run("未指定ID时报参数错误", func(t *testing.T) {
		svc := &stubArticleService{}
		engine := newTestRouter(t, svc, adminClaims(), "")

		w := doRequest(engine, http.MethodPost, "/api/admin/articles/delete", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("状态码 = %d, 期望 400", w.Code)
		}
	})
}

func TestShowEditForm(t *testing.T) {
	t.Run("文章不存在时返回404", func(t *testing.T) {
		svc := &stubArticleService{getErr: constant.ErrNotFound}
		engine := newTestRouter(t, svc, adminClaims(), "")

		w := doRequest(engine, http.MethodGet, "/api/admin/articles/999/form", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("状态码 = %d, 期望 404", w.Code)
		}
	})

	t.Run("带回文章所属的分类记录", func(t *testing.T) {
		svc := &stubArticleService{
			getResult: &model.ArticleResponse{ID: 8, Title: "编辑中", CategoryID: testCategory.ID},
		}
		engine := newTestRouter(t, svc, adminClaims(), "")

		w := doRequest(engine, http.MethodGet, "/api/admin/articles/8/form", "")
		if w.Code != http.StatusOK {
			t.Fatalf("状态码 = %d, 应答 %s", w.Code, w.Body.String())
		}
		var envelope struct {
			Data struct {
				Article  model.ArticleResponse `json:"article"`
				Category *model.Category       `json:"category"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("应答体解析失败: %v", err)
		}
		if envelope.Data.Category == nil || envelope.Data.Category.Name != "时政" {
			t.Errorf("category = %+v, 期望文章所属分类", envelope.Data.Category)
		}
	})

	t.Run("分类已删除时不阻塞编辑", func(t *testing.T) {
		svc := &stubArticleService{
			getResult: &model.ArticleResponse{ID: 9, Title: "孤儿分类", CategoryID: 77},
		}
		engine := newTestRouter(t, svc, adminClaims(), "")

		w := doRequest(engine, http.MethodGet, "/api/admin/articles/9/form", "")
		if w.Code != http.StatusOK {
			t.Fatalf("状态码 = %d, 应答 %s", w.Code, w.Body.String())
		}
		var envelope struct {
			Data struct {
				Category *model.Category `json:"category"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("应答体解析失败: %v", err)
		}
		if envelope.Data.Category != nil {
			t.Errorf("分类已删除时 category 应为空, 实际 %+v", envelope.Data.Category)
		}
	})
}

func TestShowFormFromURL(t *testing.T) {
	page := `<html><head><title>外部标题</title></head><body><article>` +
		`<p>这是一段足够长的正文内容，正文识别算法需要足够的文本密度才能稳定地选中这个段落作为文章主体。</p>` +
		`<p>再补充一段内容，保证识别结果稳定，测试不会因为正文太短而偶发失败。</p>` +
		`</article></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	serverHost := strings.TrimPrefix(server.URL, "http://")

	t.Run("预填草稿并标记白名单命中", func(t *testing.T) {
		svc := &stubArticleService{}
		engine := newTestRouter(t, svc, adminClaims(), `["`+serverHost+`"]`)

		target := "/api/admin/articles/from-url?url=" + url.QueryEscape(server.URL+"/news")
		w := doRequest(engine, http.MethodGet, target, "")
		if w.Code != http.StatusOK {
			t.Fatalf("状态码 = %d", w.Code)
		}

		var envelope struct {
			Data struct {
				Article      model.ArticleDraft `json:"article"`
				IsSafeDomain bool               `json:"isSafeDomain"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("应答体解析失败: %v", err)
		}
		if envelope.Data.Article.SourceURL != server.URL+"/news" {
			t.Errorf("sourceUrl = %q, 期望解码后的原网址", envelope.Data.Article.SourceURL)
		}
		if !strings.Contains(envelope.Data.Article.Title, "外部标题") {
			t.Errorf("标题未预填: %q", envelope.Data.Article.Title)
		}
		if !envelope.Data.IsSafeDomain {
			t.Error("白名单应命中")
		}
	})

	t.Run("空网址返回空草稿", func(t *testing.T) {
		svc := &stubArticleService{}
		engine := newTestRouter(t, svc, adminClaims(), "")

		w := doRequest(engine, http.MethodGet, "/api/admin/articles/from-url", "")
		if w.Code != http.StatusOK {
			t.Fatalf("状态码 = %d", w.Code)
		}
		var envelope struct {
			Data struct {
				Article      model.ArticleDraft `json:"article"`
				IsSafeDomain bool               `json:"isSafeDomain"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("应答体解析失败: %v", err)
		}
		if envelope.Data.Article.Title != "" || envelope.Data.Article.SourceURL != "" {
			t.Errorf("空网址应返回空草稿: %+v", envelope.Data.Article)
		}
		if envelope.Data.IsSafeDomain {
			t.Error("空草稿不应命中白名单")
		}
	})
}

func TestAddDomain(t *testing.T) {
	t.Run("有权限时加入白名单并带回原网址", func(t *testing.T) {
		svc := &stubArticleService{}
		engine := newTestRouter(t, svc, adminClaims(), "[]")

		target := "/api/admin/articles/add-domain?url=" + url.QueryEscape("https://www.example.com/news/1")
		w := doRequest(engine, http.MethodGet, target, "")
		if w.Code != http.StatusOK {
			t.Fatalf("状态码 = %d, 应答 %s", w.Code, w.Body.String())
		}

		var envelope struct {
			Data struct {
				URL   string `json:"url"`
				Host  string `json:"host"`
				Added bool   `json:"added"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("应答体解析失败: %v", err)
		}
		if envelope.Data.URL != "https://www.example.com/news/1" {
			t.Errorf("url = %q, 期望原样带回", envelope.Data.URL)
		}
		if !envelope.Data.Added || envelope.Data.Host != "www.example.com" {
			t.Errorf("结果不正确: %+v", envelope.Data)
		}
	})

	t.Run("无权限时不报错但不加入", func(t *testing.T) {
		claims := adminClaims()
		claims.Permissions = []string{constant.PermissionAdminArticle}
		svc := &stubArticleService{}
		engine := newTestRouter(t, svc, claims, "[]")

		target := "/api/admin/articles/add-domain?url=" + url.QueryEscape("https://www.example.com/n")
		w := doRequest(engine, http.MethodGet, target, "")
		if w.Code != http.StatusOK {
			t.Fatalf("状态码 = %d", w.Code)
		}
		var envelope struct {
			Data struct {
				Added bool `json:"added"`
			} `json:"data"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &envelope)
		if envelope.Data.Added {
			t.Error("无权限时 added 应为 false")
		}
	})
}

func TestUpdateNotFound(t *testing.T) {
	svc := &stubArticleService{getErr: constant.ErrNotFound}
	engine := newTestRouter(t, svc, adminClaims(), "")

	w := doRequest(engine, http.MethodPost, "/api/admin/articles/404", `{"title":"t"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("状态码 = %d, 期望 404", w.Code)
	}
}
