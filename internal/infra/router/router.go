// internal/infra/router/router.go
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/qingshu-lab/qingshu-app/internal/app/middleware"
	article_handler "github.com/qingshu-lab/qingshu-app/pkg/handler/article"
)

// NoCacheMiddleware 全局反缓存中间件，确保所有API响应都不会被CDN缓存
func NoCacheMiddleware() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("X-Content-Type-Options", "nosniff")

		c.Next()
	})
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	mw             *middleware.Middleware
	articleHandler *article_handler.Handler
}

// NewRouter 是 Router 的构造函数。
func NewRouter(mw *middleware.Middleware, articleHandler *article_handler.Handler) *Router {
	return &Router{
		mw:             mw,
		articleHandler: articleHandler,
	}
}

// Setup 在给定的 gin 引擎上注册全部路由。
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(NoCacheMiddleware())

	apiGroup := engine.Group("/api")
	r.registerArticleRoutes(apiGroup)
}

// registerArticleRoutes 注册后台资讯文章的全部接口，统一要求管理员身份。
func (r *Router) registerArticleRoutes(api *gin.RouterGroup) {
	articles := api.Group("/admin/articles").Use(r.mw.JWTAuth(), r.mw.AdminAuth())
	{
		articles.GET("", r.articleHandler.List)
		articles.POST("", r.articleHandler.Create)
		articles.GET("/form", r.articleHandler.ShowForm)
		// 从外部网址识别内容并预填创建表单；提交走与普通创建相同的契约
		articles.GET("/from-url", r.articleHandler.ShowFormFromURL)
		articles.POST("/from-url", r.articleHandler.Create)
		articles.GET("/add-domain", r.articleHandler.AddDomain)
		articles.POST("/delete", r.articleHandler.BatchDelete)

		// 封面上传与裁剪流程，待裁剪文件通过会话传递
		articles.GET("/picture/upload", r.articleHandler.ShowUpload)
		articles.POST("/picture/upload", r.articleHandler.UploadPicture)
		articles.GET("/picture/crop", r.articleHandler.ShowCrop)
		articles.POST("/picture/crop", r.articleHandler.Crop)

		// 注意：把带参数的路由放在最后，避免路由冲突
		articles.GET("/:id/form", r.articleHandler.ShowEditForm)
		articles.POST("/:id", r.articleHandler.Update)
		articles.POST("/:id/property/:property", r.articleHandler.SetProperty)
		articles.DELETE("/:id/property/:property", r.articleHandler.CancelProperty)
		articles.POST("/:id/trash", r.articleHandler.Trash)
		articles.POST("/:id/thumb/remove", r.articleHandler.RemoveThumb)
		articles.POST("/:id/publish", r.articleHandler.Publish)
		articles.POST("/:id/unpublish", r.articleHandler.Unpublish)
	}
}
