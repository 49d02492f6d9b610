/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-15 11:30:55
 * @LastEditTime: 2025-10-22 11:02:47
 * @LastEditors: 安知鱼
 */
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/anheyu-press/internal/app/middleware"
	article_handler "github.com/anzhiyu-c/anheyu-press/pkg/handler/article"
	category_handler "github.com/anzhiyu-c/anheyu-press/pkg/handler/category"
	user_handler "github.com/anzhiyu-c/anheyu-press/pkg/handler/user"
	version_handler "github.com/anzhiyu-c/anheyu-press/pkg/handler/version"
	"github.com/anzhiyu-c/anheyu-press/pkg/response"
)

// NoCacheMiddleware 全局反缓存中间件，确保所有API响应都不会被CDN缓存
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	articleHandler  *article_handler.Handler
	categoryHandler *category_handler.Handler
	userHandler     *user_handler.Handler
	versionHandler  *version_handler.Handler
	mw              *middleware.Middleware
	voteLimiter     gin.HandlerFunc
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收所有处理器。
// voteLimiter 为 nil 时投票接口不限流。
func NewRouter(
	articleHandler *article_handler.Handler,
	categoryHandler *category_handler.Handler,
	userHandler *user_handler.Handler,
	mw *middleware.Middleware,
	voteLimiter gin.HandlerFunc,
) *Router {
	if voteLimiter == nil {
		voteLimiter = func(c *gin.Context) { c.Next() }
	}
	return &Router{
		articleHandler:  articleHandler,
		categoryHandler: categoryHandler,
		userHandler:     userHandler,
		versionHandler:  version_handler.NewHandler(),
		mw:              mw,
		voteLimiter:     voteLimiter,
	}
}

// Setup 将所有路由注册到 Gin 引擎。
func (r *Router) Setup(engine *gin.Engine) {
	apiGroup := engine.Group("/api")
	apiGroup.Use(NoCacheMiddleware())

	apiGroup.GET("/ping", r.versionHandler.Ping)
	apiGroup.GET("/version", r.versionHandler.GetVersion)
	apiGroup.GET("/version/string", r.versionHandler.GetVersionString)

	r.registerUserRoutes(apiGroup)
	r.registerCategoryRoutes(apiGroup)
	r.registerArticleRoutes(apiGroup)

	engine.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "接口不存在")
	})
}

func (r *Router) registerUserRoutes(api *gin.RouterGroup) {
	users := api.Group("/users").Use(r.mw.JWTAuth())
	{
		users.DELETE("/me", r.userHandler.DeleteMe)
	}
}

func (r *Router) registerCategoryRoutes(api *gin.RouterGroup) {
	categoriesPublic := api.Group("/categories")
	{
		categoriesPublic.GET("/:id", r.categoryHandler.Get)
	}

	categoriesAdmin := api.Group("/categories").Use(r.mw.JWTAuth())
	{
		categoriesAdmin.PATCH("/merge", r.categoryHandler.Merge)
		categoriesAdmin.DELETE("/:id", r.categoryHandler.Delete)
	}
}

func (r *Router) registerArticleRoutes(api *gin.RouterGroup) {
	articlesPublic := api.Group("/articles")
	{
		articlesPublic.GET("/ranking", r.articleHandler.Ranking)
		articlesPublic.GET("/:id", r.articleHandler.Get)
		articlesPublic.POST("/:id/upvote", r.voteLimiter, r.articleHandler.Upvote)
		articlesPublic.POST("/:id/downvote", r.voteLimiter, r.articleHandler.Downvote)
	}

	articlesAdmin := api.Group("/articles").Use(r.mw.JWTAuth())
	{
		articlesAdmin.POST("/batch-delete", r.articleHandler.BatchDelete)
		articlesAdmin.DELETE("/low-upvotes", r.articleHandler.DeleteLowUpvotes)
	}
}
