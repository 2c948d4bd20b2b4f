package router

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"

	"miniblog/config"
	"miniblog/internal/handler"
	"miniblog/internal/middleware"
	"miniblog/internal/service"
	"miniblog/pkg/render"
)

// SetupRouter 配置路由
func SetupRouter(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	userService service.UserService,
	renderer *render.Renderer,
) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.LoadUser(userService))

	// 模板函数必须在加载模板之前注册
	r.SetFuncMap(template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
	})
	r.LoadHTMLGlob("web/templates/*.html")

	// 静态资源（含用户头像）
	r.Static("/static", "web/static")

	// ========================================================================
	// 公开页面
	// ========================================================================
	r.GET("/", postHandler.Index)
	r.GET("/post/:id", postHandler.Show)

	r.GET("/register", userHandler.ShowRegister)
	r.POST("/register", userHandler.Register)
	r.GET("/login", userHandler.ShowLogin)
	r.POST("/login", userHandler.Login)
	r.GET("/logout", userHandler.Logout)

	// ========================================================================
	// 需要登录的页面
	// ========================================================================
	auth := r.Group("/", middleware.AuthRequired())
	{
		auth.GET("/account", userHandler.ShowAccount)
		auth.POST("/account", userHandler.UpdateAccount)

		auth.GET("/post/new", postHandler.ShowCreate)
		auth.POST("/post/new", postHandler.Create)
		auth.GET("/post/:id/update", postHandler.ShowUpdate)
		auth.POST("/post/:id/update", postHandler.Update)
		auth.GET("/post/delete/:id", postHandler.Delete)
		auth.POST("/post/delete/:id", postHandler.Delete)
	}

	// 未匹配的路由统一404页面
	r.NoRoute(renderer.NotFound)

	return r
}
