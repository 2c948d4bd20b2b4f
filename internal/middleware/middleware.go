package middleware

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"miniblog/internal/dto"
	"miniblog/internal/service"

	log "miniblog/pkg/logger"
)

const (
	// SessionCookieName Session Cookie名称
	SessionCookieName = "session_token"

	// contextUserKey 当前登录用户在请求上下文中的键
	contextUserKey = "currentUser"
)

// LoggerMiddleware 日志中间件
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP 请求",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", statusCode),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// LoadUser 解析Session并把当前登录用户放入请求上下文
// 所有页面都挂这个中间件，未登录请求正常放行
func LoadUser(userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		profile, err := userService.GetProfile(c.Request.Context(), &dto.ValidateTokenDTO{Token: token})
		if err != nil {
			// Session过期或用户已不存在，按未登录处理
			log.Debug("解析Session失败", zap.Error(err))
			c.Next()
			return
		}

		c.Set(contextUserKey, profile)
		c.Next()
	}
}

// AuthRequired 认证门禁，依赖LoadUser先执行
// 未登录重定向到登录页，带上next返回目标
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusSeeOther, "/login?next="+next)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser 获取当前登录用户，未登录返回nil
func CurrentUser(c *gin.Context) *dto.UserProfileDTO {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	profile, ok := value.(*dto.UserProfileDTO)
	if !ok {
		return nil
	}
	return profile
}
