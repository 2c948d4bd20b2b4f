package render

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"miniblog/internal/middleware"
	"miniblog/pkg/redis"

	log "miniblog/pkg/logger"
)

const (
	// FlashCookieName 闪现消息访客标识Cookie
	FlashCookieName = "flash_token"

	// FlashCookieMaxAge 访客标识Cookie有效期（秒）
	FlashCookieMaxAge = 24 * 3600
)

// Renderer 页面渲染器
// 统一补充每个页面都需要的数据：当前登录用户、闪现消息
type Renderer struct {
	flash redis.FlashStore
}

// NewRenderer 创建页面渲染器
func NewRenderer(flash redis.FlashStore) *Renderer {
	return &Renderer{flash: flash}
}

// HTML 渲染模板
// data 中会注入 CurrentUser 和 Flashes（取出即清空，只展示一次）
func (r *Renderer) HTML(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = middleware.CurrentUser(c)

	// 表单页模板直接取 .Form.xxx / .Errors.xxx，缺省补空map避免模板执行出错
	if _, ok := data["Form"]; !ok {
		data["Form"] = map[string]string{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}

	// 只有带访客标识的请求才可能有待展示的消息
	if key, err := c.Cookie(FlashCookieName); err == nil && key != "" {
		flashes, popErr := r.flash.Pop(c.Request.Context(), key)
		if popErr != nil {
			log.Warn("读取闪现消息失败", zap.Error(popErr))
		}
		data["Flashes"] = flashes
	}

	c.HTML(status, name, data)
}

// Redirect 重定向，携带的消息在下一个页面展示一次
func (r *Renderer) Redirect(c *gin.Context, location string, flashes ...redis.Flash) {
	if len(flashes) > 0 {
		key := r.visitorKey(c)
		if err := r.flash.Push(c.Request.Context(), key, flashes...); err != nil {
			log.Warn("写入闪现消息失败", zap.Error(err))
			// 消息丢失不阻断跳转
		}
	}
	c.Redirect(http.StatusSeeOther, location)
}

// visitorKey 获取访客标识，没有时发一个新Cookie
func (r *Renderer) visitorKey(c *gin.Context) string {
	if key, err := c.Cookie(FlashCookieName); err == nil && key != "" {
		return key
	}
	key := uuid.New().String()
	c.SetCookie(FlashCookieName, key, FlashCookieMaxAge, "/", "", false, true)
	return key
}

// ============================================================================
// 错误页面
// ============================================================================

// NotFound 404页面
func (r *Renderer) NotFound(c *gin.Context) {
	r.HTML(c, http.StatusNotFound, "error.html", gin.H{
		"Status":  http.StatusNotFound,
		"Message": "页面不存在",
	})
	c.Abort()
}

// Forbidden 403页面（已登录但无权限）
func (r *Renderer) Forbidden(c *gin.Context) {
	r.HTML(c, http.StatusForbidden, "error.html", gin.H{
		"Status":  http.StatusForbidden,
		"Message": "没有权限执行该操作",
	})
	c.Abort()
}

// ServerError 500页面
func (r *Renderer) ServerError(c *gin.Context) {
	r.HTML(c, http.StatusInternalServerError, "error.html", gin.H{
		"Status":  http.StatusInternalServerError,
		"Message": "服务器内部错误，请稍后再试",
	})
	c.Abort()
}
