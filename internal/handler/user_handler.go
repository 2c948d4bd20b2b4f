package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"miniblog/config"
	"miniblog/internal/dto"
	"miniblog/internal/middleware"
	"miniblog/internal/service"
	"miniblog/pkg/imageutil"
	"miniblog/pkg/redis"
	"miniblog/pkg/render"

	log "miniblog/pkg/logger"
)

// ============================================================================
// Handler 结构体
// ============================================================================

type UserHandler struct {
	userService service.UserService
	render      *render.Renderer
	upload      *config.UploadConfig
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(userService service.UserService, renderer *render.Renderer, cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService: userService,
		render:      renderer,
		upload:      &cfg.Upload,
	}
}

// ============================================================================
// 表单结构体
// ============================================================================

type registerForm struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Remember string `form:"remember"`
	Next     string `form:"next"`
}

type accountForm struct {
	Username string `form:"username"`
	Email    string `form:"email"`
}

// ============================================================================
// 注册
// ============================================================================

// ShowRegister 注册页
func (h *UserHandler) ShowRegister(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "register.html", gin.H{
		"Title": "注册",
	})
}

// Register 提交注册
func (h *UserHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		h.render.HTML(c, http.StatusBadRequest, "register.html", gin.H{
			"Title": "注册",
		})
		return
	}

	registerDTO := &dto.RegisterDTO{
		Username:        form.Username,
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	}

	_, err := h.userService.Register(c.Request.Context(), registerDTO)
	if err != nil {
		// 字段级验证错误回显，不落库
		var verrs dto.ValidationErrors
		if errors.As(err, &verrs) {
			h.render.HTML(c, http.StatusOK, "register.html", gin.H{
				"Title":  "注册",
				"Errors": verrs.ByField(),
				"Form": map[string]string{
					"Username": form.Username,
					"Email":    form.Email,
				},
			})
			return
		}

		log.Error("注册失败", zap.Error(err))
		h.render.ServerError(c)
		return
	}

	h.render.Redirect(c, "/login", redis.Flash{
		Level:   "success",
		Message: "注册成功，请登录",
	})
}

// ============================================================================
// 登录 / 登出
// ============================================================================

// ShowLogin 登录页
func (h *UserHandler) ShowLogin(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "login.html", gin.H{
		"Title": "登录",
		"Next":  c.Query("next"),
	})
}

// Login 提交登录
func (h *UserHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render.HTML(c, http.StatusBadRequest, "login.html", gin.H{
			"Title": "登录",
			"Next":  "",
		})
		return
	}

	loginDTO := &dto.LoginDTO{
		Email:    form.Email,
		Password: form.Password,
		Remember: form.Remember == "on",
	}

	result, err := h.userService.Login(c.Request.Context(), loginDTO)
	if err != nil {
		// 验证错误和凭据错误都回到登录页，统一提示一条消息
		if errors.Is(err, service.ErrInvalidCredentials) || isValidationError(err) {
			h.render.HTML(c, http.StatusOK, "login.html", gin.H{
				"Title":     "登录",
				"FormError": "登录失败，请检查邮箱和密码",
				"Next":      form.Next,
				"Form":      map[string]string{"Email": form.Email},
			})
			return
		}

		log.Error("登录失败", zap.Error(err))
		h.render.ServerError(c)
		return
	}

	// 设置Session Cookie，「记住我」时有效期延长
	maxAge := int(redis.SessionTTL.Seconds())
	if result.Remember {
		maxAge = int(redis.RememberTTL.Seconds())
	}
	c.SetCookie(
		middleware.SessionCookieName,
		result.Token,
		maxAge,
		"/",
		"",
		false, // Secure: 生产环境建议改为true
		true,  // HttpOnly: 防止XSS攻击
	)

	h.render.Redirect(c, safeNext(form.Next))
}

// Logout 登出（幂等，未登录访问也只是跳回首页）
func (h *UserHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookieName)
	if err == nil && token != "" {
		if err := h.userService.Logout(c.Request.Context(), &dto.LogoutDTO{Token: token}); err != nil {
			log.Warn("登出失败", zap.Error(err))
		}
	}

	// 清除Cookie
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)

	h.render.Redirect(c, "/")
}

// ============================================================================
// 账号设置
// ============================================================================

// ShowAccount 账号设置页（预填当前用户名和邮箱）
func (h *UserHandler) ShowAccount(c *gin.Context) {
	user := middleware.CurrentUser(c)

	h.render.HTML(c, http.StatusOK, "account.html", gin.H{
		"Title": "账号设置",
		"Form": map[string]string{
			"Username": user.Username,
			"Email":    user.Email,
		},
		"ImageFile": user.ImageFile,
	})
}

// UpdateAccount 提交账号更新
// 上传了新头像时缩放保存并替换引用；旧头像文件不删除
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var form accountForm
	if err := c.ShouldBind(&form); err != nil {
		h.render.HTML(c, http.StatusBadRequest, "account.html", gin.H{
			"Title":     "账号设置",
			"ImageFile": user.ImageFile,
		})
		return
	}

	// 处理可选的头像上传
	imageFile, uploadErr := h.savePicture(c)
	if uploadErr != "" {
		h.render.HTML(c, http.StatusOK, "account.html", gin.H{
			"Title":  "账号设置",
			"Errors": map[string]string{"picture": uploadErr},
			"Form": map[string]string{
				"Username": form.Username,
				"Email":    form.Email,
			},
			"ImageFile": user.ImageFile,
		})
		return
	}

	updateDTO := &dto.UpdateAccountDTO{
		UserID:    user.ID,
		Username:  form.Username,
		Email:     form.Email,
		ImageFile: imageFile,
	}

	_, err := h.userService.UpdateAccount(c.Request.Context(), updateDTO)
	if err != nil {
		var verrs dto.ValidationErrors
		if errors.As(err, &verrs) {
			h.render.HTML(c, http.StatusOK, "account.html", gin.H{
				"Title":  "账号设置",
				"Errors": verrs.ByField(),
				"Form": map[string]string{
					"Username": form.Username,
					"Email":    form.Email,
				},
				"ImageFile": user.ImageFile,
			})
			return
		}

		log.Error("更新账号失败", zap.Error(err), zap.Uint64("user_id", user.ID))
		h.render.ServerError(c)
		return
	}

	h.render.Redirect(c, "/account", redis.Flash{
		Level:   "success",
		Message: "账号信息已更新",
	})
}

// savePicture 保存上传的头像
// 没有上传文件时返回("", "")；校验失败时返回用户可读的错误消息
func (h *UserHandler) savePicture(c *gin.Context) (string, string) {
	fileHeader, err := c.FormFile("picture")
	if err != nil {
		// 未上传头像，保持原头像
		return "", ""
	}

	if fileHeader.Size > h.upload.GetMaxSize() {
		return "", "文件过大"
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !h.upload.IsAllowedExt(ext) {
		return "", "不支持的文件类型"
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("读取上传文件失败", zap.Error(err))
		return "", "读取上传文件失败"
	}
	defer file.Close()

	name, err := imageutil.SavePicture(file, fileHeader.Filename, h.upload.Dir)
	if err != nil {
		log.Error("保存头像失败", zap.Error(err))
		return "", "保存头像失败"
	}

	return name, ""
}

// ============================================================================
// 工具函数
// ============================================================================

// safeNext 校验登录后的跳转目标，只允许站内绝对路径
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}

// isValidationError 判断是否字段验证错误
func isValidationError(err error) bool {
	var verrs dto.ValidationErrors
	return errors.As(err, &verrs)
}
