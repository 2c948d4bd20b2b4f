package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"miniblog/internal/dto"
	"miniblog/internal/middleware"
	"miniblog/internal/service"
	"miniblog/pkg/redis"
	"miniblog/pkg/render"

	log "miniblog/pkg/logger"
)

// ============================================================================
// Handler 结构体
// ============================================================================

type PostHandler struct {
	postService service.PostService
	render      *render.Renderer
}

// NewPostHandler 创建 PostHandler 实例
func NewPostHandler(postService service.PostService, renderer *render.Renderer) *PostHandler {
	return &PostHandler{
		postService: postService,
		render:      renderer,
	}
}

// ============================================================================
// 表单结构体
// ============================================================================

type postForm struct {
	Title   string `form:"title"`
	Content string `form:"content"`
}

// ============================================================================
// 列表 / 详情
// ============================================================================

// Index 首页，所有文章按创建时间倒序
func (h *PostHandler) Index(c *gin.Context) {
	posts, err := h.postService.List(c.Request.Context())
	if err != nil {
		log.Error("加载首页失败", zap.Error(err))
		h.render.ServerError(c)
		return
	}

	h.render.HTML(c, http.StatusOK, "index.html", gin.H{
		"Posts": posts,
	})
}

// Show 文章详情页
func (h *PostHandler) Show(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			h.render.NotFound(c)
			return
		}
		log.Error("加载文章失败", zap.Error(err), zap.Uint64("post_id", id))
		h.render.ServerError(c)
		return
	}

	h.render.HTML(c, http.StatusOK, "post.html", gin.H{
		"Title": post.Title,
		"Post":  post,
	})
}

// ============================================================================
// 创建
// ============================================================================

// ShowCreate 新建文章页
func (h *PostHandler) ShowCreate(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "post_form.html", gin.H{
		"Title":  "发布新文章",
		"Legend": "发布新文章",
		"Action": "/post/new",
	})
}

// Create 提交新文章，作者取自当前登录身份
func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		h.render.HTML(c, http.StatusBadRequest, "post_form.html", gin.H{
			"Title":  "发布新文章",
			"Legend": "发布新文章",
			"Action": "/post/new",
		})
		return
	}

	createDTO := &dto.CreatePostDTO{
		AuthorID: user.ID,
		Title:    form.Title,
		Content:  form.Content,
	}

	_, err := h.postService.Create(c.Request.Context(), createDTO)
	if err != nil {
		var verrs dto.ValidationErrors
		if errors.As(err, &verrs) {
			h.render.HTML(c, http.StatusOK, "post_form.html", gin.H{
				"Title":  "发布新文章",
				"Legend": "发布新文章",
				"Action": "/post/new",
				"Errors": verrs.ByField(),
				"Form": map[string]string{
					"Title":   form.Title,
					"Content": form.Content,
				},
			})
			return
		}

		log.Error("发布文章失败", zap.Error(err), zap.Uint64("author_id", user.ID))
		h.render.ServerError(c)
		return
	}

	h.render.Redirect(c, "/", redis.Flash{
		Level:   "success",
		Message: "文章发布成功",
	})
}

// ============================================================================
// 更新
// ============================================================================

// ShowUpdate 编辑文章页，预填原标题和内容
func (h *PostHandler) ShowUpdate(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			h.render.NotFound(c)
			return
		}
		log.Error("加载文章失败", zap.Error(err), zap.Uint64("post_id", id))
		h.render.ServerError(c)
		return
	}

	if post.AuthorID != user.ID {
		h.render.Forbidden(c)
		return
	}

	h.render.HTML(c, http.StatusOK, "post_form.html", gin.H{
		"Title":  "更新文章",
		"Legend": "更新文章",
		"Action": "/post/" + strconv.FormatUint(id, 10) + "/update",
		"Form": map[string]string{
			"Title":   post.Title,
			"Content": post.Content,
		},
	})
}

// Update 提交文章更新，作者字段保持不变
func (h *PostHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		h.render.HTML(c, http.StatusBadRequest, "post_form.html", gin.H{
			"Title":  "更新文章",
			"Legend": "更新文章",
			"Action": "/post/" + strconv.FormatUint(id, 10) + "/update",
		})
		return
	}

	updateDTO := &dto.UpdatePostDTO{
		PostID:  id,
		ActorID: user.ID,
		Title:   form.Title,
		Content: form.Content,
	}

	if err := h.postService.Update(c.Request.Context(), updateDTO); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			h.render.NotFound(c)
		case errors.Is(err, service.ErrNotPostOwner):
			h.render.Forbidden(c)
		default:
			var verrs dto.ValidationErrors
			if errors.As(err, &verrs) {
				h.render.HTML(c, http.StatusOK, "post_form.html", gin.H{
					"Title":  "更新文章",
					"Legend": "更新文章",
					"Action": "/post/" + strconv.FormatUint(id, 10) + "/update",
					"Errors": verrs.ByField(),
					"Form": map[string]string{
						"Title":   form.Title,
						"Content": form.Content,
					},
				})
				return
			}
			log.Error("更新文章失败", zap.Error(err), zap.Uint64("post_id", id))
			h.render.ServerError(c)
		}
		return
	}

	h.render.Redirect(c, "/", redis.Flash{
		Level:   "success",
		Message: "文章更新成功",
	})
}

// ============================================================================
// 删除
// ============================================================================

// Delete 删除文章
// TODO: 删除目前走GET链接，浏览器预加载或跨站的一个<img>标签就能触发，
// 需要改成POST表单并加CSRF token
func (h *PostHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	deleteDTO := &dto.DeletePostDTO{
		PostID:  id,
		ActorID: user.ID,
	}

	if err := h.postService.Delete(c.Request.Context(), deleteDTO); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			h.render.NotFound(c)
		case errors.Is(err, service.ErrNotPostOwner):
			h.render.Forbidden(c)
		default:
			log.Error("删除文章失败", zap.Error(err), zap.Uint64("post_id", id))
			h.render.ServerError(c)
		}
		return
	}

	h.render.Redirect(c, "/", redis.Flash{
		Level:   "success",
		Message: "文章已删除",
	})
}

// ============================================================================
// 工具函数
// ============================================================================

// parseID 解析路径中的文章ID，非法ID按404处理
func (h *PostHandler) parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		h.render.NotFound(c)
		return 0, false
	}
	return id, true
}
