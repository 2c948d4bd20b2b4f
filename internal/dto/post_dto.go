package dto

import "time"

// ============================================================================
// 文章 DTO
// ============================================================================

// PostDTO 文章信息（含作者展示字段）
type PostDTO struct {
	ID          uint64
	Title       string
	Content     string
	AuthorID    uint64
	AuthorName  string
	AuthorImage string
	CreatedAt   time.Time
}

// CreatePostDTO 创建文章请求
// AuthorID 来自当前登录身份，永远不取自表单
type CreatePostDTO struct {
	AuthorID uint64
	Title    string
	Content  string
}

// UpdatePostDTO 更新文章请求
// ActorID 是发起操作的身份，必须等于文章作者
type UpdatePostDTO struct {
	PostID  uint64
	ActorID uint64
	Title   string
	Content string
}

// DeletePostDTO 删除文章请求
type DeletePostDTO struct {
	PostID  uint64
	ActorID uint64
}
