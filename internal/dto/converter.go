package dto

import (
	"miniblog/internal/model"
	"miniblog/pkg/redis"
)

// ============================================================================
// Model → DTO (Repository 层 → Service 层)
// ============================================================================

// FromUserModel model.User → UserProfileDTO
func FromUserModel(user *model.User) *UserProfileDTO {
	if user == nil {
		return nil
	}
	return &UserProfileDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		ImageFile: user.ImageFile,
	}
}

// FromCachedUser redis.CachedUser → UserProfileDTO
func FromCachedUser(cached *redis.CachedUser) *UserProfileDTO {
	if cached == nil {
		return nil
	}
	return &UserProfileDTO{
		ID:        cached.ID,
		Username:  cached.Username,
		Email:     cached.Email,
		ImageFile: cached.ImageFile,
	}
}

// FromPostModel model.Post → PostDTO（不含作者展示字段）
func FromPostModel(post *model.Post) *PostDTO {
	if post == nil {
		return nil
	}
	return &PostDTO{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		AuthorID:  post.UserID,
		CreatedAt: post.CreatedAt,
	}
}

// FromPostWithAuthor model.PostWithAuthor → PostDTO
func FromPostWithAuthor(post *model.PostWithAuthor) *PostDTO {
	if post == nil {
		return nil
	}
	return &PostDTO{
		ID:          post.ID,
		Title:       post.Title,
		Content:     post.Content,
		AuthorID:    post.UserID,
		AuthorName:  post.AuthorName,
		AuthorImage: post.AuthorImage,
		CreatedAt:   post.CreatedAt,
	}
}

// FromPostWithAuthorList 批量转换文章列表
func FromPostWithAuthorList(posts []*model.PostWithAuthor) []*PostDTO {
	result := make([]*PostDTO, 0, len(posts))
	for _, p := range posts {
		result = append(result, FromPostWithAuthor(p))
	}
	return result
}
