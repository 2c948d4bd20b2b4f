package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"miniblog/internal/dto"
	"miniblog/internal/model"
	"miniblog/internal/repository"
	"miniblog/pkg/db"

	log "miniblog/pkg/logger"
)

// ============================================================================
// 业务错误定义
// ============================================================================

var (
	ErrPostNotFound = errors.New("文章不存在")
	// ErrNotPostOwner 已登录但不是文章作者（403，不是401）
	ErrNotPostOwner = errors.New("只有作者可以操作这篇文章")
)

// ============================================================================
// PostService 接口
// ============================================================================

type PostService interface {
	// List 查询全部文章，按创建时间倒序
	List(ctx context.Context) ([]*dto.PostDTO, error)

	// Get 根据ID查询文章
	Get(ctx context.Context, id uint64) (*dto.PostDTO, error)

	// Create 创建文章（作者为当前登录身份）
	Create(ctx context.Context, createDTO *dto.CreatePostDTO) (*dto.PostDTO, error)

	// Update 更新文章（仅作者可操作，作者不变）
	Update(ctx context.Context, updateDTO *dto.UpdatePostDTO) error

	// Delete 删除文章（仅作者可操作）
	Delete(ctx context.Context, deleteDTO *dto.DeletePostDTO) error
}

// ============================================================================
// postService 实现
// ============================================================================

type postService struct {
	postRepo repository.PostRepository
}

// NewPostService 创建PostService实例
func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

// ============================================================================
// List 文章列表
// ============================================================================

func (s *postService) List(ctx context.Context) ([]*dto.PostDTO, error) {
	posts, err := s.postRepo.ListWithAuthor(ctx)
	if err != nil {
		log.Error("查询文章列表失败", zap.Error(err))
		return nil, fmt.Errorf("查询文章列表失败: %w", err)
	}

	return dto.FromPostWithAuthorList(posts), nil
}

// ============================================================================
// Get 文章详情
// ============================================================================

func (s *postService) Get(ctx context.Context, id uint64) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetWithAuthor(ctx, id)
	if err != nil {
		log.Error("查询文章失败", zap.Error(err), zap.Uint64("post_id", id))
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	return dto.FromPostWithAuthor(post), nil
}

// ============================================================================
// Create 创建文章
// ============================================================================

func (s *postService) Create(ctx context.Context, createDTO *dto.CreatePostDTO) (*dto.PostDTO, error) {
	// 1. 验证DTO
	if err := createDTO.Validate(); err != nil {
		log.Warn("创建文章参数验证失败", zap.Error(err), zap.Uint64("author_id", createDTO.AuthorID))
		return nil, err
	}

	// 2. 生成ID并落库
	id, err := db.GenerateID()
	if err != nil {
		log.Error("生成文章ID失败", zap.Error(err))
		return nil, fmt.Errorf("生成文章ID失败: %w", err)
	}

	post := &model.Post{
		ID:      uint64(id),
		Title:   createDTO.Title,
		Content: createDTO.Content,
		UserID:  createDTO.AuthorID,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		log.Error("创建文章失败", zap.Error(err), zap.Uint64("author_id", createDTO.AuthorID))
		return nil, fmt.Errorf("创建文章失败: %w", err)
	}

	log.Info("创建文章成功",
		zap.Uint64("post_id", post.ID),
		zap.Uint64("author_id", post.UserID))

	return dto.FromPostModel(post), nil
}

// ============================================================================
// Update 更新文章
// ============================================================================

func (s *postService) Update(ctx context.Context, updateDTO *dto.UpdatePostDTO) error {
	// 1. 验证DTO
	if err := updateDTO.Validate(); err != nil {
		log.Warn("更新文章参数验证失败", zap.Error(err), zap.Uint64("post_id", updateDTO.PostID))
		return err
	}

	// 2. 查文章、验证归属
	post, err := s.postRepo.GetByID(ctx, updateDTO.PostID)
	if err != nil {
		log.Error("查询文章失败", zap.Error(err), zap.Uint64("post_id", updateDTO.PostID))
		return fmt.Errorf("查询文章失败: %w", err)
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != updateDTO.ActorID {
		log.Warn("非作者尝试更新文章",
			zap.Uint64("post_id", updateDTO.PostID),
			zap.Uint64("owner_id", post.UserID),
			zap.Uint64("actor_id", updateDTO.ActorID))
		return ErrNotPostOwner
	}

	// 3. 只覆盖标题和内容
	if err := s.postRepo.Update(ctx, updateDTO.PostID, updateDTO.Title, updateDTO.Content); err != nil {
		log.Error("更新文章失败", zap.Error(err), zap.Uint64("post_id", updateDTO.PostID))
		return fmt.Errorf("更新文章失败: %w", err)
	}

	log.Info("更新文章成功", zap.Uint64("post_id", updateDTO.PostID))
	return nil
}

// ============================================================================
// Delete 删除文章
// ============================================================================

func (s *postService) Delete(ctx context.Context, deleteDTO *dto.DeletePostDTO) error {
	// 1. 验证DTO
	if err := deleteDTO.Validate(); err != nil {
		log.Warn("删除文章参数验证失败", zap.Error(err), zap.Uint64("post_id", deleteDTO.PostID))
		return err
	}

	// 2. 查文章、验证归属
	post, err := s.postRepo.GetByID(ctx, deleteDTO.PostID)
	if err != nil {
		log.Error("查询文章失败", zap.Error(err), zap.Uint64("post_id", deleteDTO.PostID))
		return fmt.Errorf("查询文章失败: %w", err)
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != deleteDTO.ActorID {
		log.Warn("非作者尝试删除文章",
			zap.Uint64("post_id", deleteDTO.PostID),
			zap.Uint64("owner_id", post.UserID),
			zap.Uint64("actor_id", deleteDTO.ActorID))
		return ErrNotPostOwner
	}

	// 3. 删除
	if err := s.postRepo.Delete(ctx, deleteDTO.PostID); err != nil {
		log.Error("删除文章失败", zap.Error(err), zap.Uint64("post_id", deleteDTO.PostID))
		return fmt.Errorf("删除文章失败: %w", err)
	}

	log.Info("删除文章成功", zap.Uint64("post_id", deleteDTO.PostID))
	return nil
}
