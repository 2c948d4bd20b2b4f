package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"miniblog/internal/model"
)

// PostRepository 文章仓储接口
type PostRepository interface {
	// GetByID 根据ID查询文章
	// 文章不存在时返回 (nil, nil)
	GetByID(ctx context.Context, id uint64) (*model.Post, error)

	// GetWithAuthor 根据ID查询文章（带作者展示字段）
	// 文章不存在时返回 (nil, nil)
	GetWithAuthor(ctx context.Context, id uint64) (*model.PostWithAuthor, error)

	// ListWithAuthor 查询全部文章，按创建时间倒序
	ListWithAuthor(ctx context.Context) ([]*model.PostWithAuthor, error)

	// Create 创建文章
	Create(ctx context.Context, post *model.Post) error

	// Update 更新标题和内容（作者不变）
	Update(ctx context.Context, id uint64, title, content string) error

	// Delete 删除文章
	Delete(ctx context.Context, id uint64) error

	// BatchCreate 批量创建文章（用于生成测试数据）
	BatchCreate(ctx context.Context, posts []*model.Post) error
}

// postRepository 文章仓储实现
type postRepository struct {
	db *sqlx.DB
}

// NewPostRepository 创建文章仓储实例
func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// GetByID 根据ID查询文章
func (r *postRepository) GetByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	query := `SELECT id, title, content, user_id, created_at FROM posts WHERE id = ?`

	err := r.db.GetContext(ctx, &post, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	return &post, nil
}

// GetWithAuthor 根据ID查询文章（带作者展示字段）
func (r *postRepository) GetWithAuthor(ctx context.Context, id uint64) (*model.PostWithAuthor, error) {
	var post model.PostWithAuthor
	query := `SELECT p.id, p.title, p.content, p.user_id, p.created_at,
                     u.username AS author_name, u.image_file AS author_image
              FROM posts p
              JOIN users u ON u.id = p.user_id
              WHERE p.id = ?`

	err := r.db.GetContext(ctx, &post, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post with author: %w", err)
	}

	return &post, nil
}

// ListWithAuthor 查询全部文章
// 首页展示顺序：创建时间倒序，同一时刻按ID倒序（雪花ID按时间递增）
func (r *postRepository) ListWithAuthor(ctx context.Context) ([]*model.PostWithAuthor, error) {
	var posts []*model.PostWithAuthor
	query := `SELECT p.id, p.title, p.content, p.user_id, p.created_at,
                     u.username AS author_name, u.image_file AS author_image
              FROM posts p
              JOIN users u ON u.id = p.user_id
              ORDER BY p.created_at DESC, p.id DESC`

	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

// Create 创建文章
// created_at 由数据库DEFAULT CURRENT_TIMESTAMP设置
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	query := `INSERT INTO posts (id, title, content, user_id) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, post.ID, post.Title, post.Content, post.UserID)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// Update 更新标题和内容
// user_id 不在SET列表里，作者创建后不可变
func (r *postRepository) Update(ctx context.Context, id uint64, title, content string) error {
	query := `UPDATE posts SET title = ?, content = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, title, content, id)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("post not found: %d", id)
	}

	return nil
}

// Delete 删除文章
func (r *postRepository) Delete(ctx context.Context, id uint64) error {
	query := `DELETE FROM posts WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("post not found: %d", id)
	}

	return nil
}

// BatchCreate 批量创建文章
func (r *postRepository) BatchCreate(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO posts (id, title, content, user_id) VALUES (?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, post := range posts {
		_, err := stmt.ExecContext(ctx, post.ID, post.Title, post.Content, post.UserID)
		if err != nil {
			return fmt.Errorf("failed to insert post %q: %w", post.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
