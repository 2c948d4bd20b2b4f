package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"miniblog/internal/model"
	"miniblog/pkg/redis"

	log "miniblog/pkg/logger"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	// GetByEmail 根据邮箱查询用户（用于登录，包含password_hash）
	// 用户不存在时返回 (nil, nil)
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID 根据ID查询用户（优先缓存，返回 CachedUser）
	// 用户不存在时返回 (nil, nil)
	GetByID(ctx context.Context, id uint64) (*redis.CachedUser, error)

	// ExistsByUsername 检查用户名是否已被占用（excludeID排除自己）
	ExistsByUsername(ctx context.Context, username string, excludeID uint64) (bool, error)

	// ExistsByEmail 检查邮箱是否已被占用（excludeID排除自己）
	ExistsByEmail(ctx context.Context, email string, excludeID uint64) (bool, error)

	// Create 创建用户
	Create(ctx context.Context, user *model.User) error

	// UpdateProfile 更新用户名和邮箱
	UpdateProfile(ctx context.Context, id uint64, username, email string) error

	// UpdateImageFile 更新头像文件名
	UpdateImageFile(ctx context.Context, id uint64, imageFile string) error

	// BatchCreate 批量创建用户（用于生成测试数据）
	BatchCreate(ctx context.Context, users []*model.User) error
}

// userRepository 用户仓储实现
type userRepository struct {
	db    *sqlx.DB
	cache redis.UserCache
}

// NewUserRepository 创建用户仓储实例
func NewUserRepository(db *sqlx.DB, cache redis.UserCache) UserRepository {
	return &userRepository{db: db, cache: cache}
}

// GetByEmail 根据邮箱查询用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `SELECT id, username, email, password_hash, image_file, created_at, updated_at
              FROM users WHERE email = ?`

	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// GetByID 根据ID查询用户（缓存读穿）
func (r *userRepository) GetByID(ctx context.Context, id uint64) (*redis.CachedUser, error) {
	// 1. 先查缓存（含负缓存）
	cached, err := r.cache.GetUser(ctx, id)
	switch {
	case err == nil:
		return cached, nil
	case errors.Is(err, redis.ErrUserNotExist):
		// 负缓存命中，不回源
		return nil, nil
	case !errors.Is(err, redis.Nil):
		// 缓存故障降级到数据库
		log.Warn("查询用户缓存失败，回源数据库", zap.Error(err), zap.Uint64("user_id", id))
	}

	// 2. 查数据库
	var user model.User
	query := `SELECT id, username, email, password_hash, image_file, created_at, updated_at
              FROM users WHERE id = ?`

	dbErr := r.db.GetContext(ctx, &user, query, id)
	if dbErr != nil {
		if errors.Is(dbErr, sql.ErrNoRows) {
			// 3. 写负缓存，失败只记日志
			if cacheErr := r.cache.SetNullCache(ctx, id); cacheErr != nil {
				log.Warn("设置负缓存失败", zap.Error(cacheErr), zap.Uint64("user_id", id))
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", dbErr)
	}

	// 4. 回填缓存，失败只记日志
	if cacheErr := r.cache.SetUser(ctx, &user); cacheErr != nil {
		log.Warn("回填用户缓存失败", zap.Error(cacheErr), zap.Uint64("user_id", id))
	}

	return &redis.CachedUser{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		ImageFile: user.ImageFile,
	}, nil
}

// ExistsByUsername 检查用户名是否已被占用
func (r *userRepository) ExistsByUsername(ctx context.Context, username string, excludeID uint64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = ? AND id <> ?)`

	if err := r.db.GetContext(ctx, &exists, query, username, excludeID); err != nil {
		return false, fmt.Errorf("failed to check username exists: %w", err)
	}
	return exists, nil
}

// ExistsByEmail 检查邮箱是否已被占用
func (r *userRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? AND id <> ?)`

	if err := r.db.GetContext(ctx, &exists, query, email, excludeID); err != nil {
		return false, fmt.Errorf("failed to check email exists: %w", err)
	}
	return exists, nil
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, image_file)
              VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash, user.ImageFile)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// UpdateProfile 更新用户名和邮箱
func (r *userRepository) UpdateProfile(ctx context.Context, id uint64, username, email string) error {
	query := `UPDATE users SET username = ?, email = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, username, email, id)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %d", id)
	}

	// 更新后删除缓存，下次读取回源
	if cacheErr := r.cache.DeleteUser(ctx, id); cacheErr != nil {
		log.Warn("删除用户缓存失败", zap.Error(cacheErr), zap.Uint64("user_id", id))
	}

	return nil
}

// UpdateImageFile 更新头像文件名
func (r *userRepository) UpdateImageFile(ctx context.Context, id uint64, imageFile string) error {
	query := `UPDATE users SET image_file = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, imageFile, id)
	if err != nil {
		return fmt.Errorf("failed to update image file: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %d", id)
	}

	if cacheErr := r.cache.DeleteUser(ctx, id); cacheErr != nil {
		log.Warn("删除用户缓存失败", zap.Error(cacheErr), zap.Uint64("user_id", id))
	}

	return nil
}

// BatchCreate 批量创建用户
func (r *userRepository) BatchCreate(ctx context.Context, users []*model.User) error {
	if len(users) == 0 {
		return nil
	}

	// 使用事务批量插入
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO users (id, username, email, password_hash, image_file)
              VALUES (?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, user := range users {
		_, err := stmt.ExecContext(ctx, user.ID, user.Username, user.Email, user.PasswordHash, user.ImageFile)
		if err != nil {
			return fmt.Errorf("failed to insert user %s: %w", user.Username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
