package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"miniblog/internal/dto"
	"miniblog/internal/model"
	"miniblog/internal/repository"
	"miniblog/pkg/db"
	"miniblog/pkg/redis"

	log "miniblog/pkg/logger"
)

// ============================================================================
// 业务错误定义
// ============================================================================

var (
	// ErrInvalidCredentials 登录失败统一返回同一个错误，
	// 不区分「邮箱不存在」和「密码错误」，避免暴露账号是否存在
	ErrInvalidCredentials  = errors.New("登录失败，请检查邮箱和密码")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrPasswordHashFailed  = errors.New("密码哈希失败")
	ErrSessionCreateFailed = errors.New("创建会话失败")
	ErrInvalidToken        = errors.New("无效的Token")
)

// ============================================================================
// UserService 接口
// ============================================================================

type UserService interface {
	// Register 用户注册（验证通过后哈希密码并落库）
	Register(ctx context.Context, registerDTO *dto.RegisterDTO) (*dto.UserProfileDTO, error)

	// Login 用户登录（建立Session）
	Login(ctx context.Context, loginDTO *dto.LoginDTO) (*dto.LoginResultDTO, error)

	// Logout 用户登出（幂等）
	Logout(ctx context.Context, logoutDTO *dto.LogoutDTO) error

	// GetProfile 获取用户信息（通过Token）
	GetProfile(ctx context.Context, validateDTO *dto.ValidateTokenDTO) (*dto.UserProfileDTO, error)

	// UpdateAccount 更新账号信息（用户名、邮箱，可选头像文件名）
	UpdateAccount(ctx context.Context, updateDTO *dto.UpdateAccountDTO) (*dto.UserProfileDTO, error)
}

// ============================================================================
// userService 实现
// ============================================================================

type userService struct {
	userRepo     repository.UserRepository
	redisManager redis.Manager
}

// NewUserService 创建UserService实例
func NewUserService(userRepo repository.UserRepository, redisManager redis.Manager) UserService {
	return &userService{
		userRepo:     userRepo,
		redisManager: redisManager,
	}
}

// ============================================================================
// Register 注册
// ============================================================================

func (s *userService) Register(ctx context.Context, registerDTO *dto.RegisterDTO) (*dto.UserProfileDTO, error) {
	// 1. 验证DTO
	if err := registerDTO.Validate(); err != nil {
		log.Warn("注册参数验证失败", zap.Error(err), zap.String("username", registerDTO.Username))
		return nil, err
	}

	// 2. 唯一性检查（用户名、邮箱），失败以字段错误回显
	var errs dto.ValidationErrors

	usernameTaken, err := s.userRepo.ExistsByUsername(ctx, registerDTO.Username, 0)
	if err != nil {
		log.Error("检查用户名占用失败", zap.Error(err))
		return nil, fmt.Errorf("检查用户名占用失败: %w", err)
	}
	if usernameTaken {
		errs = append(errs, dto.FieldError{Field: "username", Message: "该用户名已被注册"})
	}

	emailTaken, err := s.userRepo.ExistsByEmail(ctx, registerDTO.Email, 0)
	if err != nil {
		log.Error("检查邮箱占用失败", zap.Error(err))
		return nil, fmt.Errorf("检查邮箱占用失败: %w", err)
	}
	if emailTaken {
		errs = append(errs, dto.FieldError{Field: "email", Message: "该邮箱已被注册"})
	}

	if len(errs) > 0 {
		log.Warn("注册唯一性检查未通过",
			zap.String("username", registerDTO.Username),
			zap.String("email", registerDTO.Email))
		return nil, errs
	}

	// 3. 哈希密码（明文到此为止）
	hash, err := bcrypt.GenerateFromPassword([]byte(registerDTO.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("密码哈希失败", zap.Error(err))
		return nil, ErrPasswordHashFailed
	}

	// 4. 生成ID并落库
	id, err := db.GenerateID()
	if err != nil {
		log.Error("生成用户ID失败", zap.Error(err))
		return nil, fmt.Errorf("生成用户ID失败: %w", err)
	}

	user := &model.User{
		ID:           uint64(id),
		Username:     registerDTO.Username,
		Email:        registerDTO.Email,
		PasswordHash: string(hash),
		ImageFile:    model.DefaultImageFile,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		log.Error("创建用户失败", zap.Error(err), zap.String("username", user.Username))
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	log.Info("用户注册成功",
		zap.Uint64("user_id", user.ID),
		zap.String("username", user.Username))

	return dto.FromUserModel(user), nil
}

// ============================================================================
// Login 登录
// ============================================================================

func (s *userService) Login(ctx context.Context, loginDTO *dto.LoginDTO) (*dto.LoginResultDTO, error) {
	// 1. 验证DTO
	if err := loginDTO.Validate(); err != nil {
		log.Warn("登录参数验证失败", zap.Error(err), zap.String("email", loginDTO.Email))
		return nil, err
	}

	// 2. 按邮箱查询用户（包含password_hash）
	user, err := s.userRepo.GetByEmail(ctx, loginDTO.Email)
	if err != nil {
		log.Error("查询用户失败", zap.Error(err), zap.String("email", loginDTO.Email))
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if user == nil {
		log.Warn("登录邮箱不存在", zap.String("email", loginDTO.Email))
		return nil, ErrInvalidCredentials
	}

	// 3. 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(loginDTO.Password)); err != nil {
		log.Warn("登录密码错误", zap.String("email", loginDTO.Email))
		return nil, ErrInvalidCredentials
	}

	// 4. 创建Session
	token, err := s.redisManager.GetSession().CreateSession(ctx, user.ID, loginDTO.Remember)
	if err != nil {
		log.Error("创建Session失败", zap.Error(err), zap.Uint64("user_id", user.ID))
		return nil, ErrSessionCreateFailed
	}

	log.Info("用户登录成功",
		zap.Uint64("user_id", user.ID),
		zap.Bool("remember", loginDTO.Remember))

	return &dto.LoginResultDTO{
		Token:    token,
		Remember: loginDTO.Remember,
		Profile:  dto.FromUserModel(user),
	}, nil
}

// ============================================================================
// Logout 登出
// ============================================================================

func (s *userService) Logout(ctx context.Context, logoutDTO *dto.LogoutDTO) error {
	// 1. 验证DTO
	if err := logoutDTO.Validate(); err != nil {
		return err
	}

	// 2. 销毁Session（token不存在也返回成功，登出幂等）
	if err := s.redisManager.GetSession().DestroySession(ctx, logoutDTO.Token); err != nil {
		log.Error("销毁Session失败", zap.Error(err))
		return fmt.Errorf("登出失败: %w", err)
	}

	log.Info("用户登出成功")
	return nil
}

// ============================================================================
// GetProfile 获取用户信息
// ============================================================================

func (s *userService) GetProfile(ctx context.Context, validateDTO *dto.ValidateTokenDTO) (*dto.UserProfileDTO, error) {
	// 1. 验证DTO
	if err := validateDTO.Validate(); err != nil {
		return nil, err
	}

	// 2. 验证Token，获取UserID
	userID, err := s.redisManager.GetSession().ValidateSession(ctx, validateDTO.Token)
	if err != nil {
		log.Debug("Token验证失败", zap.Error(err))
		return nil, ErrInvalidToken
	}

	// 3. 从Repository获取用户信息（优先缓存）
	cachedUser, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Error("获取用户信息失败", zap.Error(err), zap.Uint64("user_id", userID))
		return nil, fmt.Errorf("获取用户信息失败: %w", err)
	}
	if cachedUser == nil {
		log.Warn("Session指向的用户不存在", zap.Uint64("user_id", userID))
		return nil, ErrUserNotFound
	}

	return dto.FromCachedUser(cachedUser), nil
}

// ============================================================================
// UpdateAccount 更新账号信息
// ============================================================================

func (s *userService) UpdateAccount(ctx context.Context, updateDTO *dto.UpdateAccountDTO) (*dto.UserProfileDTO, error) {
	// 1. 验证DTO
	if err := updateDTO.Validate(); err != nil {
		log.Warn("更新账号参数验证失败", zap.Error(err), zap.Uint64("user_id", updateDTO.UserID))
		return nil, err
	}

	// 2. 唯一性检查（排除自己）
	var errs dto.ValidationErrors

	usernameTaken, err := s.userRepo.ExistsByUsername(ctx, updateDTO.Username, updateDTO.UserID)
	if err != nil {
		log.Error("检查用户名占用失败", zap.Error(err))
		return nil, fmt.Errorf("检查用户名占用失败: %w", err)
	}
	if usernameTaken {
		errs = append(errs, dto.FieldError{Field: "username", Message: "该用户名已被注册"})
	}

	emailTaken, err := s.userRepo.ExistsByEmail(ctx, updateDTO.Email, updateDTO.UserID)
	if err != nil {
		log.Error("检查邮箱占用失败", zap.Error(err))
		return nil, fmt.Errorf("检查邮箱占用失败: %w", err)
	}
	if emailTaken {
		errs = append(errs, dto.FieldError{Field: "email", Message: "该邮箱已被注册"})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	// 3. 更新用户名和邮箱
	if err := s.userRepo.UpdateProfile(ctx, updateDTO.UserID, updateDTO.Username, updateDTO.Email); err != nil {
		log.Error("更新账号信息失败", zap.Error(err), zap.Uint64("user_id", updateDTO.UserID))
		return nil, fmt.Errorf("更新账号信息失败: %w", err)
	}

	// 4. 本次上传了新头像时替换文件名引用
	// 旧头像文件不删除（已知的磁盘泄漏，见README）
	if updateDTO.ImageFile != "" {
		if err := s.userRepo.UpdateImageFile(ctx, updateDTO.UserID, updateDTO.ImageFile); err != nil {
			log.Error("更新头像失败", zap.Error(err), zap.Uint64("user_id", updateDTO.UserID))
			return nil, fmt.Errorf("更新头像失败: %w", err)
		}
	}

	// 5. 重新查询用户信息
	cachedUser, err := s.userRepo.GetByID(ctx, updateDTO.UserID)
	if err != nil {
		log.Error("更新后查询用户信息失败", zap.Error(err), zap.Uint64("user_id", updateDTO.UserID))
		return nil, fmt.Errorf("更新后查询用户信息失败: %w", err)
	}
	if cachedUser == nil {
		return nil, ErrUserNotFound
	}

	log.Info("更新账号信息成功", zap.Uint64("user_id", updateDTO.UserID))
	return dto.FromCachedUser(cachedUser), nil
}
