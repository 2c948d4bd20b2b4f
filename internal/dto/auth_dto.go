package dto

// ============================================================================
// 注册/登录相关 DTO
// ============================================================================

// RegisterDTO 注册请求
type RegisterDTO struct {
	Username        string
	Email           string
	Password        string // 明文密码，只在请求内存在
	ConfirmPassword string
}

// LoginDTO 登录请求
type LoginDTO struct {
	Email    string
	Password string // 明文密码
	Remember bool   // 「记住我」，使用长期Session
}

// LoginResultDTO 登录结果
type LoginResultDTO struct {
	Token    string
	Remember bool
	Profile  *UserProfileDTO
}

// LogoutDTO 登出请求
type LogoutDTO struct {
	Token string
}

// ============================================================================
// Token 验证 DTO
// ============================================================================

// ValidateTokenDTO Token验证请求
type ValidateTokenDTO struct {
	Token string
}
