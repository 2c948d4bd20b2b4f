package dto

// ============================================================================
// 用户信息 DTO
// ============================================================================

// UserProfileDTO 用户公开信息（用于渲染页面）
type UserProfileDTO struct {
	ID        uint64
	Username  string
	Email     string
	ImageFile string
}

// IsEmpty 检查Profile是否为空
func (p *UserProfileDTO) IsEmpty() bool {
	return p == nil || p.ID == 0
}

// ============================================================================
// 操作 DTO
// ============================================================================

// UpdateAccountDTO 更新账号信息
// ImageFile 为空表示本次未上传新头像
type UpdateAccountDTO struct {
	UserID    uint64
	Username  string
	Email     string
	ImageFile string
}
