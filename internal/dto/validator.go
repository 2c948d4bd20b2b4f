package dto

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// 用户名规则：3-20个字符，字母、数字、下划线
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

	// 邮箱规则：只做语法检查
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ============================================================================
// 字段级验证错误
// ============================================================================

// FieldError 单个字段的验证错误
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors 一次验证产生的全部字段错误
// 作为error返回，handler用errors.As取出并逐字段回显
type ValidationErrors []FieldError

// Error 实现error接口
func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// ByField 转换为字段→消息映射（模板渲染用）
func (v ValidationErrors) ByField() map[string]string {
	m := make(map[string]string, len(v))
	for _, fe := range v {
		// 保留每个字段的第一条错误
		if _, ok := m[fe.Field]; !ok {
			m[fe.Field] = fe.Message
		}
	}
	return m
}

// add 追加一条字段错误
func (v ValidationErrors) add(field, message string) ValidationErrors {
	return append(v, FieldError{Field: field, Message: message})
}

// orNil 没有错误时返回nil，避免非空接口包裹空切片
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// ============================================================================
// 公共字段规则
// ============================================================================

func validateUsername(errs ValidationErrors, username string) ValidationErrors {
	if username == "" {
		return errs.add("username", "用户名不能为空")
	}
	if !usernameRegex.MatchString(username) {
		return errs.add("username", "用户名格式不正确（3-20个字符，仅限字母、数字、下划线）")
	}
	return errs
}

func validateEmail(errs ValidationErrors, email string) ValidationErrors {
	if email == "" {
		return errs.add("email", "邮箱不能为空")
	}
	if len(email) > 120 {
		return errs.add("email", "邮箱长度不能超过120个字符")
	}
	if !emailRegex.MatchString(email) {
		return errs.add("email", "邮箱格式不正确")
	}
	return errs
}

func validatePassword(errs ValidationErrors, password string) ValidationErrors {
	if password == "" {
		return errs.add("password", "密码不能为空")
	}
	if len(password) < 6 {
		return errs.add("password", "密码长度不能少于6位")
	}
	if len(password) > 100 {
		return errs.add("password", "密码长度不能超过100位")
	}
	return errs
}

// ============================================================================
// RegisterDTO 验证
// ============================================================================

// Validate 验证注册DTO
func (d *RegisterDTO) Validate() error {
	var errs ValidationErrors
	errs = validateUsername(errs, d.Username)
	errs = validateEmail(errs, d.Email)
	errs = validatePassword(errs, d.Password)
	if d.ConfirmPassword != d.Password {
		errs = errs.add("confirm_password", "两次输入的密码不一致")
	}
	return errs.orNil()
}

// ============================================================================
// LoginDTO 验证
// ============================================================================

// Validate 验证登录DTO
func (d *LoginDTO) Validate() error {
	var errs ValidationErrors
	errs = validateEmail(errs, d.Email)
	if d.Password == "" {
		errs = errs.add("password", "密码不能为空")
	}
	return errs.orNil()
}

// ============================================================================
// LogoutDTO / ValidateTokenDTO 验证
// ============================================================================

// Validate 验证登出DTO
func (d *LogoutDTO) Validate() error {
	var errs ValidationErrors
	if d.Token == "" {
		errs = errs.add("token", "Token不能为空")
	}
	return errs.orNil()
}

// Validate 验证TokenDTO
func (d *ValidateTokenDTO) Validate() error {
	var errs ValidationErrors
	if d.Token == "" {
		errs = errs.add("token", "Token不能为空")
	}
	return errs.orNil()
}

// ============================================================================
// UpdateAccountDTO 验证
// ============================================================================

// Validate 验证更新账号DTO
func (d *UpdateAccountDTO) Validate() error {
	var errs ValidationErrors
	if d.UserID == 0 {
		errs = errs.add("user_id", "用户ID无效")
	}
	errs = validateUsername(errs, d.Username)
	errs = validateEmail(errs, d.Email)
	return errs.orNil()
}

// ============================================================================
// 文章 DTO 验证
// ============================================================================

func validatePostFields(errs ValidationErrors, title, content string) ValidationErrors {
	if title == "" {
		errs = errs.add("title", "标题不能为空")
	} else if utf8.RuneCountInString(title) > 100 {
		errs = errs.add("title", "标题长度不能超过100个字符")
	}
	if content == "" {
		errs = errs.add("content", "内容不能为空")
	}
	return errs
}

// Validate 验证创建文章DTO
func (d *CreatePostDTO) Validate() error {
	var errs ValidationErrors
	if d.AuthorID == 0 {
		errs = errs.add("author_id", "用户ID无效")
	}
	errs = validatePostFields(errs, d.Title, d.Content)
	return errs.orNil()
}

// Validate 验证更新文章DTO
func (d *UpdatePostDTO) Validate() error {
	var errs ValidationErrors
	if d.PostID == 0 {
		errs = errs.add("post_id", "文章ID无效")
	}
	if d.ActorID == 0 {
		errs = errs.add("actor_id", "用户ID无效")
	}
	errs = validatePostFields(errs, d.Title, d.Content)
	return errs.orNil()
}

// Validate 验证删除文章DTO
func (d *DeletePostDTO) Validate() error {
	var errs ValidationErrors
	if d.PostID == 0 {
		errs = errs.add("post_id", "文章ID无效")
	}
	if d.ActorID == 0 {
		errs = errs.add("actor_id", "用户ID无效")
	}
	return errs.orNil()
}
