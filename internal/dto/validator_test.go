package dto

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// RegisterDTO 验证测试
// ============================================================================

func TestRegisterValidate_Success(t *testing.T) {
	d := &RegisterDTO{
		Username:        "alice_01",
		Email:           "alice@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}

	assert.NoError(t, d.Validate())
}

func TestRegisterValidate_UsernameRules(t *testing.T) {
	cases := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"正常用户名", "alice_01", false},
		{"最短3个字符", "abc", false},
		{"最长20个字符", strings.Repeat("a", 20), false},
		{"空用户名", "", true},
		{"太短", "ab", true},
		{"超过20个字符", strings.Repeat("a", 21), true},
		{"包含非法字符", "alice!", true},
		{"包含空格", "alice bob", true},
		{"包含中文", "爱丽丝", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &RegisterDTO{
				Username:        tc.username,
				Email:           "a@b.com",
				Password:        "secret123",
				ConfirmPassword: "secret123",
			}

			err := d.Validate()
			if tc.wantErr {
				assert.Error(t, err)

				var verrs ValidationErrors
				assert.True(t, errors.As(err, &verrs))
				assert.Contains(t, verrs.ByField(), "username")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterValidate_EmailRules(t *testing.T) {
	cases := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"正常邮箱", "alice@example.com", false},
		{"空邮箱", "", true},
		{"缺少@", "aliceexample.com", true},
		{"缺少域名后缀", "alice@example", true},
		{"包含空格", "alice @example.com", true},
		{"超长邮箱", strings.Repeat("a", 115) + "@ex.com", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &RegisterDTO{
				Username:        "alice",
				Email:           tc.email,
				Password:        "secret123",
				ConfirmPassword: "secret123",
			}

			err := d.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterValidate_PasswordRules(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"正常密码", "secret123", false},
		{"最短6位", "123456", false},
		{"空密码", "", true},
		{"太短", "12345", true},
		{"超过100位", strings.Repeat("x", 101), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &RegisterDTO{
				Username:        "alice",
				Email:           "a@b.com",
				Password:        tc.password,
				ConfirmPassword: tc.password,
			}

			err := d.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterValidate_PasswordMismatch(t *testing.T) {
	d := &RegisterDTO{
		Username:        "alice",
		Email:           "a@b.com",
		Password:        "secret123",
		ConfirmPassword: "different",
	}

	err := d.Validate()
	assert.Error(t, err)

	var verrs ValidationErrors
	assert.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ByField(), "confirm_password")
}

// 一次验证应收集全部字段错误，而不是遇到第一个就返回
func TestRegisterValidate_CollectsAllErrors(t *testing.T) {
	d := &RegisterDTO{
		Username:        "",
		Email:           "bad-email",
		Password:        "123",
		ConfirmPassword: "456",
	}

	err := d.Validate()
	assert.Error(t, err)

	var verrs ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	byField := verrs.ByField()
	assert.Contains(t, byField, "username")
	assert.Contains(t, byField, "email")
	assert.Contains(t, byField, "password")
	assert.Contains(t, byField, "confirm_password")
}

// ============================================================================
// 文章 DTO 验证测试
// ============================================================================

func TestCreatePostValidate_TitleRules(t *testing.T) {
	cases := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"正常标题", "今天天气不错", false},
		{"100个字符", strings.Repeat("字", 100), false},
		{"空标题", "", true},
		{"101个字符", strings.Repeat("字", 101), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &CreatePostDTO{
				AuthorID: 1,
				Title:    tc.title,
				Content:  "内容",
			}

			err := d.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreatePostValidate_EmptyContent(t *testing.T) {
	d := &CreatePostDTO{
		AuthorID: 1,
		Title:    "标题",
		Content:  "",
	}

	err := d.Validate()
	assert.Error(t, err)

	var verrs ValidationErrors
	assert.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ByField(), "content")
}

func TestUpdatePostValidate_MissingIDs(t *testing.T) {
	d := &UpdatePostDTO{
		Title:   "标题",
		Content: "内容",
	}

	err := d.Validate()
	assert.Error(t, err)

	var verrs ValidationErrors
	assert.True(t, errors.As(err, &verrs))
	byField := verrs.ByField()
	assert.Contains(t, byField, "post_id")
	assert.Contains(t, byField, "actor_id")
}

// ============================================================================
// ValidationErrors 行为测试
// ============================================================================

func TestValidationErrors_ByFieldKeepsFirst(t *testing.T) {
	var errs ValidationErrors
	errs = errs.add("email", "第一条")
	errs = errs.add("email", "第二条")

	assert.Equal(t, "第一条", errs.ByField()["email"])
}

func TestValidationErrors_OrNil(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.orNil())

	errs = errs.add("email", "出错了")
	assert.Error(t, errs.orNil())
}

func TestValidationErrors_ErrorMessage(t *testing.T) {
	var errs ValidationErrors
	errs = errs.add("username", "用户名不能为空")
	errs = errs.add("email", "邮箱格式不正确")

	msg := errs.Error()
	assert.Contains(t, msg, "username")
	assert.Contains(t, msg, "邮箱格式不正确")
}
