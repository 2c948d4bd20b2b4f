package model

import "time"

// DefaultImageFile 默认头像文件名
const DefaultImageFile = "default.jpg"

// User 用户记录
// username/email 数据库层有唯一索引，密码只存bcrypt哈希
type User struct {
	ID           uint64    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	ImageFile    string    `db:"image_file"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
