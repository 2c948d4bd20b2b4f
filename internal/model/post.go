package model

import "time"

// Post 文章记录
// user_id 指向唯一的作者，创建后不再变化
type Post struct {
	ID        uint64    `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	UserID    uint64    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// PostWithAuthor 列表/详情页用的文章+作者信息
type PostWithAuthor struct {
	Post
	AuthorName  string `db:"author_name"`
	AuthorImage string `db:"author_image"`
}
