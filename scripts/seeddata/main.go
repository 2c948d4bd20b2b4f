// 测试数据生成工具
// 生成一批测试用户和文章，用于本地开发和压测
//
// 使用方法:
//
//	go run scripts/seeddata/main.go -dsn "root:root@tcp(127.0.0.1:3306)/miniblog?charset=utf8mb4&parseTime=True&loc=Local"
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"
)

// ============================================================================
// 配置常量
// ============================================================================

const (
	TotalUsers      = 100         // 测试用户数量
	PostsPerUser    = 5           // 每个用户的文章数量
	DefaultPassword = "P@ssw0rd!" // 所有测试用户的密码

	DefaultDSN = "root:root@tcp(127.0.0.1:3306)/miniblog?charset=utf8mb4&parseTime=True&loc=Local"
)

// ============================================================================
// 雪花ID生成器（简化版）
// ============================================================================

type SnowflakeGenerator struct {
	mu        sync.Mutex
	machineID int64
	sequence  int64
	lastTime  int64
}

func NewSnowflakeGenerator(machineID int64) *SnowflakeGenerator {
	return &SnowflakeGenerator{machineID: machineID}
}

func (s *SnowflakeGenerator) NextID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	if now == s.lastTime {
		s.sequence++
		if s.sequence > 4095 {
			// 等待下一毫秒
			for now <= s.lastTime {
				now = time.Now().UnixMilli()
			}
			s.sequence = 0
		}
	} else {
		s.sequence = 0
	}

	s.lastTime = now

	// 41 位时间戳 | 10 位机器ID | 12 位序列号
	id := (now << 22) | (s.machineID << 12) | s.sequence
	return uint64(id)
}

// ============================================================================
// 主函数
// ============================================================================

var sampleTitles = []string{
	"今天学到的一点Go并发小技巧",
	"记一次线上故障排查",
	"从零搭建个人博客的踩坑记录",
	"读《设计数据密集型应用》有感",
	"周末随笔",
}

func main() {
	dsn := flag.String("dsn", DefaultDSN, "MySQL 数据源名称")
	flag.Parse()

	fmt.Println("=============================================================================")
	fmt.Println("测试数据生成工具")
	fmt.Println("=============================================================================")
	fmt.Printf("目标: %d 个用户，每人 %d 篇文章\n", TotalUsers, PostsPerUser)

	// 连接数据库
	db, err := sql.Open("mysql", *dsn)
	if err != nil {
		log.Fatalf("连接数据库失败: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("数据库连接测试失败: %v", err)
	}
	fmt.Println("数据库连接成功！")

	// 预先生成密码哈希（所有用户使用相同密码，提高性能）
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("生成密码哈希失败: %v", err)
	}

	snowflake := NewSnowflakeGenerator(999)
	start := time.Now()

	// 事务内批量插入
	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("开始事务失败: %v", err)
	}
	defer tx.Rollback()

	userStmt, err := tx.Prepare(
		`INSERT INTO users (id, username, email, password_hash, image_file) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		log.Fatalf("准备用户插入语句失败: %v", err)
	}
	defer userStmt.Close()

	postStmt, err := tx.Prepare(
		`INSERT INTO posts (id, title, content, user_id) VALUES (?, ?, ?, ?)`)
	if err != nil {
		log.Fatalf("准备文章插入语句失败: %v", err)
	}
	defer postStmt.Close()

	for i := 1; i <= TotalUsers; i++ {
		userID := snowflake.NextID()
		username := fmt.Sprintf("user%04d", i)
		email := fmt.Sprintf("user%04d@example.com", i)

		if _, err := userStmt.Exec(userID, username, email, string(hash), "default.jpg"); err != nil {
			log.Fatalf("插入用户失败: %v", err)
		}

		for j := 0; j < PostsPerUser; j++ {
			title := fmt.Sprintf("%s（%d）", sampleTitles[rand.Intn(len(sampleTitles))], j+1)
			content := fmt.Sprintf("这是 %s 的第 %d 篇测试文章。\n\n正文内容仅用于填充页面。", username, j+1)

			if _, err := postStmt.Exec(snowflake.NextID(), title, content, userID); err != nil {
				log.Fatalf("插入文章失败: %v", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("提交事务失败: %v", err)
	}

	fmt.Printf("完成！用时 %.2f 秒\n", time.Since(start).Seconds())
	fmt.Println("=============================================================================")
	fmt.Println("测试账号示例:")
	fmt.Printf("  邮箱: user0001@example.com ... user%04d@example.com\n", TotalUsers)
	fmt.Printf("  密码: %s\n", DefaultPassword)
	fmt.Println("=============================================================================")
}
