package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// TestLoad 测试加载配置文件
func TestLoad(t *testing.T) {
	cfg, err := Load("config.yaml")
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	// 验证服务器配置
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host 期望 '0.0.0.0', 实际 '%s'", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port 期望 8080, 实际 %d", cfg.Server.Port)
	}
	if cfg.Server.Mode != "development" {
		t.Errorf("Server.Mode 期望 'development', 实际 '%s'", cfg.Server.Mode)
	}

	// 验证数据库配置
	if cfg.Database.Driver != "mysql" {
		t.Errorf("Database.Driver 期望 'mysql', 实际 '%s'", cfg.Database.Driver)
	}
	if cfg.Database.Port != 3306 {
		t.Errorf("Database.Port 期望 3306, 实际 %d", cfg.Database.Port)
	}
	if cfg.Database.Database != "miniblog" {
		t.Errorf("Database.Database 期望 'miniblog', 实际 '%s'", cfg.Database.Database)
	}
	if cfg.Database.MaxOpenConns != 100 {
		t.Errorf("Database.MaxOpenConns 期望 100, 实际 %d", cfg.Database.MaxOpenConns)
	}

	// 验证Redis配置
	if cfg.Redis.Port != 6379 {
		t.Errorf("Redis.Port 期望 6379, 实际 %d", cfg.Redis.Port)
	}
	if cfg.Redis.PoolSize != 10 {
		t.Errorf("Redis.PoolSize 期望 10, 实际 %d", cfg.Redis.PoolSize)
	}

	// 验证雪花ID配置
	if cfg.Snowflake.MachineID != 1 {
		t.Errorf("Snowflake.MachineID 期望 1, 实际 %d", cfg.Snowflake.MachineID)
	}

	// 验证上传配置
	if cfg.Upload.Dir != "web/static/profile_pics" {
		t.Errorf("Upload.Dir 期望 'web/static/profile_pics', 实际 '%s'", cfg.Upload.Dir)
	}
	if cfg.Upload.MaxSizeMB != 5 {
		t.Errorf("Upload.MaxSizeMB 期望 5, 实际 %d", cfg.Upload.MaxSizeMB)
	}
	if len(cfg.Upload.AllowedExt) != 4 {
		t.Errorf("Upload.AllowedExt 期望 4 项, 实际 %d", len(cfg.Upload.AllowedExt))
	}

	// 验证日志配置
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level 期望 'info', 实际 '%s'", cfg.Log.Level)
	}
}

// TestLoadFileNotExist 测试加载不存在的配置文件
func TestLoadFileNotExist(t *testing.T) {
	_, err := Load("not_exist.yaml")
	if err == nil {
		t.Error("期望返回错误，但没有返回")
	}
}

// TestLoadInvalidYAML 测试加载无效的YAML文件
func TestLoadInvalidYAML(t *testing.T) {
	invalidYAML := `
server:
  host: "localhost"
  port: invalid_port  # 这是无效的
`
	tmpFile, err := os.CreateTemp("", "invalid_*.yaml")
	if err != nil {
		t.Fatalf("创建临时文件失败: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(invalidYAML); err != nil {
		t.Fatalf("写入临时文件失败: %v", err)
	}
	tmpFile.Close()

	_, err = Load(tmpFile.Name())
	if err == nil {
		t.Error("期望返回错误，但没有返回")
	}
}

// TestDatabaseGetDSN 测试获取数据库DSN
func TestDatabaseGetDSN(t *testing.T) {
	dbConfig := DatabaseConfig{
		Host:      "127.0.0.1",
		Port:      3306,
		Username:  "root",
		Password:  "root",
		Database:  "miniblog",
		Charset:   "utf8mb4",
		ParseTime: true,
		Loc:       "Local",
	}

	expectedDSN := "root:root@tcp(127.0.0.1:3306)/miniblog?charset=utf8mb4&parseTime=true&loc=Local&clientFoundRows=true"
	actualDSN := dbConfig.GetDSN()

	if actualDSN != expectedDSN {
		t.Errorf("DSN不匹配\n期望: %s\n实际: %s", expectedDSN, actualDSN)
	}
}

// TestDatabaseGetDSNFoundRows 原样重复提交的UPDATE依赖匹配行数语义，
// MySQL DSN必须带clientFoundRows，否则RowsAffected为0会被当成记录不存在
func TestDatabaseGetDSNFoundRows(t *testing.T) {
	dbConfig := DatabaseConfig{Driver: "mysql", Host: "127.0.0.1", Port: 3306, Database: "miniblog"}

	if dsn := dbConfig.GetDSN(); !strings.Contains(dsn, "clientFoundRows=true") {
		t.Errorf("MySQL DSN缺少clientFoundRows=true: %s", dsn)
	}
}

// TestDatabaseGetDSNPostgres 测试PostgreSQL格式的DSN
func TestDatabaseGetDSNPostgres(t *testing.T) {
	dbConfig := DatabaseConfig{
		Driver:   "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Username: "root",
		Password: "root",
		Database: "miniblog",
	}

	expectedDSN := "host=127.0.0.1 port=5432 user=root password=root dbname=miniblog sslmode=disable"
	if actualDSN := dbConfig.GetDSN(); actualDSN != expectedDSN {
		t.Errorf("DSN不匹配\n期望: %s\n实际: %s", expectedDSN, actualDSN)
	}
}

// TestRedisGetAddr 测试获取Redis地址
func TestRedisGetAddr(t *testing.T) {
	redisConfig := RedisConfig{
		Host: "127.0.0.1",
		Port: 6379,
	}

	expectedAddr := "127.0.0.1:6379"
	if actualAddr := redisConfig.GetAddr(); actualAddr != expectedAddr {
		t.Errorf("Redis地址不匹配\n期望: %s\n实际: %s", expectedAddr, actualAddr)
	}
}

// TestRedisGetTimeouts 测试获取Redis超时配置
func TestRedisGetTimeouts(t *testing.T) {
	redisConfig := RedisConfig{
		DialTimeout:  5,
		ReadTimeout:  3,
		WriteTimeout: 3,
	}

	if dialTimeout := redisConfig.GetDialTimeout(); dialTimeout != 5*time.Second {
		t.Errorf("DialTimeout 期望 5s, 实际 %v", dialTimeout)
	}
	if readTimeout := redisConfig.GetReadTimeout(); readTimeout != 3*time.Second {
		t.Errorf("ReadTimeout 期望 3s, 实际 %v", readTimeout)
	}
	if writeTimeout := redisConfig.GetWriteTimeout(); writeTimeout != 3*time.Second {
		t.Errorf("WriteTimeout 期望 3s, 实际 %v", writeTimeout)
	}
}

// TestUploadHelpers 测试上传配置辅助函数
func TestUploadHelpers(t *testing.T) {
	uploadConfig := UploadConfig{
		MaxSizeMB:  5,
		AllowedExt: []string{".jpg", ".png"},
	}

	if maxSize := uploadConfig.GetMaxSize(); maxSize != 5*1024*1024 {
		t.Errorf("MaxSize 期望 %d, 实际 %d", 5*1024*1024, maxSize)
	}
	if !uploadConfig.IsAllowedExt(".jpg") {
		t.Error(".jpg 应该被允许")
	}
	if uploadConfig.IsAllowedExt(".exe") {
		t.Error(".exe 不应该被允许")
	}
}

// TestGetGlobalConfig 测试全局配置
func TestGetGlobalConfig(t *testing.T) {
	// 重置全局配置
	globalConfig = nil

	// 测试未初始化时获取配置应该panic
	defer func() {
		if r := recover(); r == nil {
			t.Error("期望panic，但没有发生")
		}
	}()

	Get()
}

// TestGetHelpers 测试配置辅助函数
func TestGetHelpers(t *testing.T) {
	_, err := Load("config.yaml")
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if dbConfig := GetDatabase(); dbConfig == nil || dbConfig.Database != "miniblog" {
		t.Error("GetDatabase 返回的配置不正确")
	}
	if redisConfig := GetRedis(); redisConfig == nil || redisConfig.Port != 6379 {
		t.Error("GetRedis 返回的配置不正确")
	}
	if snowflakeConfig := GetSnowflake(); snowflakeConfig == nil || snowflakeConfig.MachineID != 1 {
		t.Error("GetSnowflake 返回的配置不正确")
	}
	if uploadConfig := GetUpload(); uploadConfig == nil || uploadConfig.MaxSizeMB != 5 {
		t.Error("GetUpload 返回的配置不正确")
	}
}

// BenchmarkLoad 性能测试：加载配置
func BenchmarkLoad(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Load("config.yaml")
	}
}
