package db

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL 驱动

	"miniblog/config"
	log "miniblog/pkg/logger"

	"go.uber.org/zap"
)

// InitDB 初始化数据库连接（使用 sqlx）
func InitDB(cfg *config.Config) (*sqlx.DB, error) {
	log.Info("开始初始化数据库连接",
		zap.String("driver", cfg.Database.Driver),
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.Database),
	)

	var driverName string
	var dsn string

	// 根据驱动类型选择驱动和 DSN
	switch cfg.Database.Driver {
	case "mysql":
		driverName = "mysql"
		dsn = cfg.Database.GetDSN()

	case "postgres", "pgsql":
		driverName = "postgres"
		dsn = cfg.Database.GetDSN()

	default:
		log.Error("不支持的数据库驱动", zap.String("driver", cfg.Database.Driver))
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}

	// 打开数据库连接
	database, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		log.Error("连接数据库失败",
			zap.Error(err),
			zap.String("driver", cfg.Database.Driver),
			zap.String("host", cfg.Database.Host),
		)
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 配置连接池
	database.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	database.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	database.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// 测试连接
	if err := database.Ping(); err != nil {
		log.Error("数据库连接测试失败", zap.Error(err))
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功",
		zap.String("driver", cfg.Database.Driver),
		zap.String("database", cfg.Database.Database),
	)

	return database, nil
}
