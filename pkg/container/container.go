package container

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/dig"

	"miniblog/config"
	"miniblog/internal/handler"
	"miniblog/internal/repository"
	"miniblog/internal/service"
	"miniblog/pkg/db"
	"miniblog/pkg/redis"
	"miniblog/pkg/render"
)

// Container 全局依赖注入容器
var Container *dig.Container

// Init 初始化依赖注入容器
func Init(cfg *config.Config) error {
	Container = dig.New()

	// 注册配置（供依赖注入使用）
	if err := Container.Provide(func() *config.Config {
		return cfg
	}); err != nil {
		return err
	}

	// 注册所有依赖
	if err := registerProviders(); err != nil {
		return err
	}

	return nil
}

// registerProviders 注册所有提供者
func registerProviders() error {
	providers := []interface{}{
		// 基础设施
		func(cfg *config.Config) (*sqlx.DB, error) {
			return db.InitDB(cfg)
		},
		func(cfg *config.Config) (redis.Client, error) {
			return redis.InitRedis(cfg)
		},
		redis.NewManager,
		func(rm redis.Manager) redis.UserCache {
			return rm.GetUserCache()
		},

		// 仓储层
		repository.NewUserRepository,
		repository.NewPostRepository,

		// 服务层
		service.NewUserService,
		service.NewPostService,

		// 渲染器
		func(rm redis.Manager) *render.Renderer {
			return render.NewRenderer(rm.GetFlash())
		},

		// Handler层
		handler.NewUserHandler,
		handler.NewPostHandler,
	}

	for _, provider := range providers {
		if err := Container.Provide(provider); err != nil {
			return err
		}
	}
	return nil
}

// Invoke 调用函数，自动注入依赖
func Invoke(function interface{}) error {
	return Container.Invoke(function)
}
