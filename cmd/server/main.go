package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"miniblog/config"
	"miniblog/internal/handler"
	"miniblog/internal/router"
	"miniblog/internal/service"
	"miniblog/pkg/container"
	"miniblog/pkg/db"
	"miniblog/pkg/render"

	log "miniblog/pkg/logger"
)

var (
	configPath = flag.String("config", "config/config.yaml", "配置文件路径")
)

func main() {
	// 解析命令行参数
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("加载配置失败: " + err.Error())
	}

	// 2. 初始化日志
	logConfig := &log.Config{
		Level:    cfg.Log.Level,
		Output:   cfg.Log.Output,
		FilePath: cfg.Log.FilePath,
	}
	if err := log.Init(logConfig); err != nil {
		panic("初始化日志失败: " + err.Error())
	}
	defer log.Sync()

	log.Info("Blog Server 启动中...")
	log.Info("配置加载成功", zap.String("config_path", *configPath))

	// 3. 初始化雪花ID生成器
	if err := db.InitSnowflake(cfg.Snowflake.MachineID); err != nil {
		log.Fatal("初始化雪花ID生成器失败", zap.Error(err))
	}

	// 4. 初始化依赖注入容器
	if err := container.Init(cfg); err != nil {
		log.Fatal("初始化容器失败", zap.Error(err))
	}
	log.Info("依赖注入容器初始化成功")

	// 5. 从容器获取依赖，构建路由
	var engine *gin.Engine
	err = container.Invoke(func(
		userHandler *handler.UserHandler,
		postHandler *handler.PostHandler,
		userService service.UserService,
		renderer *render.Renderer,
	) {
		engine = router.SetupRouter(cfg, userHandler, postHandler, userService, renderer)
	})
	if err != nil {
		log.Fatal("初始化路由失败", zap.Error(err))
	}
	log.Info("路由初始化成功")

	// 6. 启动 HTTP Server（在 goroutine 中）
	addr := cfg.Server.GetAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	go func() {
		log.Info("Blog Server 启动成功",
			zap.String("addr", addr),
			zap.String("mode", cfg.Server.Mode),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("启动 HTTP Server 失败", zap.Error(err))
		}
	}()

	// 7. 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("收到退出信号，开始优雅关闭...")

	// 8. 优雅关闭 HTTP Server
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("关闭 HTTP Server 失败", zap.Error(err))
	}
	log.Info("Blog Server 已关闭")
}
