package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kama_address_book/internal/addresses"
	dao "kama_address_book/internal/dao/mysql"
	myredis "kama_address_book/internal/dao/redis"
	"kama_address_book/internal/eventloop"
	ws "kama_address_book/internal/gateway/websocket"
	"kama_address_book/internal/handler"
	"kama_address_book/internal/https_server"
	"kama_address_book/internal/infrastructure/logger"
	"kama_address_book/internal/infrastructure/mq"
	"kama_address_book/internal/listmodel"
	"kama_address_book/internal/registry"
	"kama_address_book/pkg/constants"
	"kama_address_book/pkg/util/jwt"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the contacts list over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	// 1. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.Mode); err != nil {
		log.Printf("init logger failed: %v", err)
		return err
	}
	defer zap.L().Sync()

	// 2. 初始化参数校验翻译和 JWT
	if err := handler.InitTrans(conf.Locale); err != nil {
		zap.L().Error("init validator trans failed", zap.Error(err))
		return err
	}
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry)

	// 3. 好友列表
	friends, cleanup, err := openRegistry()
	if err != nil {
		zap.L().Error("open friend list failed", zap.Error(err))
		return err
	}
	defer cleanup()

	// 4. 模型与通知推送
	policy, err := listmodel.PolicyFromName(conf.InsertPolicy, conf.Locale)
	if err != nil {
		return err
	}
	contacts, err := listmodel.New(friends, listmodel.WithInsertPolicy(policy))
	if err != nil {
		zap.L().Error("load contacts list failed", zap.Error(err))
		return err
	}
	addrs := addresses.New(contacts)
	defer addrs.Close()

	hub := ws.NewHub()
	defer hub.Close()
	contacts.Subscribe(hub.Observer("contacts"))
	addrs.Subscribe(hub.Observer("addresses"))

	// 5. 事件循环，此后只能在循环协程上访问模型
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	loop := eventloop.New(constants.LOOP_QUEUE_SIZE)
	defer loop.Close()
	go loop.Run(ctx)

	// 6. 引擎侧好友事件
	if conf.KafkaConfig.Enabled {
		consumer := mq.NewFriendConsumer(&conf.KafkaConfig, loop, contacts)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				zap.L().Error("friend consumer stopped", zap.Error(err))
			}
		}()
		zap.L().Info("friend consumer started", zap.String("topic", conf.FriendTopic))
	}

	// 7. HTTP 服务
	engine := https_server.Init(conf, handler.NewHandlers(loop, contacts, addrs, hub))
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	zap.L().Info("server started", zap.String("addr", srv.Addr))

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			zap.L().Error("server running fault", zap.Error(err))
			return err
		}
	}

	zap.L().Info("关闭服务器...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// WebSocket 连接被劫持，不受 Shutdown 管理，需先断开
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown error", zap.Error(err))
	}
	zap.L().Info("服务器已关闭")
	return nil
}

// openRegistry 按配置打开好友列表，返回释放资源的函数
func openRegistry() (registry.Registry, func(), error) {
	var (
		friends registry.Registry
		closers []func()
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch conf.Registry {
	case "memory":
		friends = registry.NewMemory(conf.FriendList)
	case "mysql":
		db, err := dao.Init(&conf.MysqlConfig)
		if err != nil {
			return nil, cleanup, err
		}
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, func() { _ = sqlDB.Close() })
		}
		friends = dao.NewFriendList(db, conf.FriendList)
		zap.L().Info("数据库初始化成功")
	default:
		return nil, cleanup, fmt.Errorf("unknown registry backend %q", conf.Registry)
	}

	if conf.RedisMirror {
		cache, err := myredis.Init(&conf.RedisConfig)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() { _ = cache.Close() })
		friends = registry.NewMirrored(friends, cache, conf.FriendList)
		zap.L().Info("Redis 初始化成功")
	}
	return friends, cleanup, nil
}
