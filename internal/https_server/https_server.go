// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"kama_address_book/internal/config"
	"kama_address_book/internal/handler"
	"kama_address_book/internal/infrastructure/logger"
	"kama_address_book/internal/infrastructure/middleware"
	"kama_address_book/internal/router"
)

// Init 创建 Gin 引擎
// 配置顺序：
//  1. 创建 Gin 引擎（空白，不含默认中间件）
//  2. 注册日志和恢复中间件
//  3. 配置 CORS 跨域规则
//  4. 按配置启用 TLS 重定向与 JWT 认证
//  5. 注册业务路由
func Init(conf *config.Config, handlers *handler.Handlers) *gin.Engine {
	if conf.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	// 注册自定义 Zap 日志中间件，替代 Gin 默认的日志
	engine.Use(logger.GinLogger())
	// 参数 true 表示在日志中包含堆栈信息
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// 如果由 Nginx 处理 SSL 则关闭
	if conf.TLS {
		engine.Use(middleware.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))
	}

	var auth []gin.HandlerFunc
	if conf.JWTConfig.Secret != "" {
		auth = append(auth, middleware.JWTAuth())
	}

	rt := router.NewRouter(handlers, auth...)
	rt.RegisterRoutes(engine)
	return engine
}
