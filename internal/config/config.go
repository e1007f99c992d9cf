// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库

	"kama_address_book/pkg/constants"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
	Host    string `toml:"host"`    // 服务器监听地址，如 "0.0.0.0"
	Port    int    `toml:"port"`    // 服务器监听端口，如 8000
	Mode    string `toml:"mode"`    // 运行模式："dev" 或 "release"
	TLS     bool   `toml:"tls"`     // 是否启用 HTTPS 重定向
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`         // MySQL 服务器地址
	Port         int    `toml:"port"`         // MySQL 端口，默认 3306
	User         string `toml:"user"`         // 数据库用户名
	Password     string `toml:"password"`     // 数据库密码
	DatabaseName string `toml:"databaseName"` // 数据库名称
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`       // Redis 数据库编号，默认 0
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig 引擎好友事件的 Kafka 配置
type KafkaConfig struct {
	Enabled     bool          `toml:"enabled"`     // 是否订阅引擎事件
	HostPort    string        `toml:"hostPort"`    // Kafka 服务器地址，如 "localhost:9092"
	FriendTopic string        `toml:"friendTopic"` // 好友变更事件主题
	GroupID     string        `toml:"groupId"`     // 消费者组
	Timeout     time.Duration `toml:"timeout"`     // 超时时间（秒）
}

// JWTConfig JWT 认证配置，Secret 为空时不启用认证
type JWTConfig struct {
	Secret            string `toml:"secret"`            // JWT 签名密钥
	AccessTokenExpiry int    `toml:"accessTokenExpiry"` // Access Token 有效期（分钟）
}

// ContactsConfig 联系人列表模型配置
type ContactsConfig struct {
	FriendList   string `toml:"friendList"`   // 好友列表名称
	InsertPolicy string `toml:"insertPolicy"` // 新联系人插入策略："append" 或 "name"
	Registry     string `toml:"registry"`     // 好友列表存储："memory" 或 "mysql"
	RedisMirror  bool   `toml:"redisMirror"`  // 是否在 Redis 中镜像好友成员
	Locale       string `toml:"locale"`       // 参数校验提示语言："zh" 或 "en"
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig     `toml:"mainConfig"`     // 主配置
	MysqlConfig    `toml:"mysqlConfig"`    // MySQL 配置
	RedisConfig    `toml:"redisConfig"`    // Redis 配置
	LogConfig      `toml:"logConfig"`      // 日志配置
	KafkaConfig    `toml:"kafkaConfig"`    // Kafka 配置
	JWTConfig      `toml:"jwtConfig"`      // JWT 配置
	ContactsConfig `toml:"contactsConfig"` // 联系人列表配置
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() error {
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml",
		"../../configs/config.toml",
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// LoadFile 从指定文件加载配置并设为全局配置
func LoadFile(path string) (*Config, error) {
	conf := new(Config)
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	conf.applyDefaults()
	config = conf
	return conf, nil
}

// Decode 从 TOML 文本解析配置并补齐默认值
func Decode(data string) (*Config, error) {
	conf := new(Config)
	if _, err := toml.Decode(data, conf); err != nil {
		return nil, err
	}
	conf.applyDefaults()
	return conf, nil
}

// applyDefaults 补齐未配置的字段
func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = "kama_address_book"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = "0.0.0.0"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.Mode == "" {
		c.Mode = "dev"
	}
	if c.FriendList == "" {
		c.FriendList = constants.DEFAULT_FRIEND_LIST
	}
	if c.InsertPolicy == "" {
		c.InsertPolicy = "append"
	}
	if c.Registry == "" {
		c.Registry = "memory"
	}
	if c.Locale == "" {
		c.Locale = "zh"
	}
	if c.FriendTopic == "" {
		c.FriendTopic = "friend_events"
	}
	if c.GroupID == "" {
		c.GroupID = "address_book"
	}
	if c.KafkaConfig.Timeout == 0 {
		c.KafkaConfig.Timeout = 1
	}
	if c.AccessTokenExpiry == 0 {
		c.AccessTokenExpiry = 60
	}
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig() // 忽略加载错误，使用默认值
		config.applyDefaults()
	}
	return config
}
