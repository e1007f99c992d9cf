// Package mysql 提供好友列表的 MySQL 存储
// 负责建立连接、自动迁移表结构
package mysql

import (
	"fmt"

	"kama_address_book/internal/config"
	"kama_address_book/internal/model"
	"kama_address_book/pkg/errorx"

	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Init 连接数据库并迁移 friend 表
func Init(conf *config.MysqlConfig) (*gorm.DB, error) {
	// 格式：user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.User,
		conf.Password,
		conf.Host,
		conf.Port,
		conf.DatabaseName,
	)

	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeDBError, "连接 MySQL")
	}

	// 只新增表和字段，不会删除已有数据
	if err := db.AutoMigrate(&model.Friend{}); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeDBError, "迁移 friend 表")
	}
	return db, nil
}
