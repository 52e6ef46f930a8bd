package database

import (
	"log"
	"time"

	"github.com/leon37/ReceiptLedger/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entities 所有需要建表的实体，测试用的内存库也复用这份列表
var Entities = []interface{}{
	&model.User{},
	&model.UserProfile{},
	&model.Category{},
	&model.Merchant{},
	&model.Receipt{},
	&model.Item{},
	&model.ImportantDate{},
	&model.Rule{},
	&model.ItemSplit{},
	&model.ReceiptSplit{},
	&model.Friend{},
}

func NewMySQLConnection(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info), // 开发阶段显示 SQL 日志
	})
	if err != nil {
		log.Fatalf("Fatal: 无法连接数据库: %v", err)
	}

	// 自动建表 (Auto Migrate)
	if err := db.AutoMigrate(Entities...); err != nil {
		log.Fatalf("Fatal: 数据库迁移失败: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}
