package database

import (
	"Shopcore/config"
	"Shopcore/models"
	"Shopcore/pkg/log"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 初始化数据库连接
func NewDB(conf *config.Config) *gorm.DB {
	dsn := conf.MySQL.Dsn()
	gormConf := &gorm.Config{}
	if !conf.Debug() {
		gormConf.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(mysql.Open(dsn), gormConf)
	if err != nil {
		log.L.Fatal("failed to connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.L.Fatal("failed to get sql db", zap.Error(err))
	}
	if conf.MySQL.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(conf.MySQL.MaxOpen)
	}
	if conf.MySQL.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(conf.MySQL.MaxIdle)
	}
	log.L.Info("connect database success")
	return db
}

// Migrate 自动建表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
