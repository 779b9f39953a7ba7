// Package database 负责建立 GORM 连接和自动迁移
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pocket-assistant/internal/config"
	"pocket-assistant/internal/model"
)

// 支持的数据库驱动
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Open 根据配置建立数据库连接
// 参数:
//   - cfg: 数据库配置
//   - mode: 服务运行模式，release 模式下 SQL 日志只输出 Warn 以上
//
// 返回:
//   - *gorm.DB: 已配置连接池的连接
//   - error: 连接失败时返回
func Open(cfg config.DatabaseConfig, mode string) (*gorm.DB, error) {
	level := logger.Info
	if mode == "release" {
		level = logger.Warn
	}
	gormLogger := logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	case DriverMySQL, "":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			cfg.Username,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Database,
			cfg.Charset,
		)
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	// TranslateError 让唯一索引冲突统一返回 gorm.ErrDuplicatedKey
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// SQLite 只允许单写者；内存库每个连接各自独立，必须共用一个连接
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)
	}

	logrus.WithField("driver", dialector.Name()).Info("Database connected successfully")
	return db, nil
}

// Migrate 自动迁移全部数据表
func Migrate(db *gorm.DB) error {
	logrus.Info("Running database migrations...")
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	logrus.Info("Database migrations completed")
	return nil
}

// OpenMemory 打开一个已完成迁移的 SQLite 内存库
// 每次调用得到互相隔离的库，供本地调试和测试使用
func OpenMemory() (*gorm.DB, error) {
	db, err := Open(config.DatabaseConfig{Driver: DriverSQLite, SQLitePath: ":memory:"}, "release")
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
