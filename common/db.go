package common

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"blogcms/config"
	"blogcms/logger"
)

// ConnectDb opens the content database selected by cfg.DBDriver.
func ConnectDb(cfg *config.Config) (*gorm.DB, error) {
	log := logger.Get()

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}

	gormCfg := &gorm.Config{}
	if cfg.Env != "development" && cfg.Env != "dev" {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", cfg.DBDriver, err)
	}

	if cfg.DBDriver == "sqlite" {
		if err := limitSqliteConns(db); err != nil {
			return nil, err
		}
	}

	log.Info().Str("driver", cfg.DBDriver).Msg("database opened")
	return db, nil
}

// OpenSqlite opens a sqlite database at path (":memory:" works) with the
// same connection settings ConnectDb uses.
func OpenSqlite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := limitSqliteConns(db); err != nil {
		return nil, err
	}
	return db, nil
}

// sqlite serialises writers anyway, and an in-memory database only exists
// on the connection that created it.
func limitSqliteConns(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	return nil
}
