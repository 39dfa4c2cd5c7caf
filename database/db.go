// Package database opens the edusite store and provides the generic
// get/list/upsert operations the services are built on.
package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/edusite/edusite/config"
	"github.com/edusite/edusite/database/model"
	"github.com/edusite/edusite/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned when an id does not resolve to a record.
var ErrNotFound = errors.New("record not found")

func initModels(db *gorm.DB) error {
	models := []any{
		&model.User{},
		&model.News{},
		&model.Subject{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			logger.Errorf("Error auto migrating model %T: %v", m, err)
			return err
		}
	}
	return nil
}

// InitDB opens the configured database and migrates the edusite tables.
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if err := cfg.ValidateConfig(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectoryExists(); err != nil {
		return nil, err
	}

	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}

	var dialector gorm.Dialector
	if cfg.IsPostgreSQL() {
		dialector = postgres.Open(cfg.GetDSN())
	} else {
		dialector = sqlite.Open(cfg.GetDSN())
	}

	db, err := gorm.Open(dialector, c)
	if err != nil {
		return nil, err
	}

	if cfg.IsSQLite() {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		for _, pragma := range []string{
			"PRAGMA cache_size = -64000;",
			"PRAGMA temp_store = MEMORY;",
			"PRAGMA busy_timeout = 5000;",
		} {
			if _, err := sqlDB.Exec(pragma); err != nil {
				return nil, fmt.Errorf("%s: %w", pragma, err)
			}
		}
	}

	if err := initModels(db); err != nil {
		return nil, err
	}
	return db, nil
}

// CloseDB checkpoints the WAL (SQLite only) and closes the pool.
func CloseDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if db.Dialector.Name() == "sqlite" {
		if err := db.Exec("PRAGMA wal_checkpoint;").Error; err != nil {
			logger.Warning("error executing checkpoint: ", err)
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsDuplicate reports a unique constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// drivers built without error translation still report the violation in the text
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}
