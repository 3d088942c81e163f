package config

import (
	"fmt"
	"time"

	"home-flavours/models"

	"github.com/glebarez/sqlite"
	"github.com/romana/rlog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

func dialector(driver, dsn string) gorm.Dialector {
	switch driver {
	case DriverPostgres:
		return postgres.Open(dsn)
	case DriverMySQL:
		return mysql.Open(dsn)
	default:
		return sqlite.Open(dsn)
	}
}

// OpenDB connects to the configured database. Read replicas, when listed,
// are registered with dbresolver so plain reads go to them.
func OpenDB(c DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(c.Driver, c.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", c.Driver, err)
	}

	if len(c.Replicas) > 0 && c.Driver != DriverSQLite {
		replicas := make([]gorm.Dialector, 0, len(c.Replicas))
		for _, dsn := range c.Replicas {
			replicas = append(replicas, dialector(c.Driver, dsn))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("register replicas: %w", err)
		}
		rlog.Infof("Registered %d read replica(s)", len(replicas))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if c.Driver == DriverSQLite {
		// one writer; concurrent connections would hit SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
		sqlDB.SetMaxIdleConns(c.MaxOpenConns / 2)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
