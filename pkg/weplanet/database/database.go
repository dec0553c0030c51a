package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/weplanet/weplanet/pkg/weplanet/logging"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

var DB *gorm.DB

// Connect initializes the package level database connection
func Connect(driver, dsn string) error {
	db, err := Open(driver, dsn)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open opens a database for the given driver and configures its pool.
// Unique constraint violations are translated to gorm.ErrDuplicatedKey and
// automatic timestamps are written in UTC.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	log := logging.NewPackageLogger("database")
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger: gormlogger.New(printer{log}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	switch driver {
	case DriverPostgres, DriverMySQL:
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		sqlDB.SetConnMaxIdleTime(1 * time.Minute)
	default:
		// SQLite allows a single writer; one connection also keeps an
		// in-memory database shared by every caller.
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info().Str("driver", driver).Msg("database connected")
	return db, nil
}

// GetDB returns the database instance.
func GetDB() *gorm.DB {
	return DB
}

// printer routes gorm's own log lines through zerolog
type printer struct {
	log zerolog.Logger
}

func (p printer) Printf(format string, args ...interface{}) {
	p.log.Warn().Msgf(format, args...)
}
