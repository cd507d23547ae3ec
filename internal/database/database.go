package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"webhook-inbox-go/internal/config"
	"webhook-inbox-go/internal/model"
)

// InitDatabase opens the configured database and creates the messages table if missing
func InitDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialect, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.GetDSN()
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		logrus.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch dialect {
	case config.DialectSQLite:
		if err := ensureDir(dsn); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dialector = sqlite.Open(sqliteDSN(dsn))
	case config.DialectMySQL:
		dialector = mysql.Open(dsn)
	case config.DialectPostgres:
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	if dialect == config.DialectSQLite {
		// sqlite allows one writer; queue writers in the pool instead of failing with SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := ensureSchema(db, dialect); err != nil {
		return nil, err
	}

	logrus.WithField("dialect", dialect).Info("Database initialized successfully")
	return db, nil
}

// mysql and postgres compare strings by locale and ignore case or trailing
// spaces under their default collations. Their tables are declared by hand so
// message_id, from_address and ts compare byte by byte; sqlite already does.
var schemaStatements = map[string][]string{
	config.DialectMySQL: {
		"CREATE TABLE IF NOT EXISTS `messages` (" +
			"`message_id` VARBINARY(3072) NOT NULL," +
			"`from_address` VARBINARY(3072) NOT NULL," +
			"`to_address` VARCHAR(768) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL," +
			"`ts` VARBINARY(3072) NOT NULL," +
			"`text` TEXT CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NULL," +
			"`created_at` VARCHAR(64) NOT NULL," +
			"PRIMARY KEY (`message_id`)," +
			"KEY `idx_messages_from_address` (`from_address`)," +
			"KEY `idx_messages_ts` (`ts`)" +
			") DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin",
	},
	config.DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS messages (` +
			`message_id varchar(768) COLLATE "C" PRIMARY KEY,` +
			`from_address varchar(768) COLLATE "C" NOT NULL,` +
			`to_address varchar(768) NOT NULL,` +
			`ts varchar(768) COLLATE "C" NOT NULL,` +
			`text text,` +
			`created_at varchar(64) NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_from_address ON messages (from_address)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_ts ON messages (ts)`,
	},
}

func ensureSchema(db *gorm.DB, dialect string) error {
	stmts, ok := schemaStatements[dialect]
	if !ok {
		if err := db.AutoMigrate(&model.Message{}); err != nil {
			return fmt.Errorf("failed to create messages table: %w", err)
		}
		return nil
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create messages table: %w", err)
		}
	}
	return nil
}

func ensureDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0755)
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_journal_mode=WAL&_busy_timeout=5000"
}
