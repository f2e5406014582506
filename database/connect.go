package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/George1161/the-legit-website/config"
	"github.com/George1161/the-legit-website/errs"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	TypePostgres = "postgres"
	TypeSupabase = "supa"
	TypeMemory   = "memory"
)

// DSN builds the connection string for the configured DB_TYPE.
func DSN(c map[string]string) (string, error) {
	dbType := config.GetString(c, "DB_TYPE", TypePostgres)
	switch dbType {
	case TypePostgres:
		dsn := config.GetString(c, "DATABASE_URL", "")
		if dsn == "" {
			return "", fmt.Errorf("DATABASE_URL is required for DB_TYPE=%s", dbType)
		}
		return dsn, nil
	case TypeSupabase:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		), nil
	default:
		return "", fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// Connect opens a gorm connection to PostgreSQL, registers read replicas from
// DATABASE_REPLICA_URLS and verifies the connection.
func Connect(c map[string]string) (*gorm.DB, error) {
	dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Duration(config.GetInt(c, "DB_SLOW_QUERY_MS", 500)) * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDatabaseConnection, err)
	}

	if replicas := config.GetList(c, "DATABASE_REPLICA_URLS"); len(replicas) > 0 {
		dialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, replica := range replicas {
			dialectors = append(dialectors, postgres.New(postgres.Config{DSN: replica, PreferSimpleProtocol: true}))
		}
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: dialectors,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
		zlog.Info().Int("replicas", len(dialectors)).Msg("Read replicas registered")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(config.GetInt(c, "DB_MAX_OPEN_CONNS", 25))
	sqlDB.SetMaxIdleConns(config.GetInt(c, "DB_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("%w: test query: %w", errs.ErrDatabaseConnection, err)
	}

	return db, nil
}
