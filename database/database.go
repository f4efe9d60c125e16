package database

import (
	"fmt"
	"time"

	"github.com/lshigami/Learnhub/config"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the configured database. TranslateError is enabled so unique
// violations surface as gorm.ErrDuplicatedKey regardless of driver.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN)
	case "postgres", "":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Database.Host, cfg.Database.User, cfg.Database.Password, cfg.Database.Name, cfg.Database.Port, cfg.Database.SSLMode)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to connect to database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil && cfg.Database.Driver != "sqlite" {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	log.Info().Str("driver", cfg.Database.Driver).Msg("Database connection established")
	return db, nil
}

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&model.Course{},
		&model.CourseModule{},
		&model.Lesson{},
		&model.Enrollment{},
		&model.QuizAttempt{},
		&model.Payment{},
		&model.PaymentEvent{},
		&model.AuditLog{},
		&model.Assignment{},
		&model.Submission{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(Models()...); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
