package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/revitawellness/voiceai-hub/internal/domain/entities"
	"github.com/revitawellness/voiceai-hub/pkg/config"
)

// NewSQLiteDB opens the embedded SQLite database using GORM. The connection
// runs with synchronous=FULL so every committed write reaches stable storage
// before the call returns; a crash after a successful store call never loses
// that write.
func NewSQLiteDB(cfg *config.Config) (*gorm.DB, error) {
	dir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000&_foreign_keys=on", cfg.Database.Path)

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.IsDevelopment() {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// SQLite serializes writers itself; a single connection avoids lock
	// contention between them.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("✅ Database ready at %s", cfg.Database.Path)

	return db, nil
}

// AutoMigrate creates the call, transcript, and insight tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.Call{},
		&entities.TranscriptTurn{},
		&entities.Insight{},
	)
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("✅ Database connection closed")
	return nil
}
