package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/studyclock/internal/models"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var (
	ErrNotFound      = errors.New("not found")
	ErrSessionActive = errors.New("an active session already exists for this subject")
	ErrSessionEnded  = errors.New("session already ended")
	ErrSubjectExists = errors.New("subject already exists")
	ErrInvalid       = errors.New("invalid input")
)

// Store owns the server-side subject and session records
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open sets up the database connection and runs migrations
func Open(dbPath string) (*Store, error) {
	if dbPath != MemoryPath {
		// Ensure the directory exists
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := dbPath
	if dbPath != MemoryPath {
		// concurrent writers wait for the lock instead of failing with SQLITE_BUSY
		dsn += "?_pragma=busy_timeout(5000)&_txlock=immediate"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // Quiet by default
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dbPath == MemoryPath {
		// every pooled connection would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	store := &Store{db: db, now: time.Now}

	if err := store.runMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// DefaultPath returns the path to the SQLite database file
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".studyclock", "studyclock.db"), nil
}

// SetClock replaces the time source used for session timestamps
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// runMigrations creates/updates the database schema
func (s *Store) runMigrations() error {
	if err := s.db.AutoMigrate(
		&models.Subject{},
		&models.StudySession{},
	); err != nil {
		return err
	}

	// at most one open session per subject
	return s.db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_study_sessions_one_active
		ON study_sessions(subject_id) WHERE end_time IS NULL`).Error
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
