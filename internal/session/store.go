// Package session persists the logged-in user across app restarts.
// It replaces ambient global session state with an explicit store
// passed to callers, with a load/save/clear lifecycle.
package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Session struct {
	UserID   int64
	Username string
}

// A single row with id 1 holds the current session.
type record struct {
	ID       uint `gorm:"primaryKey"`
	UserID   int64
	Username string
	SavedAt  time.Time
}

func (record) TableName() string {
	return "session"
}

type Store struct {
	db *gorm.DB
}

func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Load returns nil when no session is persisted.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	var rec record
	err := s.db.WithContext(ctx).First(&rec, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Session{UserID: rec.UserID, Username: rec.Username}, nil
}

func (s *Store) Save(ctx context.Context, sess Session) error {
	rec := record{
		ID:       1,
		UserID:   sess.UserID,
		Username: sess.Username,
		SavedAt:  time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Save(&rec).Error
}

// Clear invalidates the persisted session on logout.
func (s *Store) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Delete(&record{}, "id = ?", 1).Error
}
