package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appleboy/strava-relay/internal/core"
	"github.com/appleboy/strava-relay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var _ core.CredentialStore = (*SQLStore)(nil)

// mutableColumns are overwritten together on conflict.
var mutableColumns = []string{
	"display_name",
	"access_token",
	"refresh_token",
	"expires_at",
	"updated_at",
}

// SQLStore is the relational Credential Store (SQLite or PostgreSQL).
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore opens the database and migrates the credentials table.
// AutoMigrate creates the table when absent and adds columns introduced
// after the table was first created (display_name).
func NewSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrStoreIO, driver, err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&models.Credential{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", ErrStoreIO, err)
	}

	return &SQLStore{db: db}, nil
}

// Get returns the credential for athleteID.
func (s *SQLStore) Get(ctx context.Context, athleteID int64) (*models.Credential, bool, error) {
	var cred models.Credential
	err := s.db.WithContext(ctx).Where("athlete_id = ?", athleteID).Take(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get athlete %d: %v", ErrStoreIO, athleteID, err)
	}
	return &cred, true, nil
}

// Upsert writes the record in a single INSERT ... ON CONFLICT statement so the
// token triple is replaced atomically.
func (s *SQLStore) Upsert(ctx context.Context, cred *models.Credential) error {
	if cred == nil || cred.AthleteID <= 0 {
		return ErrInvalidCredential
	}

	now := time.Now().UTC()
	row := *cred
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "athlete_id"}},
			DoUpdates: clause.AssignmentColumns(mutableColumns),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: upsert athlete %d: %v", ErrStoreIO, cred.AthleteID, err)
	}

	cred.UpdatedAt = row.UpdatedAt
	return nil
}

// Health checks the database connection
func (s *SQLStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the underlying GORM database connection
func (s *SQLStore) DB() *gorm.DB {
	return s.db
}
