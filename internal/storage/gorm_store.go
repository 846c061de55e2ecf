package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentRecord is a stored blob row. The value stays an opaque JSON blob;
// the database is a key-value surface, not a relational model of the entities.
type DocumentRecord struct {
	Key       string `gorm:"primarykey;type:varchar(255)"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (DocumentRecord) TableName() string {
	return "documents"
}

// GormStore keeps blobs in a documents table.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewGormStore(db *gorm.DB, logger *zap.Logger) *GormStore {
	return &GormStore{db: db, logger: logger}
}

func (s *GormStore) Load(key string, v any) (bool, error) {
	var rec DocumentRecord
	if err := s.db.First(&rec, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(rec.Value, v); err != nil {
		s.logger.Warn("discarding unparseable blob", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (s *GormStore) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}

	rec := DocumentRecord{Key: key, Value: data, UpdatedAt: time.Now()}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Delete(key string) error {
	if err := s.db.Delete(&DocumentRecord{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
