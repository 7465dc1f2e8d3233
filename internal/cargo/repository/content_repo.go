package repository

import (
	"context"
	"errors"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentRepository treats site_content as an opaque document store.
type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) Get(ctx context.Context, key string) (*entity.SiteContent, error) {
	var c entity.SiteContent
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Upsert writes the payload with last-write-wins semantics.
func (r *ContentRepository) Upsert(ctx context.Context, key string, payload entity.JSONBArray) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&entity.SiteContent{Key: key, Payload: payload}).Error
}
