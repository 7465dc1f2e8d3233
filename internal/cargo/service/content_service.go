package service

import (
	"context"
	"errors"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/entity"
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/repository"
)

// ContentService exposes the opaque marketing sections blob.
type ContentService struct {
	repo *repository.ContentRepository
}

func NewContentService(repo *repository.ContentRepository) *ContentService {
	return &ContentService{repo: repo}
}

// GetSections returns the stored sections, or an empty list before the first
// write.
func (s *ContentService) GetSections(ctx context.Context) (entity.JSONBArray, error) {
	row, err := s.repo.Get(ctx, entity.ContentKeySections)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return entity.JSONBArray{}, nil
		}
		return nil, err
	}
	if row.Payload == nil {
		return entity.JSONBArray{}, nil
	}
	return row.Payload, nil
}

// SaveSections overwrites the blob, last write wins.
func (s *ContentService) SaveSections(ctx context.Context, sections entity.JSONBArray) error {
	if sections == nil {
		sections = entity.JSONBArray{}
	}
	return s.repo.Upsert(ctx, entity.ContentKeySections, sections)
}
