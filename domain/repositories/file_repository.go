package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"filestore/domain/models"
)

type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
	Save(ctx context.Context, file *models.File) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Search filters by case-insensitive substring on file_name or
	// title and orders by file_name
	Search(ctx context.Context, search string, offset, limit int) ([]*models.File, error)
	CountSearch(ctx context.Context, search string) (int64, error)

	// ListCreatedBefore feeds the orphan sweep
	ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]*models.File, error)
}
