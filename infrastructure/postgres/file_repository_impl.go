package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"filestore/domain/models"
	"filestore/domain/repositories"
)

type FileRepositoryImpl struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) repositories.FileRepository {
	return &FileRepositoryImpl{db: db}
}

func (r *FileRepositoryImpl) Create(ctx context.Context, file *models.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FileRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	var file models.File
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepositoryImpl) Save(ctx context.Context, file *models.File) error {
	// Save writes every column, including a Title set back to NULL
	return r.db.WithContext(ctx).Save(file).Error
}

func (r *FileRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.File{}).Error
}

func (r *FileRepositoryImpl) Search(ctx context.Context, search string, offset, limit int) ([]*models.File, error) {
	var files []*models.File
	err := r.searchQuery(ctx, search).
		Order("file_name").
		Offset(offset).
		Limit(limit).
		Find(&files).Error
	return files, err
}

func (r *FileRepositoryImpl) CountSearch(ctx context.Context, search string) (int64, error) {
	var count int64
	err := r.searchQuery(ctx, search).Count(&count).Error
	return count, err
}

func (r *FileRepositoryImpl) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]*models.File, error) {
	var files []*models.File
	err := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Find(&files).Error
	return files, err
}

// searchQuery: substring match แบบ case-insensitive บน file_name หรือ title
func (r *FileRepositoryImpl) searchQuery(ctx context.Context, search string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.File{})
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("file_name ILIKE ? OR title ILIKE ?", pattern, pattern)
	}
	return q
}
