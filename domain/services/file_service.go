package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"filestore/domain/dto"
	"filestore/domain/models"
)

// ErrFileNotFound is returned when a file id resolves to no record
var ErrFileNotFound = errors.New("file not found")

// FileService is the upload broker. Proxy vs direct is decided by the
// caller picking the operation; each operation does exactly one thing.
type FileService interface {
	// CreateFromDataURI uploads inline content through the server, then
	// persists the record. All-or-nothing from the caller's view.
	CreateFromDataURI(ctx context.Context, req dto.ProxyUploadRequest) (*models.File, error)

	// CreateDirectUpload pre-assigns a location, persists a pending
	// record, and returns it with a presigned PUT URL. When the backend
	// cannot presign it fails with ports.ErrNotSupported before
	// anything is persisted.
	CreateDirectUpload(ctx context.Context, req dto.DirectUploadRequest) (*models.File, string, error)

	// ReplaceFromDataURI / ReplaceDirectUpload delete the old object
	// and run the matching create flow against the same record identity
	ReplaceFromDataURI(ctx context.Context, id uuid.UUID, req dto.ProxyUploadRequest) (*models.File, error)
	ReplaceDirectUpload(ctx context.Context, id uuid.UUID, req dto.DirectUploadRequest) (*models.File, string, error)

	// UpdateTitle is pure metadata; storage is never touched
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) (*models.File, error)

	Get(ctx context.Context, id uuid.UUID) (*models.File, error)
	List(ctx context.Context, search string, page, limit int) ([]*models.File, int64, error)

	// Delete removes the backing object (best effort) then the record
	Delete(ctx context.Context, id uuid.UUID) error

	// DownloadURL returns a presigned GET with an attachment
	// content-disposition carrying the display file name
	DownloadURL(ctx context.Context, id uuid.UUID) (string, error)

	// SweepOrphans deletes records older than olderThan whose location
	// has no backing object, i.e. direct uploads the client abandoned.
	// Returns the number of records removed.
	SweepOrphans(ctx context.Context, olderThan time.Duration) (int, error)
}
