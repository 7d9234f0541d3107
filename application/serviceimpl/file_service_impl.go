package serviceimpl

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"filestore/domain/dto"
	"filestore/domain/models"
	"filestore/domain/ports"
	"filestore/domain/repositories"
	"filestore/domain/services"
	"filestore/pkg/logger"
	"filestore/pkg/utils"
)

// FileServiceImpl is the upload broker: it owns the object key layout,
// the proxy and direct upload flows, and keeps the metadata record in
// step with backend state across create/replace/delete.
type FileServiceImpl struct {
	fileRepo repositories.FileRepository
	storage  ports.StoragePort

	uploadDir      string
	uploadURLTTL   time.Duration
	downloadURLTTL time.Duration
}

type FileServiceConfig struct {
	UploadDirectory string
	UploadURLTTL    time.Duration // default 24h
	DownloadURLTTL  time.Duration // default 5m
}

func NewFileService(fileRepo repositories.FileRepository, storage ports.StoragePort, cfg FileServiceConfig) services.FileService {
	if cfg.UploadURLTTL <= 0 {
		cfg.UploadURLTTL = 24 * time.Hour
	}
	if cfg.DownloadURLTTL <= 0 {
		cfg.DownloadURLTTL = 5 * time.Minute
	}

	return &FileServiceImpl{
		fileRepo:       fileRepo,
		storage:        storage,
		uploadDir:      cfg.UploadDirectory,
		uploadURLTTL:   cfg.UploadURLTTL,
		downloadURLTTL: cfg.DownloadURLTTL,
	}
}

func (s *FileServiceImpl) CreateFromDataURI(ctx context.Context, req dto.ProxyUploadRequest) (*models.File, error) {
	data, err := utils.DecodeDataURI(req.FileData)
	if err != nil {
		logger.WarnContext(ctx, "Rejected malformed data URI", "file_name", req.FileName)
		return nil, err
	}

	fileName, location, err := s.newObjectKey(req.FileName, req.Directory)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Uploading file via proxy", "location", location, "size", len(data))

	if err := s.storage.UploadFile(bytes.NewReader(data), location, req.FileType, visibilityFor(req.Public)); err != nil {
		logger.ErrorContext(ctx, "Failed to upload file to storage", "location", location, "error", err)
		return nil, err
	}

	file := &models.File{
		ID:       uuid.New(),
		FileName: fileName,
		FileType: req.FileType,
		Location: location,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		// record ไม่เกิด ต้องเอา object ที่เพิ่งเขียนออกด้วย
		logger.ErrorContext(ctx, "Failed to save file record, rolling back storage", "location", location, "error", err)
		if delErr := s.storage.DeleteFile(location); delErr != nil {
			logger.WarnContext(ctx, "Rollback delete failed", "location", location, "error", delErr)
		}
		return nil, err
	}

	logger.InfoContext(ctx, "File created via proxy upload", "file_id", file.ID, "location", location)

	return file, nil
}

func (s *FileServiceImpl) CreateDirectUpload(ctx context.Context, req dto.DirectUploadRequest) (*models.File, string, error) {
	fileName, location, err := s.newObjectKey(req.FileName, req.Directory)
	if err != nil {
		return nil, "", err
	}

	// Presign before persisting: an unsupported backend must fail here,
	// leaving no orphan record behind.
	uploadURL, err := s.storage.PresignUpload(location, visibilityFor(req.Public), s.uploadURLTTL)
	if err != nil {
		logger.WarnContext(ctx, "Presigned upload unavailable", "provider", s.storage.GetProviderName(), "error", err)
		return nil, "", err
	}

	file := &models.File{
		ID:       uuid.New(),
		FileName: fileName,
		FileType: req.FileType,
		Location: location,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		logger.ErrorContext(ctx, "Failed to save pending file record", "location", location, "error", err)
		return nil, "", err
	}

	logger.InfoContext(ctx, "Pending file created for direct upload",
		"file_id", file.ID,
		"location", location,
		"url_ttl", s.uploadURLTTL.String(),
	)

	return file, uploadURL, nil
}

func (s *FileServiceImpl) ReplaceFromDataURI(ctx context.Context, id uuid.UUID, req dto.ProxyUploadRequest) (*models.File, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, services.ErrFileNotFound
	}

	data, err := utils.DecodeDataURI(req.FileData)
	if err != nil {
		logger.WarnContext(ctx, "Rejected malformed data URI", "file_id", id)
		return nil, err
	}

	fileName, location, err := s.newObjectKey(req.FileName, req.Directory)
	if err != nil {
		return nil, err
	}

	// Old bytes go first. A crash between here and the new write leaves
	// the record pointing at nothing; accepted window, see DESIGN.md.
	s.deleteObject(ctx, file.Location)

	if err := s.storage.UploadFile(bytes.NewReader(data), location, req.FileType, visibilityFor(req.Public)); err != nil {
		logger.ErrorContext(ctx, "Failed to upload replacement", "file_id", id, "location", location, "error", err)
		return nil, err
	}

	file.FileName = fileName
	file.FileType = req.FileType
	file.Location = location

	if err := s.fileRepo.Save(ctx, file); err != nil {
		logger.ErrorContext(ctx, "Failed to save replaced record, rolling back storage", "file_id", id, "error", err)
		if delErr := s.storage.DeleteFile(location); delErr != nil {
			logger.WarnContext(ctx, "Rollback delete failed", "location", location, "error", delErr)
		}
		return nil, err
	}

	logger.InfoContext(ctx, "File content replaced via proxy upload", "file_id", id, "location", location)

	return file, nil
}

func (s *FileServiceImpl) ReplaceDirectUpload(ctx context.Context, id uuid.UUID, req dto.DirectUploadRequest) (*models.File, string, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", services.ErrFileNotFound
	}

	fileName, location, err := s.newObjectKey(req.FileName, req.Directory)
	if err != nil {
		return nil, "", err
	}

	// Presign before touching the old object: when the backend cannot
	// presign, the record and its bytes must stay intact.
	uploadURL, err := s.storage.PresignUpload(location, visibilityFor(req.Public), s.uploadURLTTL)
	if err != nil {
		logger.WarnContext(ctx, "Presigned upload unavailable", "provider", s.storage.GetProviderName(), "error", err)
		return nil, "", err
	}

	s.deleteObject(ctx, file.Location)

	file.FileName = fileName
	file.FileType = req.FileType
	file.Location = location

	if err := s.fileRepo.Save(ctx, file); err != nil {
		logger.ErrorContext(ctx, "Failed to save replaced record", "file_id", id, "error", err)
		return nil, "", err
	}

	logger.InfoContext(ctx, "File pending direct-upload replacement", "file_id", id, "location", location)

	return file, uploadURL, nil
}

func (s *FileServiceImpl) UpdateTitle(ctx context.Context, id uuid.UUID, title string) (*models.File, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, services.ErrFileNotFound
	}

	file.Title = &title

	if err := s.fileRepo.Save(ctx, file); err != nil {
		logger.ErrorContext(ctx, "Failed to update title", "file_id", id, "error", err)
		return nil, err
	}

	return file, nil
}

func (s *FileServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.File, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, services.ErrFileNotFound
	}
	return file, nil
}

func (s *FileServiceImpl) List(ctx context.Context, search string, page, limit int) ([]*models.File, int64, error) {
	offset := (page - 1) * limit

	files, err := s.fileRepo.Search(ctx, search, offset, limit)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to search files", "search", search, "error", err)
		return nil, 0, err
	}

	count, err := s.fileRepo.CountSearch(ctx, search)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to count files", "search", search, "error", err)
		return nil, 0, err
	}

	return files, count, nil
}

func (s *FileServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return services.ErrFileNotFound
	}

	// Best effort on the bytes; the record goes regardless. A failed
	// object delete leaves garbage in the bucket, never a live record
	// pointing at nothing.
	s.deleteObject(ctx, file.Location)

	if err := s.fileRepo.Delete(ctx, id); err != nil {
		logger.ErrorContext(ctx, "Failed to delete file record", "file_id", id, "error", err)
		return err
	}

	logger.InfoContext(ctx, "File deleted", "file_id", id, "location", file.Location)

	return nil
}

func (s *FileServiceImpl) DownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return "", services.ErrFileNotFound
	}

	url, err := s.storage.PresignDownload(file.Location, true, file.FileName, s.downloadURLTTL)
	if err != nil {
		logger.WarnContext(ctx, "Presigned download unavailable", "file_id", id, "provider", s.storage.GetProviderName(), "error", err)
		return "", err
	}

	return url, nil
}

func (s *FileServiceImpl) SweepOrphans(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	candidates, err := s.fileRepo.ListCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list sweep candidates: %w", err)
	}

	removed := 0
	for _, file := range candidates {
		exists, err := s.storage.FileExists(file.Location)
		if err != nil {
			logger.WarnContext(ctx, "Sweep skipping file, exists check failed", "file_id", file.ID, "error", err)
			continue
		}
		if exists {
			continue
		}

		// Pending record whose client never completed the direct upload
		if err := s.fileRepo.Delete(ctx, file.ID); err != nil {
			logger.WarnContext(ctx, "Sweep failed to delete orphan record", "file_id", file.ID, "error", err)
			continue
		}

		logger.InfoContext(ctx, "Swept orphaned file record", "file_id", file.ID, "location", file.Location)
		removed++
	}

	return removed, nil
}

// newObjectKey sanitizes the client name and derives a fresh unique
// location for it. Every create and replace goes through here, so two
// records can only share a location if uuid collides.
func (s *FileServiceImpl) newObjectKey(rawName, rawDir string) (fileName, location string, err error) {
	fileName = utils.SanitizeFileName(rawName)

	dir := ""
	if rawDir != "" {
		dir, err = utils.ValidateAndSanitizePath(rawDir)
		if err != nil {
			return "", "", fmt.Errorf("invalid directory: %w", err)
		}
	}

	return fileName, utils.BuildObjectKey(s.uploadDir, dir, fileName), nil
}

// deleteObject logs instead of failing; callers treat object deletion
// as fire-and-forget
func (s *FileServiceImpl) deleteObject(ctx context.Context, location string) {
	if location == "" {
		return
	}
	if err := s.storage.DeleteFile(location); err != nil {
		logger.WarnContext(ctx, "Failed to delete object from storage", "location", location, "error", err)
	}
}

func visibilityFor(public bool) ports.Visibility {
	if public {
		return ports.VisibilityPublic
	}
	return ports.VisibilityPrivate
}
