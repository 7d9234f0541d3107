package serviceimpl

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filestore/domain/dto"
	"filestore/domain/models"
	"filestore/domain/ports"
	"filestore/domain/services"
)

const redPixelDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAIAAACQd1PeAAAADElEQVR4nGP4z8AAAAMBAQDJ/pLvAAAAAElFTkSuQmCC"

// ========== fakes ==========

// fakeStorage keeps objects in a map. canPresign toggles between an
// S3-like backend and a local-like one.
type fakeStorage struct {
	objects    map[string][]byte
	canPresign bool
	uploadErr  error
}

func newFakeStorage(canPresign bool) *fakeStorage {
	return &fakeStorage{
		objects:    make(map[string][]byte),
		canPresign: canPresign,
	}
}

func (f *fakeStorage) UploadFile(file io.Reader, path string, contentType string, visibility ports.Visibility) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	f.objects[path] = data
	return nil
}

func (f *fakeStorage) DeleteFile(path string) error {
	delete(f.objects, path)
	return nil
}

func (f *fakeStorage) FileExists(path string) (bool, error) {
	_, ok := f.objects[path]
	return ok, nil
}

func (f *fakeStorage) GetFileURL(path string) string {
	return "https://cdn.test/" + path
}

func (f *fakeStorage) PresignUpload(path string, visibility ports.Visibility, expiry time.Duration) (string, error) {
	if !f.canPresign {
		return "", ports.ErrNotSupported
	}
	return "https://s3.test/" + path + "?X-Amz-Signature=upload", nil
}

func (f *fakeStorage) PresignDownload(path string, asAttachment bool, filename string, expiry time.Duration) (string, error) {
	if !f.canPresign {
		return "", ports.ErrNotSupported
	}
	url := "https://s3.test/" + path + "?X-Amz-Signature=download"
	if asAttachment {
		url += "&response-content-disposition=attachment;filename=" + filename
	}
	return url, nil
}

func (f *fakeStorage) GetProviderName() string {
	if f.canPresign {
		return "s3"
	}
	return "local"
}

type fakeFileRepo struct {
	files     map[uuid.UUID]*models.File
	createErr error
	saveErr   error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[uuid.UUID]*models.File)}
}

func (r *fakeFileRepo) Create(ctx context.Context, file *models.File) error {
	if r.createErr != nil {
		return r.createErr
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now()
	}
	clone := *file
	r.files[file.ID] = &clone
	return nil
}

func (r *fakeFileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	file, ok := r.files[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	clone := *file
	return &clone, nil
}

func (r *fakeFileRepo) Save(ctx context.Context, file *models.File) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.files[file.ID]; !ok {
		return errors.New("record not found")
	}
	clone := *file
	r.files[file.ID] = &clone
	return nil
}

func (r *fakeFileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.files, id)
	return nil
}

func (r *fakeFileRepo) Search(ctx context.Context, search string, offset, limit int) ([]*models.File, error) {
	var out []*models.File
	for _, f := range r.files {
		if search == "" ||
			strings.Contains(strings.ToLower(f.FileName), strings.ToLower(search)) ||
			(f.Title != nil && strings.Contains(strings.ToLower(*f.Title), strings.ToLower(search))) {
			clone := *f
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	if offset > len(out) {
		offset = len(out)
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *fakeFileRepo) CountSearch(ctx context.Context, search string) (int64, error) {
	files, err := r.Search(ctx, search, 0, len(r.files))
	return int64(len(files)), err
}

func (r *fakeFileRepo) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]*models.File, error) {
	var out []*models.File
	for _, f := range r.files {
		if f.CreatedAt.Before(cutoff) {
			clone := *f
			out = append(out, &clone)
		}
	}
	return out, nil
}

func newTestService(canPresign bool) (services.FileService, *fakeFileRepo, *fakeStorage) {
	repo := newFakeFileRepo()
	storage := newFakeStorage(canPresign)
	svc := NewFileService(repo, storage, FileServiceConfig{UploadDirectory: "uploads"})
	return svc, repo, storage
}

// ========== proxy upload ==========

func TestCreateFromDataURI_StoresObjectAndRecord(t *testing.T) {
	svc, repo, storage := newTestService(true)

	file, err := svc.CreateFromDataURI(context.Background(), dto.ProxyUploadRequest{
		FileName: "cat.png",
		FileType: "image/png",
		FileData: redPixelDataURI,
	})
	require.NoError(t, err)

	assert.Equal(t, "cat.png", file.FileName)
	assert.Equal(t, "image/png", file.FileType)
	assert.True(t, strings.HasPrefix(file.Location, "uploads/"), file.Location)
	assert.True(t, strings.HasSuffix(file.Location, ".png"), file.Location)

	exists, err := storage.FileExists(file.Location)
	require.NoError(t, err)
	assert.True(t, exists)

	stored, err := repo.GetByID(context.Background(), file.ID)
	require.NoError(t, err)
	assert.Equal(t, file.Location, stored.Location)
	assert.Nil(t, stored.Title)
}

func TestCreateFromDataURI_CustomDirectory(t *testing.T) {
	svc, _, _ := newTestService(true)

	file, err := svc.CreateFromDataURI(context.Background(), dto.ProxyUploadRequest{
		FileName:  "cat.png",
		FileType:  "image/png",
		FileData:  redPixelDataURI,
		Directory: "avatars/2024",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.Location, "uploads/avatars/2024/"), file.Location)
}

func TestCreateFromDataURI_MalformedPayload(t *testing.T) {
	svc, repo, storage := newTestService(true)

	_, err := svc.CreateFromDataURI(context.Background(), dto.ProxyUploadRequest{
		FileName: "cat.png",
		FileType: "image/png",
		FileData: "definitely not a data uri",
	})
	require.Error(t, err)

	assert.Empty(t, repo.files)
	assert.Empty(t, storage.objects)
}

func TestCreateFromDataURI_RollsBackObjectWhenPersistFails(t *testing.T) {
	svc, repo, storage := newTestService(true)
	repo.createErr = errors.New("db down")

	_, err := svc.CreateFromDataURI(context.Background(), dto.ProxyUploadRequest{
		FileName: "cat.png",
		FileType: "image/png",
		FileData: redPixelDataURI,
	})
	require.Error(t, err)

	// no record, and the freshly written object was removed again
	assert.Empty(t, repo.files)
	assert.Empty(t, storage.objects)
}

// ========== direct upload ==========

func TestCreateDirectUpload_ReturnsPendingRecordAndURL(t *testing.T) {
	svc, repo, storage := newTestService(true)

	file, uploadURL, err := svc.CreateDirectUpload(context.Background(), dto.DirectUploadRequest{
		FileName: "dog.png",
		FileType: "image/png",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, file.Location)
	assert.NotEmpty(t, uploadURL)
	assert.Contains(t, uploadURL, file.Location)

	// pending: record exists, bytes do not
	_, err = repo.GetByID(context.Background(), file.ID)
	require.NoError(t, err)

	exists, err := storage.FileExists(file.Location)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateDirectUpload_UnsupportedBackendLeavesNoRecord(t *testing.T) {
	svc, repo, _ := newTestService(false)

	_, _, err := svc.CreateDirectUpload(context.Background(), dto.DirectUploadRequest{
		FileName: "dog.png",
		FileType: "image/png",
	})
	assert.ErrorIs(t, err, ports.ErrNotSupported)
	assert.Empty(t, repo.files)
}

// ========== replace ==========

func TestReplaceFromDataURI_RotatesLocation(t *testing.T) {
	svc, _, storage := newTestService(true)

	original, err := svc.CreateFromDataURI(context.Background(), dto.ProxyUploadRequest{
		FileName: "cat.png",
		FileType: "image/png",
		FileData: redPixelDataURI,
	})
	require.NoError(t, err)
	oldLocation := original.Location

	replaced, err := svc.ReplaceFromDataURI(context.Background(), original.ID, dto.ProxyUploadRequest{
		FileName: "dog.jpg",
		FileType: "image/jpeg",
		FileData: redPixelDataURI,
	})
	require.NoError(t, err)

	assert.Equal(t, original.ID, replaced.ID)
	assert.Equal(t, "dog.jpg", replaced.FileName)
	assert.Equal(t, "image/jpeg", replaced.FileType)
	assert.NotEqual(t, oldLocation, replaced.Location)

	oldExists, _ := storage.FileExists(oldLocation)
	assert.False(t, oldExists)

	newExists, _ := storage.FileExists(replaced.Location)
	assert.True(t, newExists)
}

func TestReplaceFromDataURI_PreservesTitle(t *testing.T) {
	svc, _, _ := newTestService(true)

	original, err := svc.CreateFromDataURI(context.Background(), dto.ProxyUploadRequest{
		FileName: "cat.png",
		FileType: "image/png",
		FileData: redPixelDataURI,
	})
	require.NoError(t, err)

	_, err = svc.UpdateTitle(context.Background(), original.ID, "My Cat")
	require.NoError(t, err)

	replaced, err := svc.ReplaceFromDataURI(context.Background(), original.ID, dto.ProxyUploadRequest{
		FileName: "dog.jpg",
		FileType: "image/jpeg",
		FileData: redPixelDataURI,
	})
	require.NoError(t, err)
	assert.Equal(t, "My Cat", replaced.DisplayTitle())
}

func TestReplaceFromDataURI_UnknownID(t *testing.T) {
	svc, _, _ := newTestService(true)

	_, err := svc.ReplaceFromDataURI(context.Background(), uuid.New(), dto.ProxyUploadRequest{
		FileName: "dog.jpg",
		FileType: "image/jpeg",
		FileData: redPixelDataURI,
	})
	assert.ErrorIs(t, err, services.ErrFileNotFound)
}

func TestReplaceDirectUpload_ReturnsNewURL(t *testing.T) {
	svc, _, storage := newTestService(true)

	original, err := svc.CreateFromDataURI(context.Background(), dto.ProxyUploadRequest{
		FileName: "cat.png",
		FileType: "image/png",
		FileData: redPixelDataURI,
	})
	require.NoError(t, err)
	oldLocation := original.Location

	replaced, uploadURL, err := svc.ReplaceDirectUpload(context.Background(), original.ID, dto.DirectUploadRequest{
		FileName: "movie.mp4",
		FileType: "video/mp4",
	})
	require.NoError(t, err)

	assert.Equal(t, original.ID, replaced.ID)
	assert.NotEqual(t, oldLocation, replaced.Location)
	assert.NotEmpty(t, uploadURL)

	// old bytes are gone, new ones have not arrived yet
	oldExists, _ := storage.FileExists(oldLocation)
	assert.False(t, oldExists)
	newExists, _ := storage.FileExists(replaced.Location)
	assert.False(t, newExists)
}

func TestReplaceDirectUpload_UnsupportedBackendKeepsEverything(t *testing.T) {
	svc, repo, storage := newTestService(false)

	original, err := svc.CreateFromDataURI(context.Background(), dto.ProxyUploadRequest{
		FileName: "cat.png",
		FileType: "image/png",
		FileData: redPixelDataURI,
	})
	require.NoError(t, err)

	_, _, err = svc.ReplaceDirectUpload(context.Background(), original.ID, dto.DirectUploadRequest{
		FileName: "movie.mp4",
		FileType: "video/mp4",
	})
	assert.ErrorIs(t, err, ports.ErrNotSupported)

	// record and bytes untouched
	stored, err := repo.GetByID(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, original.Location, stored.Location)

	exists, _ := storage.FileExists(original.Location)
	assert.True(t, exists)
}

// ========== title update ==========

func TestUpdateTitle_DoesNotTouchContent(t *testing.T) {
	svc, _, _ := newTestService(true)

	original, err := svc.CreateFromDataURI(context.Background(), dto.ProxyUploadRequest{
		FileName: "cat.png",
		FileType: "image/png",
		FileData: redPixelDataURI,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTitle(context.Background(), original.ID, "Cat Photo")
	require.NoError(t, err)

	assert.Equal(t, "Cat Photo", updated.DisplayTitle())
	assert.Equal(t, original.FileName, updated.FileName)
	assert.Equal(t, original.Location, updated.Location)
}

// ========== delete ==========

func TestDelete_RemovesRecordAndObject(t *testing.T) {
	svc, _, storage := newTestService(true)

	file, err := svc.CreateFromDataURI(context.Background(), dto.ProxyUploadRequest{
		FileName: "cat.png",
		FileType: "image/png",
		FileData: redPixelDataURI,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), file.ID))

	_, err = svc.Get(context.Background(), file.ID)
	assert.ErrorIs(t, err, services.ErrFileNotFound)

	exists, _ := storage.FileExists(file.Location)
	assert.False(t, exists)
}

func TestDelete_UnknownID(t *testing.T) {
	svc, _, _ := newTestService(true)
	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, services.ErrFileNotFound)
}

// ========== listing ==========

func TestList_FiltersAndOrdersByFileName(t *testing.T) {
	svc, _, _ := newTestService(true)
	ctx := context.Background()

	for _, name := range []string{"zebra.png", "apple.png", "banana.txt"} {
		_, err := svc.CreateFromDataURI(ctx, dto.ProxyUploadRequest{
			FileName: name,
			FileType: "application/octet-stream",
			FileData: redPixelDataURI,
		})
		require.NoError(t, err)
	}

	files, total, err := svc.List(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, "apple.png", files[0].FileName)
	assert.Equal(t, "zebra.png", files[2].FileName)

	files, total, err = svc.List(ctx, "PNG", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, files, 2)
}

// ========== download URL ==========

func TestDownloadURL(t *testing.T) {
	svc, _, _ := newTestService(true)

	file, err := svc.CreateFromDataURI(context.Background(), dto.ProxyUploadRequest{
		FileName: "cat.png",
		FileType: "image/png",
		FileData: redPixelDataURI,
	})
	require.NoError(t, err)

	url, err := svc.DownloadURL(context.Background(), file.ID)
	require.NoError(t, err)
	assert.Contains(t, url, file.Location)
	assert.Contains(t, url, "attachment")
}

func TestDownloadURL_UnsupportedBackend(t *testing.T) {
	svc, _, _ := newTestService(false)

	file, err := svc.CreateFromDataURI(context.Background(), dto.ProxyUploadRequest{
		FileName: "cat.png",
		FileType: "image/png",
		FileData: redPixelDataURI,
	})
	require.NoError(t, err)

	_, err = svc.DownloadURL(context.Background(), file.ID)
	assert.ErrorIs(t, err, ports.ErrNotSupported)
}

// ========== orphan sweep ==========

func TestSweepOrphans(t *testing.T) {
	svc, repo, _ := newTestService(true)
	ctx := context.Background()

	completed, err := svc.CreateFromDataURI(ctx, dto.ProxyUploadRequest{
		FileName: "cat.png",
		FileType: "image/png",
		FileData: redPixelDataURI,
	})
	require.NoError(t, err)

	abandoned, _, err := svc.CreateDirectUpload(ctx, dto.DirectUploadRequest{
		FileName: "dog.png",
		FileType: "image/png",
	})
	require.NoError(t, err)

	fresh, _, err := svc.CreateDirectUpload(ctx, dto.DirectUploadRequest{
		FileName: "bird.png",
		FileType: "image/png",
	})
	require.NoError(t, err)

	// age the first two past the cutoff
	old := time.Now().Add(-72 * time.Hour)
	repo.files[completed.ID].CreatedAt = old
	repo.files[abandoned.ID].CreatedAt = old

	removed, err := svc.SweepOrphans(ctx, 48*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// completed upload and fresh pending record both survive
	_, err = svc.Get(ctx, completed.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, fresh.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, abandoned.ID)
	assert.ErrorIs(t, err, services.ErrFileNotFound)
}
