package ports

import (
	"errors"
	"io"
	"time"
)

// ErrNotSupported is returned by backends that cannot perform an
// operation — the local filesystem backend has no presigned URLs.
var ErrNotSupported = errors.New("this feature is not supported by the configured storage backend")

// Visibility maps to the backend's ACL model (x-amz-acl on S3,
// no-op on the local filesystem)
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// StoragePort คือ interface หลักสำหรับ storage
// ทำให้เปลี่ยน storage provider ได้ง่าย (Local, MinIO, R2, S3)
type StoragePort interface {
	// UploadFile writes the object at path. Fire-and-forget against the
	// backend: success or error, no transaction.
	UploadFile(file io.Reader, path string, contentType string, visibility Visibility) error

	// DeleteFile removes the object. Deleting a missing object is not
	// an error.
	DeleteFile(path string) error

	// FileExists reports whether an object is present at path
	FileExists(path string) (bool, error)

	// GetFileURL returns the plain (unsigned) URL for the object under
	// the current configuration. Never cached by callers.
	GetFileURL(path string) string

	// PresignUpload returns a time-limited URL granting a direct PUT of
	// the object at path. The object does not need to exist yet; that
	// is the whole point of the direct-upload flow.
	// Returns ErrNotSupported on backends without presigning.
	PresignUpload(path string, visibility Visibility, expiry time.Duration) (string, error)

	// PresignDownload returns a time-limited GET URL. With asAttachment
	// the URL carries a content-disposition hint so browsers save the
	// object under filename instead of the opaque key.
	// Returns ErrNotSupported on backends without presigning.
	PresignDownload(path string, asAttachment bool, filename string, expiry time.Duration) (string, error)

	// GetProviderName ชื่อ provider (local, s3)
	GetProviderName() string
}
