package dto

import (
	"time"

	"github.com/google/uuid"

	"filestore/domain/models"
	"filestore/domain/ports"
)

// ========== Wire requests ==========

// CreateFileRequest is the POST /files body. Presence of FileData picks
// the upload path: inline data-URI -> proxy upload through this server,
// absent -> presigned direct upload. The handler resolves that choice
// once and calls a distinct service operation; nothing downstream
// sniffs optional fields.
type CreateFileRequest struct {
	FileName  string `json:"file_name" validate:"required,min=1,max=255"`
	FileType  string `json:"file_type" validate:"required,min=1,max=255"`
	FileData  string `json:"file_data" validate:"omitempty"`
	Directory string `json:"directory" validate:"omitempty,max=500"`
	Public    bool   `json:"public"`
}

// UpdateFileRequest is the PUT /files/:id body. A non-empty Title means
// title-only update; otherwise the content is replaced using the same
// proxy/direct split as create. Supplying Title together with replace
// fields is rejected as ambiguous.
type UpdateFileRequest struct {
	Title     string `json:"title" validate:"omitempty,max=255"`
	FileName  string `json:"file_name" validate:"omitempty,min=1,max=255"`
	FileType  string `json:"file_type" validate:"omitempty,min=1,max=255"`
	FileData  string `json:"file_data" validate:"omitempty"`
	Directory string `json:"directory" validate:"omitempty,max=500"`
	Public    bool   `json:"public"`
}

// ========== Service-boundary requests (explicit, no optional sniffing) ==========

// ProxyUploadRequest carries inline content through the server
type ProxyUploadRequest struct {
	FileName  string
	FileType  string
	FileData  string // data-URI payload
	Directory string
	Public    bool
}

// DirectUploadRequest asks for a presigned PUT; no content travels
// through the server
type DirectUploadRequest struct {
	FileName  string
	FileType  string
	Directory string
	Public    bool
}

// ========== Responses ==========

type FileResponse struct {
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"file_name"`
	Title     string    `json:"title"`
	FileType  string    `json:"file_type"`
	Location  string    `json:"location"`
	FullURL   string    `json:"full_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FilePayload struct {
	File *FileResponse `json:"file"`
}

type DirectUploadPayload struct {
	File      *FileResponse `json:"file"`
	UploadURL string        `json:"upload_url"`
}

type DownloadURLPayload struct {
	DownloadURL string `json:"download_url"`
}

type FileListPayload struct {
	Files []FileResponse `json:"files"`
	Meta  any            `json:"meta"`
}

// FileToResponse maps a record to its wire shape. full_url is computed
// here, per read, from the currently configured backend — it is never
// persisted, so a backend switch is reflected immediately.
func FileToResponse(file *models.File, storage ports.StoragePort) *FileResponse {
	if file == nil {
		return nil
	}
	return &FileResponse{
		ID:        file.ID,
		FileName:  file.FileName,
		Title:     file.DisplayTitle(),
		FileType:  file.FileType,
		Location:  file.Location,
		FullURL:   storage.GetFileURL(file.Location),
		CreatedAt: file.CreatedAt,
		UpdatedAt: file.UpdatedAt,
	}
}
