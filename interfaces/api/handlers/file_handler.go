package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"filestore/domain/dto"
	"filestore/domain/ports"
	"filestore/domain/services"
	"filestore/pkg/logger"
	"filestore/pkg/utils"
)

type FileHandler struct {
	fileService services.FileService
	storage     ports.StoragePort
}

func NewFileHandler(fileService services.FileService, storage ports.StoragePort) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		storage:     storage,
	}
}

// ListFiles handles GET /files with optional search and pagination.
// Matching is case-insensitive substring on file_name or title,
// ordered by file_name.
func (h *FileHandler) ListFiles(c *fiber.Ctx) error {
	ctx := c.UserContext()

	search := c.Query("search")

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return utils.BadRequestResponse(c, "Invalid page parameter")
	}

	limit, err := strconv.Atoi(c.Query("limit", "15"))
	if err != nil || limit < 1 || limit > 100 {
		return utils.BadRequestResponse(c, "Invalid limit parameter")
	}

	files, total, err := h.fileService.List(ctx, search, page, limit)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list files", "error", err)
		return utils.InternalServerErrorResponse(c)
	}

	responses := make([]dto.FileResponse, len(files))
	for i, file := range files {
		responses[i] = *dto.FileToResponse(file, h.storage)
	}

	return utils.SuccessResponse(c, dto.FileListPayload{
		Files: responses,
		Meta:  utils.NewMeta(total, page, limit),
	})
}

// GetFile handles GET /files/:id
func (h *FileHandler) GetFile(c *fiber.Ctx) error {
	ctx := c.UserContext()

	fileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid file ID")
	}

	file, err := h.fileService.Get(ctx, fileID)
	if err != nil {
		return utils.NotFoundResponse(c, "File not found")
	}

	return utils.SuccessResponse(c, dto.FilePayload{File: dto.FileToResponse(file, h.storage)})
}

// CreateFile handles POST /files. An inline file_data payload means
// proxy upload; no payload means the client wants a presigned URL for
// a direct upload.
func (h *FileHandler) CreateFile(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.CreateFileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	if req.FileData == "" {
		file, uploadURL, err := h.fileService.CreateDirectUpload(ctx, dto.DirectUploadRequest{
			FileName:  req.FileName,
			FileType:  req.FileType,
			Directory: req.Directory,
			Public:    req.Public,
		})
		if err != nil {
			return h.uploadErrorResponse(c, err)
		}

		logger.InfoContext(ctx, "Direct upload authorized", "file_id", file.ID)

		return utils.CreatedResponse(c, dto.DirectUploadPayload{
			File:      dto.FileToResponse(file, h.storage),
			UploadURL: uploadURL,
		})
	}

	file, err := h.fileService.CreateFromDataURI(ctx, dto.ProxyUploadRequest{
		FileName:  req.FileName,
		FileType:  req.FileType,
		FileData:  req.FileData,
		Directory: req.Directory,
		Public:    req.Public,
	})
	if err != nil {
		return h.uploadErrorResponse(c, err)
	}

	return utils.CreatedResponse(c, dto.FilePayload{File: dto.FileToResponse(file, h.storage)})
}

// UpdateFile handles PUT /files/:id. The same endpoint serves two
// operations: a body with title updates metadata only; a body without
// title replaces the content, again split proxy/direct on file_data.
func (h *FileHandler) UpdateFile(c *fiber.Ctx) error {
	ctx := c.UserContext()

	fileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid file ID")
	}

	var req dto.UpdateFileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	if req.Title != "" {
		if req.FileData != "" {
			return utils.BadRequestResponse(c, "Cannot combine title with a replacement payload")
		}

		file, err := h.fileService.UpdateTitle(ctx, fileID, req.Title)
		if err != nil {
			return h.uploadErrorResponse(c, err)
		}

		return utils.SuccessResponse(c, dto.FilePayload{File: dto.FileToResponse(file, h.storage)})
	}

	// Content replace requires the same fields as create
	if req.FileName == "" || req.FileType == "" {
		return utils.BadRequestResponse(c, "file_name and file_type are required to replace content")
	}

	if req.FileData == "" {
		file, uploadURL, err := h.fileService.ReplaceDirectUpload(ctx, fileID, dto.DirectUploadRequest{
			FileName:  req.FileName,
			FileType:  req.FileType,
			Directory: req.Directory,
			Public:    req.Public,
		})
		if err != nil {
			return h.uploadErrorResponse(c, err)
		}

		return utils.SuccessResponse(c, dto.DirectUploadPayload{
			File:      dto.FileToResponse(file, h.storage),
			UploadURL: uploadURL,
		})
	}

	file, err := h.fileService.ReplaceFromDataURI(ctx, fileID, dto.ProxyUploadRequest{
		FileName:  req.FileName,
		FileType:  req.FileType,
		FileData:  req.FileData,
		Directory: req.Directory,
		Public:    req.Public,
	})
	if err != nil {
		return h.uploadErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.FilePayload{File: dto.FileToResponse(file, h.storage)})
}

// DeleteFile handles DELETE /files/:id
func (h *FileHandler) DeleteFile(c *fiber.Ctx) error {
	ctx := c.UserContext()

	fileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid file ID")
	}

	if err := h.fileService.Delete(ctx, fileID); err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			return utils.NotFoundResponse(c, "File not found")
		}
		logger.ErrorContext(ctx, "File deletion failed", "file_id", fileID, "error", err)
		return utils.InternalServerErrorResponse(c)
	}

	return utils.SuccessResponse(c, fiber.Map{})
}

// GetDownloadURL handles GET /files/:id/download-url
func (h *FileHandler) GetDownloadURL(c *fiber.Ctx) error {
	ctx := c.UserContext()

	fileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid file ID")
	}

	url, err := h.fileService.DownloadURL(ctx, fileID)
	if err != nil {
		return h.uploadErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.DownloadURLPayload{DownloadURL: url})
}

// uploadErrorResponse maps broker errors onto the envelope
func (h *FileHandler) uploadErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrFileNotFound):
		return utils.NotFoundResponse(c, "File not found")
	case errors.Is(err, ports.ErrNotSupported):
		return utils.UnsupportedBackendResponse(c, "")
	case errors.Is(err, utils.ErrInvalidDataURI),
		errors.Is(err, utils.ErrUnsafePath),
		errors.Is(err, utils.ErrEmptyPath),
		errors.Is(err, utils.ErrPathTooLong):
		return utils.BadRequestResponse(c, err.Error())
	default:
		logger.ErrorContext(c.UserContext(), "Upload operation failed", "error", err)
		return utils.InternalServerErrorResponse(c)
	}
}
