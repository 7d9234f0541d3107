package handlers

import (
	"filestore/domain/ports"
	"filestore/domain/services"
)

// Services contains everything handlers need
type Services struct {
	FileService services.FileService
	StoragePort ports.StoragePort // สำหรับ full_url และ health info
}

// Handlers contains all HTTP handlers
type Handlers struct {
	FileHandler *FileHandler
}

func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		FileHandler: NewFileHandler(services.FileService, services.StoragePort),
	}
}
