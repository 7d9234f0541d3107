package routes

import (
	"github.com/gofiber/fiber/v2"

	"filestore/interfaces/api/handlers"
)

func SetupFileRoutes(api fiber.Router, h *handlers.Handlers) {
	files := api.Group("/files")
	files.Get("/", h.FileHandler.ListFiles)
	files.Post("/", h.FileHandler.CreateFile)
	files.Get("/:id", h.FileHandler.GetFile)
	files.Get("/:id/download-url", h.FileHandler.GetDownloadURL)
	files.Put("/:id", h.FileHandler.UpdateFile)
	files.Delete("/:id", h.FileHandler.DeleteFile)
}
