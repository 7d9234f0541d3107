package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"filestore/interfaces/api/handlers"
	"filestore/interfaces/api/middleware"
	"filestore/interfaces/api/routes"
	"filestore/pkg/di"
	"filestore/pkg/logger"
)

func main() {
	container := di.NewContainer()

	if err := container.Initialize(); err != nil {
		// logger อาจยังไม่ init ใช้ panic ไปเลย
		panic("Failed to initialize container: " + err.Error())
	}

	setupGracefulShutdown(container)

	app := fiber.New(fiber.Config{
		ErrorHandler:      middleware.ErrorHandler(),
		AppName:           container.GetConfig().App.Name,
		BodyLimit:         int(container.GetConfig().Storage.MaxUploadSize),
		StreamRequestBody: true,
	})

	// Order matters: request ID ต้องมาก่อน logger
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CorsMiddleware())

	// Local backend serves its own bytes; S3 URLs point at the bucket
	if container.GetConfig().Storage.Type == "local" {
		app.Static("/files", container.GetConfig().Storage.BasePath)
	}

	h := handlers.NewHandlers(container.GetHandlerServices())
	routes.SetupRoutes(app, h)

	port := container.GetConfig().App.Port
	logger.Info("Server starting",
		"port", port,
		"env", container.GetConfig().App.Env,
		"app", container.GetConfig().App.Name,
		"storage", container.GetConfig().Storage.Type,
	)

	if err := app.Listen(":" + port); err != nil {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

func setupGracefulShutdown(container *di.Container) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Gracefully shutting down...")

		if err := container.Cleanup(); err != nil {
			logger.Error("Error during cleanup", "error", err)
		}

		logger.Info("Shutdown complete")
		os.Exit(0)
	}()
}
