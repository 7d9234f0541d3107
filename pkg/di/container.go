package di

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"filestore/application/serviceimpl"
	"filestore/domain/ports"
	"filestore/domain/repositories"
	"filestore/domain/services"
	"filestore/infrastructure/postgres"
	"filestore/infrastructure/storage"
	"filestore/interfaces/api/handlers"
	"filestore/pkg/config"
	"filestore/pkg/logger"
	"filestore/pkg/scheduler"
)

const orphanSweepJobID = "orphan-sweep"

type Container struct {
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	Storage        ports.StoragePort
	EventScheduler scheduler.EventScheduler

	// Repositories
	FileRepository repositories.FileRepository

	// Services
	FileService services.FileService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	c.initRepositories()
	c.initServices()

	if err := c.initSweep(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	return logger.Init(logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	})
}

func (c *Container) initInfrastructure() error {
	db, err := postgres.NewDatabase(postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
	})
	if err != nil {
		return err
	}

	if err := postgres.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	c.DB = db

	// เลือก storage backend ตาม config — ตัวเดียวต่อ process
	switch c.Config.Storage.Type {
	case "s3":
		c.Storage, err = storage.NewS3Storage(storage.S3StorageConfig{
			Endpoint:  c.Config.Storage.S3.Endpoint,
			AccessKey: c.Config.Storage.S3.AccessKey,
			SecretKey: c.Config.Storage.S3.SecretKey,
			Bucket:    c.Config.Storage.S3.Bucket,
			UseSSL:    c.Config.Storage.S3.UseSSL,
			Region:    c.Config.Storage.S3.Region,
			PublicURL: c.Config.Storage.S3.PublicURL,
		})
	default:
		c.Storage, err = storage.NewLocalStorage(storage.LocalStorageConfig{
			BasePath: c.Config.Storage.BasePath,
			BaseURL:  c.Config.Storage.BaseURL,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	logger.Info("Storage backend ready", "provider", c.Storage.GetProviderName())

	return nil
}

func (c *Container) initRepositories() {
	c.FileRepository = postgres.NewFileRepository(c.DB)
}

func (c *Container) initServices() {
	c.FileService = serviceimpl.NewFileService(c.FileRepository, c.Storage, serviceimpl.FileServiceConfig{
		UploadDirectory: c.Config.Storage.UploadDirectory,
		UploadURLTTL:    c.Config.Storage.UploadURLTTL,
		DownloadURLTTL:  c.Config.Storage.DownloadURLTTL,
	})
}

// initSweep ลงทะเบียน orphan sweep ถ้าเปิดใช้
func (c *Container) initSweep() error {
	if !c.Config.Sweep.Enabled {
		return nil
	}

	c.EventScheduler = scheduler.NewEventScheduler()

	olderThan := c.Config.Sweep.OlderThan
	err := c.EventScheduler.AddJob(orphanSweepJobID, c.Config.Sweep.CronExpr, func() {
		removed, err := c.FileService.SweepOrphans(context.Background(), olderThan)
		if err != nil {
			logger.Error("Orphan sweep failed", "error", err)
			return
		}
		if removed > 0 {
			logger.Info("Orphan sweep completed", "removed", removed)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register orphan sweep: %w", err)
	}

	c.EventScheduler.Start()

	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		FileService: c.FileService,
		StoragePort: c.Storage,
	}
}

func (c *Container) Cleanup() error {
	if c.EventScheduler != nil {
		c.EventScheduler.Stop()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			return sqlDB.Close()
		}
	}

	return nil
}
