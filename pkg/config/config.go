package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	Storage  StorageConfig
	Sweep    SweepConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int    // จำนวน backup files
	MaxAge     int    // วัน
	Compress   bool   // บีบอัด backup
}

type StorageConfig struct {
	Type     string // local, s3
	BasePath string // สำหรับ local: ./uploads
	BaseURL  string // URL สำหรับเข้าถึงไฟล์ local (เช่น http://localhost:8080/files)

	// UploadDirectory คือ prefix หน้าสุดของทุก object key ที่ระบบนี้สร้าง
	UploadDirectory string

	MaxUploadSize int64 // ขนาดสูงสุดที่อัปโหลดผ่าน server ได้ (bytes)

	// Presigned URL lifetimes
	UploadURLTTL   time.Duration // direct upload (default 24h)
	DownloadURLTTL time.Duration // download (default 5m)

	// S3-Compatible Storage (MinIO / Cloudflare R2 / AWS S3)
	S3 S3Config
}

type S3Config struct {
	Endpoint  string // minio:9000 หรือ xxx.r2.cloudflarestorage.com
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool   // false สำหรับ MinIO local, true สำหรับ R2
	Region    string // auto สำหรับ R2
	PublicURL string // URL สำหรับเข้าถึงไฟล์ public (optional)
}

// SweepConfig สำหรับ orphan sweep — เก็บกวาด record ที่ direct upload ไม่เคย complete
type SweepConfig struct {
	Enabled   bool
	CronExpr  string        // cron expression (default ทุกชั่วโมง)
	OlderThan time.Duration // record ต้องเก่ากว่านี้ถึงจะถูกพิจารณา
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		// ไม่ error ถ้าไม่มี .env file (ใช้ environment variables แทน)
	}

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	maxUploadSize, _ := strconv.ParseInt(getEnv("STORAGE_MAX_UPLOAD_SIZE", "104857600"), 10, 64) // 100MB default
	s3UseSSL := getEnv("S3_USE_SSL", "false") == "true"

	config := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "Filestore API"),
			Port: getEnv("APP_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "filestore"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "both"),
			FilePath:   getEnv("LOG_FILE", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		Storage: StorageConfig{
			Type:            getEnv("STORAGE_TYPE", "local"),
			BasePath:        getEnv("STORAGE_BASE_PATH", "./uploads"),
			BaseURL:         getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"),
			UploadDirectory: getEnv("STORAGE_UPLOAD_DIRECTORY", "uploads"),
			MaxUploadSize:   maxUploadSize,
			UploadURLTTL:    getEnvDuration("UPLOAD_URL_TTL", 24*time.Hour),
			DownloadURLTTL:  getEnvDuration("DOWNLOAD_URL_TTL", 5*time.Minute),
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("S3_ACCESS_KEY", "minioadmin"),
				SecretKey: getEnv("S3_SECRET_KEY", "minioadmin"),
				Bucket:    getEnv("S3_BUCKET", "files"),
				UseSSL:    s3UseSSL,
				Region:    getEnv("S3_REGION", "auto"),
				PublicURL: getEnv("S3_PUBLIC_URL", ""),
			},
		},
		Sweep: SweepConfig{
			Enabled:   getEnv("ORPHAN_SWEEP_ENABLED", "false") == "true",
			CronExpr:  getEnv("ORPHAN_SWEEP_CRON", "0 * * * *"),
			OlderThan: getEnvDuration("ORPHAN_SWEEP_OLDER_THAN", 48*time.Hour),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDuration อ่าน duration จาก env (รูปแบบ "24h", "5m")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
