package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filestore/domain/ports"
)

// LocalStorage implements StoragePort สำหรับเก็บไฟล์ใน local filesystem
// Presigned URL ใช้ไม่ได้กับ backend นี้ — direct upload ต้องใช้ S3
type LocalStorage struct {
	basePath string // เส้นทางหลักที่เก็บไฟล์ (เช่น ./uploads)
	baseURL  string // URL สำหรับเข้าถึงไฟล์ (เช่น http://localhost:8080/files)
}

type LocalStorageConfig struct {
	BasePath string
	BaseURL  string
}

// NewLocalStorage สร้าง LocalStorage instance
func NewLocalStorage(config LocalStorageConfig) (ports.StoragePort, error) {
	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: config.BasePath,
		baseURL:  strings.TrimSuffix(config.BaseURL, "/"),
	}, nil
}

// UploadFile เขียนไฟล์ลง filesystem; visibility ไม่มีผลกับ backend นี้
func (l *LocalStorage) UploadFile(file io.Reader, path string, contentType string, visibility ports.Visibility) error {
	fullPath := l.fullPath(path)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		// ลบไฟล์ที่เขียนไม่สำเร็จ
		os.Remove(fullPath)
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// DeleteFile ลบไฟล์; ไฟล์ที่ไม่มีอยู่ถือว่าสำเร็จ
func (l *LocalStorage) DeleteFile(path string) error {
	fullPath := l.fullPath(path)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	l.cleanupEmptyDirs(filepath.Dir(fullPath))

	return nil
}

func (l *LocalStorage) FileExists(path string) (bool, error) {
	_, err := os.Stat(l.fullPath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat file: %w", err)
}

// GetFileURL สร้าง URL สำหรับเข้าถึงไฟล์
func (l *LocalStorage) GetFileURL(path string) string {
	path = normalizePath(path)
	return l.baseURL + "/" + path
}

// PresignUpload: local filesystem ไม่มี presigned URL
func (l *LocalStorage) PresignUpload(path string, visibility ports.Visibility, expiry time.Duration) (string, error) {
	return "", ports.ErrNotSupported
}

// PresignDownload: local filesystem ไม่มี presigned URL
func (l *LocalStorage) PresignDownload(path string, asAttachment bool, filename string, expiry time.Duration) (string, error) {
	return "", ports.ErrNotSupported
}

func (l *LocalStorage) GetProviderName() string {
	return "local"
}

func (l *LocalStorage) fullPath(path string) string {
	return filepath.Join(l.basePath, normalizePath(path))
}

// cleanupEmptyDirs ลบ directory ว่างไล่ขึ้นไปจนถึง basePath
func (l *LocalStorage) cleanupEmptyDirs(dir string) {
	base, err := filepath.Abs(l.basePath)
	if err != nil {
		return
	}

	for {
		abs, err := filepath.Abs(dir)
		if err != nil || abs == base || !strings.HasPrefix(abs, base) {
			return
		}

		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}

		if err := os.Remove(dir); err != nil {
			return
		}

		dir = filepath.Dir(dir)
	}
}

// normalizePath ใช้ forward slash เสมอ ตัด leading slash ออก
func normalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.TrimPrefix(path, "/")
}
