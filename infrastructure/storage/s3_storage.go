package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"filestore/domain/ports"
	"filestore/pkg/logger"
)

// S3Storage implements StoragePort สำหรับ S3-Compatible Storage
// (MinIO / Cloudflare R2 / AWS S3) — backend เดียวที่รองรับ presigned URL
type S3Storage struct {
	client    *minio.Client
	bucket    string
	publicURL string // URL สำหรับเข้าถึงไฟล์ public (ถ้ามี)
	endpoint  string
	useSSL    bool
}

type S3StorageConfig struct {
	Endpoint  string // minio:9000 หรือ xxx.r2.cloudflarestorage.com
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	PublicURL string // URL สำหรับเข้าถึงไฟล์ public (optional)
}

// NewS3Storage สร้าง S3Storage instance และตรวจสอบ bucket
func NewS3Storage(config S3StorageConfig) (ports.StoragePort, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
		Region: config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	// สร้าง bucket ถ้ายังไม่มี
	if !exists {
		err = client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{
			Region: config.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("S3 bucket created", "bucket", config.Bucket)
	}

	logger.Info("S3 storage initialized",
		"endpoint", config.Endpoint,
		"bucket", config.Bucket,
		"ssl", config.UseSSL,
	)

	return &S3Storage{
		client:    client,
		bucket:    config.Bucket,
		publicURL: strings.TrimSuffix(config.PublicURL, "/"),
		endpoint:  config.Endpoint,
		useSSL:    config.UseSSL,
	}, nil
}

// UploadFile อัปโหลดไฟล์ไปยัง S3
func (s *S3Storage) UploadFile(file io.Reader, path string, contentType string, visibility ports.Visibility) error {
	ctx := context.Background()
	path = normalizePath(path)

	// ใช้ -1 สำหรับ size เพื่อให้ MinIO stream จนจบ
	_, err := s.client.PutObject(ctx, s.bucket, path, file, -1, minio.PutObjectOptions{
		ContentType: contentType,
		// x-amz-acl ถูกส่งเป็น header ตรง ไม่ใช่ x-amz-meta-
		UserMetadata: map[string]string{"x-amz-acl": aclFor(visibility)},
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	logger.Debug("File uploaded to S3", "path", path, "content_type", contentType, "visibility", visibility)

	return nil
}

// DeleteFile ลบไฟล์จาก S3; key ที่ไม่มีอยู่ถือว่าสำเร็จ (S3 behavior)
func (s *S3Storage) DeleteFile(path string) error {
	ctx := context.Background()
	path = normalizePath(path)

	err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Debug("File deleted from S3", "path", path)
	return nil
}

func (s *S3Storage) FileExists(path string) (bool, error) {
	ctx := context.Background()
	path = normalizePath(path)

	_, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}

	return true, nil
}

// GetFileURL สร้าง URL (ไม่ sign) สำหรับเข้าถึงไฟล์
func (s *S3Storage) GetFileURL(path string) string {
	path = normalizePath(path)

	// ถ้ามี public URL (CDN) ให้ใช้
	if s.publicURL != "" {
		return s.publicURL + "/" + path
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, path)
}

// PresignUpload สร้าง presigned PUT URL สำหรับ direct upload
// object ไม่จำเป็นต้องมีอยู่ก่อน — client เป็นคนเอา bytes มาใส่เอง
func (s *S3Storage) PresignUpload(path string, visibility ports.Visibility, expiry time.Duration) (string, error) {
	path = normalizePath(path)

	// sign x-amz-acl ไปด้วย client ต้องส่ง header นี้ตอน PUT
	extraHeaders := http.Header{}
	extraHeaders.Set("x-amz-acl", aclFor(visibility))

	presignedURL, err := s.client.PresignHeader(context.Background(), http.MethodPut, s.bucket, path, expiry, url.Values{}, extraHeaders)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}

	logger.Debug("Presigned upload URL generated", "path", path, "expiry", expiry)

	return presignedURL.String(), nil
}

// PresignDownload สร้าง presigned GET URL
// asAttachment จะใส่ content-disposition ให้ browser save เป็น filename
func (s *S3Storage) PresignDownload(path string, asAttachment bool, filename string, expiry time.Duration) (string, error) {
	path = normalizePath(path)

	reqParams := make(url.Values)
	if asAttachment {
		reqParams.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}

	presignedURL, err := s.client.PresignedGetObject(context.Background(), s.bucket, path, expiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	logger.Debug("Presigned download URL generated", "path", path, "expiry", expiry)

	return presignedURL.String(), nil
}

func (s *S3Storage) GetProviderName() string {
	return "s3"
}

func aclFor(visibility ports.Visibility) string {
	if visibility == ports.VisibilityPublic {
		return "public-read"
	}
	return "private"
}
