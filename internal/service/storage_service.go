package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/omidh/sheetgrade/config"
	"github.com/rs/zerolog/log"
)

// StorageProvider abstracts where sheet images end up long-term. The scan
// workers always read from local disk; the provider is for archival and for
// serving corrected images.
type StorageProvider interface {
	UploadFile(ctx context.Context, objectName, localPath, contentType string) (string, error)
	Delete(ctx context.Context, objectName string) error
	GetURL(objectName string) string
}

// LocalStorageProvider keeps everything under one public directory.
type LocalStorageProvider struct {
	cfg config.Storage
}

func (p *LocalStorageProvider) UploadFile(ctx context.Context, objectName, localPath, contentType string) (string, error) {
	dst := filepath.Join(p.cfg.LocalPath, objectName)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	if sameFile(dst, localPath) {
		return p.GetURL(objectName), nil
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, objectName string) error {
	return os.Remove(filepath.Join(p.cfg.LocalPath, objectName))
}

func (p *LocalStorageProvider) GetURL(objectName string) string {
	base := strings.TrimRight(p.cfg.BaseURL, "/")
	return base + "/" + strings.TrimLeft(objectName, "/")
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// MinioStorageProvider archives sheets in an S3-compatible bucket.
type MinioStorageProvider struct {
	cfg    config.Storage
	client *minio.Client
}

func (p *MinioStorageProvider) UploadFile(ctx context.Context, objectName, localPath, contentType string) (string, error) {
	_, err := p.client.FPutObject(ctx, p.cfg.MinioBucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, objectName string) error {
	return p.client.RemoveObject(ctx, p.cfg.MinioBucket, objectName, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(objectName string) string {
	scheme := "http"
	if p.cfg.MinioUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, p.cfg.MinioEndpoint, p.cfg.MinioBucket, objectName)
}

func NewStorageProvider(cfg *config.Config) (StorageProvider, error) {
	switch cfg.Storage.Type {
	case "minio":
		client, err := minio.New(cfg.Storage.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.MinioAccessKey, cfg.Storage.MinioSecretKey, ""),
			Secure: cfg.Storage.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing minio client: %w", err)
		}
		return &MinioStorageProvider{cfg: cfg.Storage, client: client}, nil
	case "local", "":
		return &LocalStorageProvider{cfg: cfg.Storage}, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}

// SheetStorageService lands uploaded sheet images on local disk under
// generated unique names (the workers need a local path) and archives them
// through the configured provider.
type SheetStorageService interface {
	SaveUpload(ctx context.Context, fileHeader *multipart.FileHeader) (SheetImage, error)
}

type sheetStorageService struct {
	uploadDir string
	provider  StorageProvider
}

func NewSheetStorageService(cfg *config.Config, provider StorageProvider) SheetStorageService {
	return &sheetStorageService{uploadDir: cfg.Scan.UploadDir, provider: provider}
}

func (s *sheetStorageService) SaveUpload(ctx context.Context, fileHeader *multipart.FileHeader) (SheetImage, error) {
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return SheetImage{}, fmt.Errorf("creating upload dir: %w", err)
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	// Generated names make concurrent uploads conflict-free.
	uniqueName := uuid.NewString() + ext
	dst := filepath.Join(s.uploadDir, uniqueName)

	src, err := fileHeader.Open()
	if err != nil {
		return SheetImage{}, fmt.Errorf("opening upload %s: %w", fileHeader.Filename, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return SheetImage{}, fmt.Errorf("saving upload %s: %w", fileHeader.Filename, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return SheetImage{}, fmt.Errorf("writing upload %s: %w", fileHeader.Filename, err)
	}

	if _, err := s.provider.UploadFile(ctx, filepath.Join("uploads", "scan", uniqueName), dst, fileHeader.Header.Get("Content-Type")); err != nil {
		// Archival is best-effort; the scan itself runs from the local copy.
		log.Warn().Err(err).Str("file", fileHeader.Filename).Msg("Failed to archive uploaded sheet")
	}

	return SheetImage{Path: dst, OriginalFilename: fileHeader.Filename}, nil
}
