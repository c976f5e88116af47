package minio

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"farmassist-backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient wraps the MinIO client for scan photo storage.
type MinioClient struct {
	client *minio.Client
	config config.MinioConfig
}

// Storage defines the bucket names used by the service.
var Storage = struct {
	ScanPhotos string
}{
	ScanPhotos: "scan-photos",
}

var BucketNames = []string{
	Storage.ScanPhotos,
}

// NewMinioClient initializes the MinIO client and makes sure every bucket
// exists.
func NewMinioClient(cfg config.MinioConfig) (*MinioClient, error) {
	endpoint := strings.TrimPrefix(cfg.MinioURL, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	isSecure, err := strconv.ParseBool(cfg.MinioSecure)
	if err != nil {
		log.Printf("Invalid value for MinIO secure flag: %v. Defaulting to false.", err)
		isSecure = false
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: isSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	mc := &MinioClient{client: client, config: cfg}
	if err := mc.ensureBuckets(context.Background()); err != nil {
		return nil, err
	}
	return mc, nil
}

func (m *MinioClient) ensureBuckets(ctx context.Context) error {
	for _, bucket := range BucketNames {
		exists, err := m.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: m.config.MinioLocation}); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
			log.Printf("Created MinIO bucket: %s", bucket)
		}
	}
	return nil
}

// UploadScanPhoto stores a scan photo and returns its public resource URL.
func (m *MinioClient) UploadScanPhoto(ctx context.Context, userID, scanID string, data []byte, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s/%s", userID, scanID)

	_, err := m.client.PutObject(ctx, Storage.ScanPhotos, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload scan photo: %w", err)
	}

	resourceURL := strings.TrimSuffix(m.config.MinioResourceURL, "/")
	return fmt.Sprintf("%s/%s/%s", resourceURL, Storage.ScanPhotos, objectName), nil
}
