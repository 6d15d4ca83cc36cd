package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MediaService signs upload/view URLs for profile pictures so the API never
// proxies image bytes.
type MediaService interface {
	ProfilePictureUploadURL(ctx context.Context, accountID uuid.UUID) (string, error)
	ProfilePictureURL(ctx context.Context, accountID uuid.UUID) (string, error)
	EnsureBucketExists(ctx context.Context) error
}

type minioMediaService struct {
	client *minio.Client
	bucket string
}

func NewMediaService(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (MediaService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioMediaService{client: client, bucket: bucket}, nil
}

func (m *minioMediaService) objectName(accountID uuid.UUID) string {
	return fmt.Sprintf("avatars/%s.jpg", accountID.String())
}

func (m *minioMediaService) ProfilePictureUploadURL(ctx context.Context, accountID uuid.UUID) (string, error) {
	u, err := m.client.PresignedPutObject(ctx, m.bucket, m.objectName(accountID), 15*time.Minute)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (m *minioMediaService) ProfilePictureURL(ctx context.Context, accountID uuid.UUID) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, m.objectName(accountID), 24*time.Hour, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (m *minioMediaService) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}
