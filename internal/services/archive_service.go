package services

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const archiveBucket = "invoices"

// ArchiveService keeps rendered invoice documents in object storage so a
// confirmed invoice's PDF can be re-served without re-rendering.
type ArchiveService interface {
	StoreInvoicePDF(ctx context.Context, companyID uuid.UUID, filename string, pdf []byte) error
	PresignedURL(ctx context.Context, companyID uuid.UUID, filename string, expiry time.Duration) (string, error)
}

type minioArchive struct {
	client *minio.Client
}

func NewArchiveService(endpoint, accessKey, secretKey string, useSSL bool) (ArchiveService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioArchive{client: client}, nil
}

func objectName(companyID uuid.UUID, filename string) string {
	return companyID.String() + "/" + filename
}

func (m *minioArchive) StoreInvoicePDF(ctx context.Context, companyID uuid.UUID, filename string, pdf []byte) error {
	if err := m.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := m.client.PutObject(ctx, archiveBucket, objectName(companyID, filename), bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	return err
}

func (m *minioArchive) PresignedURL(ctx context.Context, companyID uuid.UUID, filename string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, archiveBucket, objectName(companyID, filename), expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioArchive) ensureBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, archiveBucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, archiveBucket, minio.MakeBucketOptions{})
	}
	return nil
}
