// Package storage keeps the original PDF files in S3/MinIO. The
// corpus index only carries extracted text; the binary lives here and
// is removed again when an upload is rolled back.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds S3/MinIO client configuration.
type Config struct {
	Endpoint        string // "localhost:9000" for MinIO
	Bucket          string // "comdoc"
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// Client wraps the MinIO/S3 client for document file operations.
type Client struct {
	minioClient *minio.Client
	bucket      string
}

// New creates a new S3/MinIO client.
func New(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	minioClient, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Client{
		minioClient: minioClient,
		bucket:      config.Bucket,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.minioClient.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	err = c.minioClient.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// ObjectKey returns the bucket key under which a document's PDF is
// stored. It doubles as the archivo_path value on the indexed
// document.
func ObjectKey(documentID string) string {
	return path.Join("documents", documentID+".pdf")
}

// PutPDF writes a PDF under the document's object key.
func (c *Client) PutPDF(ctx context.Context, documentID string, data []byte) error {
	reader := bytes.NewReader(data)

	_, err := c.minioClient.PutObject(ctx, c.bucket, ObjectKey(documentID), reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return fmt.Errorf("failed to put pdf: %w", err)
	}
	return nil
}

// GetPDF reads a document's PDF back.
func (c *Client) GetPDF(ctx context.Context, documentID string) ([]byte, error) {
	object, err := c.minioClient.GetObject(ctx, c.bucket, ObjectKey(documentID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get pdf: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}

	return data, nil
}

// RemovePDF deletes a document's PDF, used when an upload is rolled
// back or a document is removed from the corpus.
func (c *Client) RemovePDF(ctx context.Context, documentID string) error {
	err := c.minioClient.RemoveObject(ctx, c.bucket, ObjectKey(documentID), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove pdf: %w", err)
	}
	return nil
}

// ListPDFs returns the document IDs of all stored PDFs.
func (c *Client) ListPDFs(ctx context.Context) ([]string, error) {
	var ids []string

	objectCh := c.minioClient.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    "documents/",
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		if strings.HasSuffix(object.Key, ".pdf") {
			ids = append(ids, strings.TrimSuffix(path.Base(object.Key), ".pdf"))
		}
	}

	return ids, nil
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}
