// Package storage provides object storage implementations for rendered
// invoice documents.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	infraconfig "github.com/facture/backend/internal/infrastructure/config"
	"github.com/facture/backend/internal/infrastructure/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ensure S3ArtifactStore implements ArtifactStore
var _ render.ArtifactStore = (*S3ArtifactStore)(nil)

// S3ArtifactStore archives rendered invoices in S3-compatible object
// storage (AWS S3, RustFS, MinIO, etc.). Objects are keyed by year/month
// so retention jobs can prune whole prefixes.
type S3ArtifactStore struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3ArtifactStoreOption is a functional option for configuring S3ArtifactStore
type S3ArtifactStoreOption func(*S3ArtifactStore)

// WithLogger sets a custom logger for S3ArtifactStore
func WithLogger(logger *zap.Logger) S3ArtifactStoreOption {
	return func(s *S3ArtifactStore) {
		s.logger = logger
	}
}

// WithPresignExpiration sets how long generated download URLs stay valid
func WithPresignExpiration(d time.Duration) S3ArtifactStoreOption {
	return func(s *S3ArtifactStore) {
		s.presignExpiration = d
	}
}

// NewS3ArtifactStore creates a new S3ArtifactStore from configuration.
// It supports any S3-compatible storage backend.
func NewS3ArtifactStore(cfg *infraconfig.StorageConfig, opts ...S3ArtifactStoreOption) (*S3ArtifactStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}

	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	// Build endpoint URL
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000" // MinIO default
	}

	// Ensure endpoint has protocol
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}

	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"", // session token (not used for static credentials)
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	store := &S3ArtifactStore{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		presignExpiration: 15 * time.Minute,
		logger:            zap.NewNop(),
	}

	for _, opt := range opts {
		opt(store)
	}

	return store, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup so the first render doesn't fail.
func (s *S3ArtifactStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating artifact bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Ignore "BucketAlreadyOwnedByYou" error (race condition)
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.logger.Info("Artifact bucket created", zap.String("bucket", s.bucket))
	return nil
}

// Store uploads a rendered document under a year/month partitioned key
func (s *S3ArtifactStore) Store(ctx context.Context, req *render.StoreRequest) (*render.StoreResult, error) {
	if req == nil || len(req.Data) == 0 {
		return nil, render.NewRenderError(render.ErrCodeStorageFailed, "no artifact data to store", nil)
	}

	now := time.Now()
	key := path.Join(
		now.Format("2006"),
		now.Format("01"),
		uuid.NewString()+"-"+render.SuggestedFilename(req.InvoiceNumber, req.Backend.Extension()),
	)

	contentType := req.ContentType
	if contentType == "" {
		contentType = req.Backend.MIMEType()
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(req.Data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, render.NewRenderError(render.ErrCodeStorageFailed, "failed to upload artifact", err)
	}

	downloadURL, err := s.downloadURL(ctx, key)
	if err != nil {
		// The object is stored; a presign failure only costs the caller
		// the convenience link.
		s.logger.Warn("failed to presign artifact URL",
			zap.String("key", key), zap.Error(err))
		downloadURL = ""
	}

	return &render.StoreResult{
		Path: key,
		URL:  downloadURL,
		Size: int64(len(req.Data)),
	}, nil
}

// Get retrieves an archived document by its storage key
func (s *S3ArtifactStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, render.NewRenderError(render.ErrCodeStorageFailed, "storage key is required", nil)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, render.NewRenderError(render.ErrCodeStorageFailed, "failed to fetch artifact", err)
	}
	return out.Body, nil
}

// Delete removes an archived document. Deleting a missing key is not an
// error, matching S3 semantics.
func (s *S3ArtifactStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return render.NewRenderError(render.ErrCodeStorageFailed, "storage key is required", nil)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return render.NewRenderError(render.ErrCodeStorageFailed, "failed to delete artifact", err)
	}
	return nil
}

// downloadURL generates a presigned GET URL for an archived document
func (s *S3ArtifactStore) downloadURL(ctx context.Context, key string) (string, error) {
	presignReq, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", err
	}
	return presignReq.URL, nil
}

// GetBucket returns the bucket name
func (s *S3ArtifactStore) GetBucket() string {
	return s.bucket
}
