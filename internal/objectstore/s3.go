package objectstore

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/smallbiznis/facturo/internal/config"
	"go.uber.org/zap"
)

type s3Store struct {
	client     *s3.Client
	bucket     string
	presignTTL time.Duration
	log        *zap.Logger
}

// NewS3Store builds the S3-backed document store. A custom endpoint plus
// path-style addressing supports MinIO and other S3-compatible stores.
func NewS3Store(cfg config.Config, log *zap.Logger) (Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
		}
		o.UsePathStyle = cfg.Storage.ForcePathStyle
	})

	ttl := time.Duration(cfg.Storage.PresignTTL) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &s3Store{
		client:     client,
		bucket:     cfg.Storage.Bucket,
		presignTTL: ttl,
		log:        log.Named("objectstore.s3"),
	}, nil
}

func (s *s3Store) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.log.Error("upload failed",
			zap.String("bucket", s.bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return ErrStoreUnavailable
	}
	return nil
}

func (s *s3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return false, nil
		}
		return false, ErrStoreUnavailable
	}
	return true, nil
}

func (s *s3Store) PresignGet(ctx context.Context, key string) (SignedURL, error) {
	presigner := s3.NewPresignClient(s.client)
	result, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		s.log.Error("presign failed",
			zap.String("bucket", s.bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return SignedURL{}, ErrStoreUnavailable
	}

	return SignedURL{
		URL:       result.URL,
		ExpiresAt: time.Now().UTC().Add(s.presignTTL),
	}, nil
}
