package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"rollcall/internal/config"
	"rollcall/internal/models"
)

// UploadService stores a local temporary file in object storage and returns
// the key plus a retrievable URL. Deleting the temp file is the caller's job.
type UploadService interface {
	UploadImage(ctx context.Context, localPath string) (*models.ImageRef, error)
}

type s3UploadService struct {
	client *s3.Client
	cfg    config.S3Config
}

func NewS3UploadService(cfg config.S3Config) (UploadService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // MinIO и совместимые
		}
	})

	return &s3UploadService{client: client, cfg: cfg}, nil
}

func storageKey(ext string) string {
	d := time.Now()
	return fmt.Sprintf("checkins/%d/%d/%d/%v%s", d.Year(), int(d.Month()), d.Day(), uuid.New(), ext)
}

func (s *s3UploadService) UploadImage(ctx context.Context, localPath string) (*models.ImageRef, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open upload temp file: %w", err)
	}
	defer f.Close()

	key := storageKey(strings.ToLower(filepath.Ext(localPath)))
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
		Body:   f,
	}); err != nil {
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}

	return &models.ImageRef{PublicID: key, URL: s.objectURL(key)}, nil
}

func (s *s3UploadService) objectURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	}
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
