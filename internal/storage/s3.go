package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/foodgram/backend/config"
)

// S3Storage keeps media in an S3 bucket under the media/ prefix
type S3Storage struct {
	cfg *config.S3Config
}

func NewS3Storage(cfg *config.S3Config) *S3Storage {
	return &S3Storage{cfg: cfg}
}

func (s *S3Storage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	objectKey := "media/" + key
	_, err := s.cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.BucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.cfg.ObjectURL(objectKey), nil
}

func (s *S3Storage) Delete(ctx context.Context, url string) error {
	objectKey, ok := strings.CutPrefix(url, s.cfg.ObjectURL(""))
	if !ok || objectKey == "" {
		return nil
	}
	_, err := s.cfg.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
