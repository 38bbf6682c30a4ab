package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/wayplan/wayplan/internal/common"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Config carries the settings for an S3-compatible backend (MinIO in
// development).
type S3Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Store implements Store over an S3-compatible object storage.
type S3Store struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

// NewS3Store builds the S3 client with static credentials and a custom
// base endpoint, matching a MinIO-style deployment.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.RootUser,
			cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: strings.TrimRight(cfg.BaseEndpoint, "/"),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("%w: put %s: %v", common.ErrBlobOperation, key, err)
	}
	return nil
}

// copySourcePath escapes each key segment. CopyObject requires a
// URL-encoded copy source, and keys embed user-supplied file names.
func copySourcePath(bucket, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return bucket + "/" + strings.Join(parts, "/")
}

// Move copies the object to newKey and deletes the old one. S3 has no
// native rename.
func (s *S3Store) Move(ctx context.Context, oldKey, newKey string) error {
	if err := ValidateKey(newKey); err != nil {
		return err
	}
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(copySourcePath(s.bucket, oldKey)),
		Key:        aws.String(newKey),
	})
	if err != nil {
		return fmt.Errorf("%w: move %s -> %s: %v", common.ErrBlobOperation, oldKey, newKey, err)
	}
	if err := s.Delete(ctx, oldKey); err != nil {
		return err
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", common.ErrBlobOperation, key, err)
	}
	return nil
}

// PublicURL is deterministic: path-style endpoint/bucket/key.
func (s *S3Store) PublicURL(key string) string {
	return s.endpoint + "/" + s.bucket + "/" + key
}
