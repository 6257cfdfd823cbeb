package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v2/log"

	"github.com/roll2bowl/partner-api/internal/pkg/env"
)

// Client wraps the S3 client used for menu images and other uploaded
// assets.
type Client struct {
	s3Client *s3.Client
	bucket   string
	baseURL  string
}

// NewClientFromEnv creates the object storage client from S3_* settings.
// Returns an error when the bucket is not configured, upload endpoints
// are disabled in that case.
func NewClientFromEnv() (*Client, error) {
	bucket := env.GetEnv("S3_BUCKET", "")
	if bucket == "" {
		return nil, fmt.Errorf("object storage is not configured")
	}
	region := env.GetEnv("S3_REGION", "ap-south-1")
	endpoint := env.GetEnv("S3_ENDPOINT_URL", "")

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			env.GetEnv("S3_ACCESS_KEY_ID", ""),
			env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	client := &Client{
		s3Client: s3Client,
		bucket:   bucket,
		baseURL:  strings.TrimRight(env.GetEnv("S3_PUBLIC_BASE_URL", ""), "/"),
	}

	if err := client.testConnection(); err != nil {
		return nil, fmt.Errorf("failed to connect to object storage: %w", err)
	}

	log.Infof("[Storage] Initialized S3 client for bucket: %s", bucket)
	return client, nil
}

func (c *Client) testConnection() error {
	ctx := context.Background()
	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		if env.IsDev() {
			log.Warnf("[Storage] Bucket %s not found, attempting to create it", c.bucket)
			return c.createBucket()
		}
		return fmt.Errorf("bucket %s not accessible: %w", c.bucket, err)
	}
	return nil
}

func (c *Client) createBucket() error {
	_, err := c.s3Client.CreateBucket(context.Background(), &s3.CreateBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", c.bucket, err)
	}
	return nil
}

// UploadResult contains the result of a successful upload.
type UploadResult struct {
	ObjectKey   string
	Size        int64
	ContentType string
	PublicURL   string
}

// Upload streams body to the bucket under objectKey.
func (c *Client) Upload(ctx context.Context, objectKey string, body io.Reader, size int64) (*UploadResult, error) {
	contentType := contentTypeForExt(filepath.Ext(objectKey))

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(objectKey),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	log.Infof("[Storage] Uploaded: s3://%s/%s (%d bytes)", c.bucket, objectKey, size)
	return &UploadResult{
		ObjectKey:   objectKey,
		Size:        size,
		ContentType: contentType,
		PublicURL:   c.PublicURL(objectKey),
	}, nil
}

// Delete removes an object from the bucket.
func (c *Client) Delete(ctx context.Context, objectKey string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}

// Exists checks whether an object is present in the bucket.
func (c *Client) Exists(ctx context.Context, objectKey string) (bool, error) {
	_, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

// PublicURL returns the externally reachable URL for an object.
func (c *Client) PublicURL(objectKey string) string {
	if c.baseURL == "" {
		return fmt.Sprintf("s3://%s/%s", c.bucket, objectKey)
	}
	return c.baseURL + "/" + objectKey
}

func contentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
