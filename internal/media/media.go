// Package media issues presigned object storage URLs for place images.
package media

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/samber/oops"
)

const defaultExpiry = 15 * time.Minute

// Config selects the bucket. Endpoint is set for S3-compatible stores such as
// MinIO; static keys are used when both are present.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Expires   time.Duration
}

// Presigner signs upload URLs for one bucket.
type Presigner struct {
	client  *s3.PresignClient
	bucket  string
	expires time.Duration
}

// NewPresigner returns nil when no bucket is configured.
func NewPresigner(ctx context.Context, cfg Config) (*Presigner, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, oops.In("media").With("bucket", cfg.Bucket).Wrapf(err, "load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	expires := cfg.Expires
	if expires <= 0 {
		expires = defaultExpiry
	}
	return &Presigner{client: s3.NewPresignClient(client), bucket: cfg.Bucket, expires: expires}, nil
}

// PresignPut returns a URL the client can PUT the object body to.
func (p *Presigner) PresignPut(ctx context.Context, key string) (string, error) {
	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.expires))
	if err != nil {
		return "", oops.In("media").With("key", key).Wrapf(err, "presign put")
	}
	return req.URL, nil
}

// ImageKey is the object key for a place image. Only the base name of
// imageName is kept; an empty name falls back to the place id.
func ImageKey(placeID, imageName string) string {
	name := path.Base(strings.ReplaceAll(imageName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = placeID
	}
	return path.Join("places", placeID, name)
}
