// Package s3 stores each collection as one object in an S3 compatible bucket (AWS S3 or MinIO).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/tabletop-rentals/rental-ledger-go/collection"
)

const (
	driverName    = "s3"
	defaultRegion = "us-east-1"
	objectSuffix  = ".json"
	contentType   = "application/json"
)

var ErrBucketRequired = errors.New("s3 bucket required")

// Config holds the construction parameters. Credentials fall back to the default AWS chain when empty.
type Config struct {
	Region          string
	Bucket          string
	Prefix          string // optional key prefix, e.g. "ledger/"
	Endpoint        string // optional, e.g. a MinIO URL
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	PathStyle       bool
}

// ObjectAPI is the part of *s3.Client the backend uses.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Backend struct {
	client ObjectAPI
	bucket string
	prefix string
}

// New builds an S3 client from cfg.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketRequired
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 backend: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewWithClient(client, cfg.Bucket, cfg.Prefix)
}

// NewWithClient uses an existing client, e.g. one with a custom HTTP transport.
func NewWithClient(client ObjectAPI, bucket, prefix string) (*Backend, error) {
	if bucket == "" {
		return nil, ErrBucketRequired
	}

	if client == nil {
		return nil, errors.New("s3 backend: client must not be nil")
	}

	return &Backend{client: client, bucket: bucket, prefix: prefix}, nil
}

func (b *Backend) Driver() string {
	return driverName
}

// Key returns the object key a collection is stored under.
func (b *Backend) Key(name string) string {
	return b.prefix + name + objectSuffix
}

func (b *Backend) Read(ctx context.Context, name string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.Key(name)),
	})
	if isNotFound(err) {
		return nil, collection.ErrCollectionMissing
	}

	if err != nil {
		return nil, fmt.Errorf("s3 backend: get %s: %w", b.Key(name), err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 backend: read %s: %w", b.Key(name), err)
	}

	return data, nil
}

// Write relies on PutObject replacing the object atomically.
func (b *Backend) Write(ctx context.Context, name string, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(b.Key(name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 backend: put %s: %w", b.Key(name), err)
	}

	return nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var responseErr *awshttp.ResponseError
	return errors.As(err, &responseErr) && responseErr.HTTPStatusCode() == http.StatusNotFound
}
