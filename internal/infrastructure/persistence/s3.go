package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"coown-backend/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config describes an S3-compatible bucket (AWS, MinIO, R2, iDrive e2).
type S3Config struct {
	// Endpoint is left empty for AWS itself.
	Endpoint       string
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// objectAPI is the subset of *s3.Client the adapter calls.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Adapter keeps the snapshot as a single JSON object "<key>.json".
type S3Adapter struct {
	client objectAPI
	bucket string
	object string
}

// NewS3Adapter builds an S3 client with static credentials.
func NewS3Adapter(ctx context.Context, cfg S3Config, key string) (*S3Adapter, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("persistence: s3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, errors.New("persistence: s3 region is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("persistence: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(withScheme(cfg.Endpoint))
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})
	return newS3Adapter(client, cfg.Bucket, key), nil
}

func newS3Adapter(client objectAPI, bucket, key string) *S3Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &S3Adapter{client: client, bucket: bucket, object: path.Clean(key) + ".json"}
}

func withScheme(endpoint string) string {
	// url.Parse reads "host:port" as scheme "host", so look for the separator.
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	return "https://" + endpoint
}

func (a *S3Adapter) Name() string { return "s3" }

func (a *S3Adapter) Load(ctx context.Context) (domain.Snapshot, bool, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.object),
	})
	if err != nil {
		if isNotFound(err) {
			return domain.Snapshot{}, false, nil
		}
		return domain.Snapshot{}, false, fmt.Errorf("persistence: s3 get %s: %w", a.object, err)
	}
	defer out.Body.Close()
	b, err := io.ReadAll(out.Body)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("persistence: s3 read %s: %w", a.object, err)
	}
	return decode(b)
}

func (a *S3Adapter) Save(ctx context.Context, snap domain.Snapshot) error {
	b, err := encode(snap)
	if err != nil {
		return err
	}
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.object),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("persistence: s3 put %s: %w", a.object, err)
	}
	return nil
}

func (a *S3Adapter) Reset(ctx context.Context) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.object),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("persistence: s3 delete %s: %w", a.object, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	// Some S3-compatible providers only report a bare 404.
	var httpErr interface{ HTTPStatusCode() int }
	return errors.As(err, &httpErr) && httpErr.HTTPStatusCode() == 404
}
