package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the subset of *s3.Client used to fetch registry documents.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures the S3 client used for s3:// registry sources.
type S3Options struct {
	Region   string
	Endpoint string // custom endpoint for MinIO and similar; enables path-style addressing
}

// NewS3Client builds an S3 client from the default AWS credential chain.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	var s3opts []func(*s3.Options)
	if opts.Endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(cfg, s3opts...), nil
}

// ParseS3URI splits "s3://bucket/key" into its parts.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// FetchS3 downloads and decodes a TOML registry object.
func FetchS3(ctx context.Context, client ObjectGetter, bucket, key string) (*Registry, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()
	return Decode(out.Body)
}

// Load resolves a registry source: empty selects the built-in default,
// "s3://bucket/key" fetches from S3, anything else is a local file path.
func Load(ctx context.Context, source string, opts S3Options) (*Registry, error) {
	switch {
	case source == "":
		return Default(), nil
	case strings.HasPrefix(source, "s3://"):
		bucket, key, ok := ParseS3URI(source)
		if !ok {
			return nil, fmt.Errorf("invalid registry source %q: want s3://bucket/key", source)
		}
		client, err := NewS3Client(ctx, opts)
		if err != nil {
			return nil, err
		}
		return FetchS3(ctx, client, bucket, key)
	default:
		return LoadFile(source)
	}
}
