package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Source reads artifacts from objects in a bucket.
type S3Source struct {
	client *s3.Client
	bucket string
}

// NewS3Source builds a client from the default AWS credential chain. A
// non-empty endpoint points the client at an S3-compatible service such as
// localstack, using path-style addressing.
func NewS3Source(ctx context.Context, bucket, region, endpoint string) (*S3Source, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	slog.Info("Initialized S3 client", slog.String("bucket", bucket), slog.String("region", region))
	return &S3Source{client: client, bucket: bucket}, nil
}

func (s *S3Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound") {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, s.bucket, name)
		}
		return nil, err
	}
	return out.Body, nil
}
