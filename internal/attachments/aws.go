package attachments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Options configures the S3-backed store.
type Options struct {
	Region   string
	Endpoint string // e.g. http://localstack:4566; empty for AWS
	Bucket   string
	TTL      time.Duration
}

// New builds the attachment store. Without a bucket it returns NoopStore.
func New(ctx context.Context, opts Options) (Store, error) {
	if opts.Bucket == "" {
		slog.Info("attachments disabled, no bucket configured")
		return NoopStore{}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	slog.Info("attachments enabled", "bucket", opts.Bucket, "endpoint", opts.Endpoint)
	return NewS3Store(client, s3.NewPresignClient(client), opts.Bucket, opts.TTL), nil
}
