// Package attachments lists the files uploaded for a case and hands out
// short-lived download links. Uploads happen elsewhere; objects are stored
// as "<caseId>_0" to "<caseId>_2" in a single bucket.
package attachments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	MaxPerCase  = 3
	callTimeout = 3 * time.Second
)

// Store returns presigned download links for a case's attachments.
type Store interface {
	Links(ctx context.Context, caseID string) ([]string, error)
}

// HeadClient is the part of *s3.Client the store needs.
type HeadClient interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Presigner is the part of *s3.PresignClient the store needs.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type S3Store struct {
	client    HeadClient
	presigner Presigner
	bucket    string
	ttl       time.Duration
}

func NewS3Store(client HeadClient, presigner Presigner, bucket string, ttl time.Duration) *S3Store {
	return &S3Store{client: client, presigner: presigner, bucket: bucket, ttl: ttl}
}

// Key names the i-th attachment of a case.
func Key(caseID string, i int) string {
	return fmt.Sprintf("%s_%d", caseID, i)
}

// Links checks each attachment slot and presigns the ones that exist.
// A slot whose HEAD fails is skipped; only a presign failure aborts the listing.
func (s *S3Store) Links(ctx context.Context, caseID string) ([]string, error) {
	links := make([]string, 0, MaxPerCase)
	for i := 0; i < MaxPerCase; i++ {
		key := Key(caseID, i)
		ok, err := s.exists(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "attachment head failed", "case_id", caseID, "key", key, "error", err.Error())
			continue
		}
		if !ok {
			continue
		}

		req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}, func(o *s3.PresignOptions) { o.Expires = s.ttl })
		if err != nil {
			return nil, fmt.Errorf("presign %s: %w", key, err)
		}
		links = append(links, req.URL)
	}
	return links, nil
}

func (s *S3Store) exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isMissing(err) {
		return false, nil
	}
	return false, err
}

// isMissing also accepts 403: S3 answers HEAD of an absent key with 403 when
// the caller lacks s3:ListBucket.
func isMissing(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	if !errors.As(err, &re) {
		return false
	}
	return re.HTTPStatusCode() == http.StatusNotFound || re.HTTPStatusCode() == http.StatusForbidden
}

// NoopStore is used when no bucket is configured. Every case has no attachments.
type NoopStore struct{}

func (NoopStore) Links(context.Context, string) ([]string, error) {
	return []string{}, nil
}
