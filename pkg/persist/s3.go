package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// s3PutAPI is the subset of *s3.Client the dispatcher needs, so tests can
// substitute a fake implementation instead of talking to real AWS.
type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

const (
	s3MaxRetries     = 5
	s3OperationTimeout = 10 * time.Second
)

// S3Client owns an AWS SDK client and PUTs task bodies to it.
type S3Client struct {
	api s3PutAPI
}

// NewS3Client builds an S3Client using the default AWS credential chain,
// optionally pointed at a custom (S3-compatible) endpoint.
func NewS3Client(ctx context.Context, region, endpoint string) (*S3Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Client{api: client}, nil
}

// putObject PUTs body to sink.Bucket/sink.Key, retrying up to 5 times on
// transport/dispatch errors (not on any response the service returns) with
// a 10 second per-attempt operation timeout.
func (c *S3Client) putObject(ctx context.Context, sink *AmazonS3Sink, body []byte, contentType string) error {
	var lastErr error
	for attempt := 0; attempt <= s3MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s3OperationTimeout)
		_, err := c.api.PutObject(attemptCtx, &s3.PutObjectInput{
			Bucket:      aws.String(sink.Bucket),
			Key:         aws.String(sink.Key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String(contentType),
		})
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isTransportError(err) {
			return &S3Error{Bucket: sink.Bucket, Key: sink.Key, Detail: err.Error()}
		}
	}
	return &S3Error{Bucket: sink.Bucket, Key: sink.Key, Detail: fmt.Sprintf("exhausted %d retries: %v", s3MaxRetries, lastErr)}
}

// isTransportError reports whether err originated below the HTTP response
// (DNS failure, connection reset, timeout) as opposed to a 4xx/5xx the
// service actually returned, which the spec says must not be retried.
func isTransportError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
