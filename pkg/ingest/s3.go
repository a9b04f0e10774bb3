package ingest

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	fserrors "github.com/flowscope/flowscope/pkg/errors"
)

// isS3URI reports whether path looks like s3://bucket/key.
func isS3URI(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// parseS3URI splits s3://bucket/key into bucket and key.
func parseS3URI(uri string) (bucket, key string, ok bool) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	slash := strings.IndexByte(trimmed, '/')
	if slash <= 0 || slash == len(trimmed)-1 {
		return "", "", false
	}
	return trimmed[:slash], trimmed[slash+1:], true
}

// openS3 opens an event log stored in S3 for streaming reads. Credentials
// come from the default AWS credential chain.
func openS3(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, ok := parseS3URI(uri)
	if !ok {
		return nil, fserrors.New(fserrors.CodeInvalidFormat, "invalid s3 URI").
			WithContext("uri", uri)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fserrors.Wrap(err, fserrors.CodeFilePermission, "failed to load AWS config")
	}

	client := s3.NewFromConfig(cfg)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fserrors.Wrap(err, fserrors.CodeFileNotFound, "failed to fetch S3 object").
			WithContext("bucket", bucket).
			WithContext("key", key)
	}
	return out.Body, nil
}
