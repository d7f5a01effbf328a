// Package storage archives uploaded import files to S3 so a completed
// import can always be cross-referenced against the exact bytes the
// user supplied.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3PutAPI is the slice of the S3 client the archiver needs.
type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver writes raw import files under imports/<date>/<name>.
type Archiver struct {
	client s3PutAPI
	bucket string
}

// NewArchiver builds an S3-backed archiver with the default credential
// chain, optionally pinned to a shared-config profile.
func NewArchiver(ctx context.Context, bucket, region, profile string) (*Archiver, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Archiver{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// newArchiverWithClient exists for tests.
func newArchiverWithClient(client s3PutAPI, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket}
}

// ArchiveImport stores one uploaded file and returns its object key.
func (a *Archiver) ArchiveImport(ctx context.Context, filename, contents string) (string, error) {
	key := fmt.Sprintf("imports/%s/%s", time.Now().UTC().Format("2006-01-02"), filename)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte(contents)),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("archiving %s: %w", filename, err)
	}
	return key, nil
}
