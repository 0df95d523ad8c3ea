package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Store keeps a copy of every spreadsheet export in S3.
type Store struct {
	bucket   string
	prefix   string
	s3Client S3API
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore creates an archive Store. If bucket is empty, all operations are no-ops.
func NewStore(s3Client S3API, bucket string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		bucket:   bucket,
		prefix:   "exports",
		s3Client: s3Client,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Enabled returns true if archival is configured (bucket is set).
func (s *Store) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

// Key returns the object key for an export file archived at t.
func (s *Store) Key(name string, t time.Time) string {
	return fmt.Sprintf("%s/%d/%02d/%02d/%s", s.prefix, t.Year(), t.Month(), t.Day(), path.Base(name))
}

// ArchiveExport uploads one export workbook.
func (s *Store) ArchiveExport(ctx context.Context, name string, data []byte) error {
	if !s.Enabled() {
		return nil
	}

	key := s.Key(name, s.now())
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(xlsxContentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("archive: s3 put %s: %w", key, err)
	}

	s.logger.Info("archived export to S3", "bucket", s.bucket, "s3_key", key, "bytes", len(data))
	return nil
}
