package bootstrap

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wolfman30/contact-crm/internal/archive"
	appconfig "github.com/wolfman30/contact-crm/internal/config"
	"github.com/wolfman30/contact-crm/pkg/logging"
)

// LoadAWSConfig builds the SDK config, using static keys when both are set.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	return config.LoadDefaultConfig(ctx, loaders...)
}

// NewS3Client honours AWS_ENDPOINT_OVERRIDE (LocalStack, MinIO) with path-style addressing.
func NewS3Client(awsCfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

// BuildExportArchiver returns nil when no archive bucket is configured.
func BuildExportArchiver(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*archive.Store, error) {
	if cfg == nil || strings.TrimSpace(cfg.ExportArchiveBucket) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client := NewS3Client(awsCfg, cfg.AWSEndpointOverride)
	logger.Info("export archival enabled", "bucket", cfg.ExportArchiveBucket)
	return archive.NewStore(client, cfg.ExportArchiveBucket, logger.Logger), nil
}
