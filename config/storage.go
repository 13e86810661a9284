package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
	PublicURL  string
}

// NewS3Config initializes the S3 client. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain applies.
func NewS3Config(ctx context.Context, sc StorageConfig) (*S3Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(sc.S3Region),
	}
	if sc.S3AccessKey != "" && sc.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(sc.S3AccessKey, sc.S3SecretKey, "")),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if sc.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(sc.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := sc.S3PublicURL
	if publicURL == "" {
		if sc.S3Endpoint != "" {
			publicURL = fmt.Sprintf("%s/%s", sc.S3Endpoint, sc.S3Bucket)
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", sc.S3Bucket, sc.S3Region)
		}
	}

	return &S3Config{
		Client:     client,
		BucketName: sc.S3Bucket,
		PublicURL:  publicURL,
	}, nil
}
