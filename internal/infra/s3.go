package infra

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/plantops/opsboard/internal/app/appconfig"
)

// S3 returns the archive client, or nil when no export bucket is configured.
func S3(conf *appconfig.Config) (*s3.Client, error) {
	if conf.ExportS3Bucket == "" {
		log.Info().
			Str("evt.name", "infra.s3.disabled").
			Msg("saved graph archiving is disabled due to missing bucket")
		return nil, nil
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(conf.ExportS3Region),
	}
	if conf.AWSAccessKey != "" && conf.AWSSecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AWSAccessKey, conf.AWSSecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Error().Err(err).Msg("infra: s3: failed to load aws config")
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.RetryMaxAttempts = 3
	}), nil
}
