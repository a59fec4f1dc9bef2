package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	appconfig "github.com/odetolakehinde/cloudinfo/pkg/config"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
)

// MinioSpec holds the connection options of the Minio modules.
func MinioSpec() ansible.ArgumentSpec {
	return ansible.ArgumentSpec{
		Options: map[string]ansible.Option{
			"url": {
				Type:        ansible.TypeStr,
				Aliases:     []string{"minio_url", "endpoint"},
				Description: "Minio server URL, e.g. http://localhost:9000.",
			},
			"access_key": {
				Type:        ansible.TypeStr,
				Aliases:     []string{"minio_access_key"},
				Description: "Minio access key; anonymous when unset.",
			},
			"secret_key": {
				Type:        ansible.TypeStr,
				Aliases:     []string{"minio_secret_key"},
				NoLog:       true,
				Description: "Minio secret key.",
			},
			"region": {
				Type:        ansible.TypeStr,
				Aliases:     []string{"minio_region"},
				Description: "Region the server reports; us-east-1 unless configured.",
			},
		},
		RequiredTogether: [][]string{{"access_key", "secret_key"}},
	}
}

// NewMinioConnector builds path-style S3 clients pointed at a Minio server.
// Parameters win over the minio configuration block.
func NewMinioConnector(defaults appconfig.MinioConfig, logger zerolog.Logger) Connector[S3Client] {
	log := logger.With().Str(common.LogStrLayer, "minio").Logger()

	return func(_ context.Context, p ansible.Params) (S3Client, error) {
		endpoint := firstNonEmpty(p.String("url"), defaults.URL)
		if endpoint == "" {
			return nil, fmt.Errorf("%w: url (or minio.url)", common.ErrMissingRequired)
		}

		cfg := aws.Config{
			Region:      firstNonEmpty(p.String("region"), defaults.Region, "us-east-1"),
			Credentials: aws.AnonymousCredentials{},
		}
		accessKey := firstNonEmpty(p.String("access_key"), defaults.AccessKey)
		secretKey := firstNonEmpty(p.String("secret_key"), defaults.SecretKey)
		if accessKey != "" {
			cfg.Credentials = credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
		}

		log.Debug().Str("url", endpoint).Str("region", cfg.Region).Msg("minio client")

		return s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}), nil
	}
}

// MinioModule is minio_bucket_info.
func MinioModule(connect Connector[S3Client]) engine.Module {
	return engine.Module{
		Name:        "minio_bucket_info",
		Provider:    common.ProviderMinio,
		Description: "Gather facts about buckets and objects on a Minio server.",
		Common:      MinioSpec(),
		Options:     ansible.ArgumentSpec{Options: bucketOptions()},
		Default:     "list_buckets",
		ResultKey:   "buckets",
		Operations: []engine.Operation{
			listBucketsOperation(connect),
			listObjectsOperation(connect),
		},
	}
}
