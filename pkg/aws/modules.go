package aws

import (
	"github.com/rs/zerolog"

	appconfig "github.com/odetolakehinde/cloudinfo/pkg/config"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
)

// Modules builds every AWS and Minio module over live SDK clients.
func Modules(cfg appconfig.Config, logger zerolog.Logger) []engine.Module {
	session := NewSession(cfg.AWS, logger)

	return []engine.Module{
		EC2Module(NewEC2Connector(session)),
		ImageBuilderModule(NewImageBuilderConnector(session)),
		IAMModule(NewIAMConnector(session)),
		SSMModule(NewSSMConnector(session)),
		LogsModule(NewLogsConnector(session)),
		S3Module(NewS3Connector(session)),
		CloudFormationModule(NewCloudFormationConnector(session)),
		DynamoDBModule(NewDynamoDBConnector(session)),
		CallerModule(NewSTSConnector(session)),
		MinioModule(NewMinioConnector(cfg.Minio, logger)),
	}
}
