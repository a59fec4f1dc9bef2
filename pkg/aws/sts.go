package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
)

// STSClient defines the STS methods used by this application.
type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// NewSTSConnector builds STS clients from the session.
func NewSTSConnector(s *Session) Connector[STSClient] {
	return NewConnector(s, func(cfg aws.Config) STSClient {
		return sts.NewFromConfig(cfg)
	})
}

// CallerModule is aws_caller_info: the identity the credentials resolve to.
func CallerModule(connect Connector[STSClient]) engine.Module {
	return engine.Module{
		Name:        "aws_caller_info",
		Provider:    common.ProviderAWS,
		Description: "Return the account, ARN and user id of the calling identity.",
		Common:      ConnectionSpec(),
		Default:     "get_caller_identity",
		ResultKey:   "caller_identity",
		Operations: []engine.Operation{
			{
				Name: "get_caller_identity",
				Call: call(connect, func(ctx context.Context, c STSClient, _ ansible.Params) (any, error) {
					return c.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
				}),
			},
		},
	}
}
