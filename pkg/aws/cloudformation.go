package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfnTypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
	"github.com/odetolakehinde/cloudinfo/pkg/normalize"
)

// CloudFormationClient defines the CloudFormation methods used by this application.
type CloudFormationClient interface {
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	ListExports(ctx context.Context, params *cloudformation.ListExportsInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListExportsOutput, error)
	ListStackResources(ctx context.Context, params *cloudformation.ListStackResourcesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStackResourcesOutput, error)
	ListStackSets(ctx context.Context, params *cloudformation.ListStackSetsInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStackSetsOutput, error)
}

// NewCloudFormationConnector builds CloudFormation clients from the session.
func NewCloudFormationConnector(s *Session) Connector[CloudFormationClient] {
	return NewConnector(s, func(cfg aws.Config) CloudFormationClient {
		return cloudformation.NewFromConfig(cfg)
	})
}

// CloudFormationModule is aws_cloudformation_info.
func CloudFormationModule(connect Connector[CloudFormationClient]) engine.Module {
	return engine.Module{
		Name:        "aws_cloudformation_info",
		Provider:    common.ProviderAWS,
		Description: "Gather facts about CloudFormation stacks, exports, stack resources and stack sets.",
		Common:      ConnectionSpec(),
		Options: ansible.ArgumentSpec{Options: map[string]ansible.Option{
			"stack_name": {Type: ansible.TypeStr, Aliases: []string{"name"}, Description: "Stack name or id."},
			"stack_set_status": {
				Type:        ansible.TypeStr,
				Choices:     []string{"ACTIVE", "DELETED"},
				Description: "Status filter for list_stack_sets.",
			},
		}},
		Default:   "describe_stacks",
		ResultKey: "stacks",
		Normalize: normalize.Options{ConvertTags: true, IgnoreKeys: []string{"TemplateBody"}},
		Operations: []engine.Operation{
			{
				Name:      "describe_stacks",
				Flag:      "describe_stacks",
				Field:     "Stacks",
				Key:       "stacks",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c CloudFormationClient, p ansible.Params) (any, error) {
					return allPages[*cloudformation.DescribeStacksOutput, cloudformation.Options](ctx, cloudformation.NewDescribeStacksPaginator(c, &cloudformation.DescribeStacksInput{
						StackName: p.StringPointer("stack_name"),
					}))
				}),
			},
			{
				Name:      "list_exports",
				Flag:      "list_exports",
				Field:     "Exports",
				Key:       "exports",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c CloudFormationClient, _ ansible.Params) (any, error) {
					return allPages[*cloudformation.ListExportsOutput, cloudformation.Options](ctx, cloudformation.NewListExportsPaginator(c, &cloudformation.ListExportsInput{}))
				}),
			},
			{
				Name:      "list_stack_resources",
				Flag:      "list_stack_resources",
				Requires:  []string{"stack_name"},
				Field:     "StackResourceSummaries",
				Key:       "stack_resources",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c CloudFormationClient, p ansible.Params) (any, error) {
					return allPages[*cloudformation.ListStackResourcesOutput, cloudformation.Options](ctx, cloudformation.NewListStackResourcesPaginator(c, &cloudformation.ListStackResourcesInput{
						StackName: p.StringPointer("stack_name"),
					}))
				}),
			},
			{
				Name:      "list_stack_sets",
				Flag:      "list_stack_sets",
				Field:     "Summaries",
				Key:       "stack_sets",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c CloudFormationClient, p ansible.Params) (any, error) {
					return allPages[*cloudformation.ListStackSetsOutput, cloudformation.Options](ctx, cloudformation.NewListStackSetsPaginator(c, &cloudformation.ListStackSetsInput{
						Status: cfnTypes.StackSetStatus(p.String("stack_set_status")),
					}))
				}),
			},
		},
	}
}
