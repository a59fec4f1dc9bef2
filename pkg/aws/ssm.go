package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmTypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
	"github.com/odetolakehinde/cloudinfo/pkg/normalize"
)

// SSMClient defines the Systems Manager methods used by this application.
type SSMClient interface {
	DescribeParameters(ctx context.Context, params *ssm.DescribeParametersInput, optFns ...func(*ssm.Options)) (*ssm.DescribeParametersOutput, error)
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	ListDocuments(ctx context.Context, params *ssm.ListDocumentsInput, optFns ...func(*ssm.Options)) (*ssm.ListDocumentsOutput, error)
	ListCommandInvocations(ctx context.Context, params *ssm.ListCommandInvocationsInput, optFns ...func(*ssm.Options)) (*ssm.ListCommandInvocationsOutput, error)
}

// NewSSMConnector builds SSM clients from the session.
func NewSSMConnector(s *Session) Connector[SSMClient] {
	return NewConnector(s, func(cfg aws.Config) SSMClient {
		return ssm.NewFromConfig(cfg)
	})
}

func parameterFilters(raw map[string]any) []ssmTypes.ParameterStringFilter {
	var filters []ssmTypes.ParameterStringFilter
	for _, f := range Filters(raw) {
		filters = append(filters, ssmTypes.ParameterStringFilter{Key: f.Name, Values: f.Values})
	}
	return filters
}

// documentFilters adds an Owner filter unless the caller supplied one.
func documentFilters(raw map[string]any, owner string) []ssmTypes.DocumentKeyValuesFilter {
	var filters []ssmTypes.DocumentKeyValuesFilter
	hasOwner := false
	for _, f := range Filters(raw) {
		if common.GetString(f.Name) == "Owner" {
			hasOwner = true
		}
		filters = append(filters, ssmTypes.DocumentKeyValuesFilter{Key: f.Name, Values: f.Values})
	}
	if !hasOwner && owner != "" {
		filters = append(filters, ssmTypes.DocumentKeyValuesFilter{Key: aws.String("Owner"), Values: []string{owner}})
	}
	return filters
}

// SSMModule is aws_ssm_info.
func SSMModule(connect Connector[SSMClient]) engine.Module {
	return engine.Module{
		Name:        "aws_ssm_info",
		Provider:    common.ProviderAWS,
		Description: "Gather facts about SSM parameters, documents and command invocations.",
		Common:      ConnectionSpec(),
		Options: ansible.ArgumentSpec{Options: map[string]ansible.Option{
			"name":            {Type: ansible.TypeStr, Description: "Parameter for get_parameter."},
			"path":            {Type: ansible.TypeStr, Description: "Hierarchy for get_parameters_by_path."},
			"recursive":       {Type: ansible.TypeBool, Default: false, Description: "Descend the whole hierarchy under path."},
			"with_decryption": {Type: ansible.TypeBool, Default: false, Description: "Decrypt SecureString values."},
			"filters":         {Type: ansible.TypeDict, Description: "Parameter or document filters, key to value or list of values."},
			"document_owner":  {Type: ansible.TypeStr, Default: "Self", Description: "Owner filter for list_documents when filters carry none."},
			"command_id":      {Type: ansible.TypeStr, Description: "Limit list_command_invocations to one command."},
			"instance_id":     {Type: ansible.TypeStr, Description: "Limit list_command_invocations to one instance."},
			"details":         {Type: ansible.TypeBool, Default: false, Description: "Include per-plugin command output."},
		}},
		Default:   "describe_parameters",
		ResultKey: "parameters",
		Normalize: normalize.Options{ConvertTags: true},
		Operations: []engine.Operation{
			{
				Name:      "describe_parameters",
				Flag:      "describe_parameters",
				Field:     "Parameters",
				Key:       "parameters",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c SSMClient, p ansible.Params) (any, error) {
					return allPages[*ssm.DescribeParametersOutput, ssm.Options](ctx, ssm.NewDescribeParametersPaginator(c, &ssm.DescribeParametersInput{
						ParameterFilters: parameterFilters(p.Map("filters")),
					}))
				}),
			},
			{
				Name:      "get_parameters_by_path",
				Flag:      "get_parameters_by_path",
				Requires:  []string{"path"},
				Field:     "Parameters",
				Key:       "parameters",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c SSMClient, p ansible.Params) (any, error) {
					return allPages[*ssm.GetParametersByPathOutput, ssm.Options](ctx, ssm.NewGetParametersByPathPaginator(c, &ssm.GetParametersByPathInput{
						Path:             p.StringPointer("path"),
						Recursive:        p.BoolPointer("recursive"),
						WithDecryption:   p.BoolPointer("with_decryption"),
						ParameterFilters: parameterFilters(p.Map("filters")),
					}))
				}),
			},
			{
				Name:     "get_parameter",
				Flag:     "get_parameter",
				Requires: []string{"name"},
				Field:    "Parameter",
				Key:      "parameters",
				Call: call(connect, func(ctx context.Context, c SSMClient, p ansible.Params) (any, error) {
					return c.GetParameter(ctx, &ssm.GetParameterInput{
						Name:           p.StringPointer("name"),
						WithDecryption: p.BoolPointer("with_decryption"),
					})
				}),
			},
			{
				Name:      "list_documents",
				Flag:      "list_documents",
				Field:     "DocumentIdentifiers",
				Key:       "documents",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c SSMClient, p ansible.Params) (any, error) {
					return allPages[*ssm.ListDocumentsOutput, ssm.Options](ctx, ssm.NewListDocumentsPaginator(c, &ssm.ListDocumentsInput{
						Filters: documentFilters(p.Map("filters"), p.String("document_owner")),
					}))
				}),
			},
			{
				Name:      "list_command_invocations",
				Flag:      "list_command_invocations",
				Field:     "CommandInvocations",
				Key:       "command_invocations",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c SSMClient, p ansible.Params) (any, error) {
					return allPages[*ssm.ListCommandInvocationsOutput, ssm.Options](ctx, ssm.NewListCommandInvocationsPaginator(c, &ssm.ListCommandInvocationsInput{
						CommandId:  p.StringPointer("command_id"),
						InstanceId: p.StringPointer("instance_id"),
						Details:    p.Bool("details"),
					}))
				}),
			},
		},
	}
}
