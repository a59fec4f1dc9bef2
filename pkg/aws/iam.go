package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamTypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
	"github.com/odetolakehinde/cloudinfo/pkg/normalize"
)

// IAMClient defines the IAM methods used by this application.
type IAMClient interface {
	ListUsers(ctx context.Context, params *iam.ListUsersInput, optFns ...func(*iam.Options)) (*iam.ListUsersOutput, error)
	ListRoles(ctx context.Context, params *iam.ListRolesInput, optFns ...func(*iam.Options)) (*iam.ListRolesOutput, error)
	ListGroups(ctx context.Context, params *iam.ListGroupsInput, optFns ...func(*iam.Options)) (*iam.ListGroupsOutput, error)
	ListPolicies(ctx context.Context, params *iam.ListPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListPoliciesOutput, error)
	ListInstanceProfiles(ctx context.Context, params *iam.ListInstanceProfilesInput, optFns ...func(*iam.Options)) (*iam.ListInstanceProfilesOutput, error)
	ListAttachedRolePolicies(ctx context.Context, params *iam.ListAttachedRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error)
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
}

// NewIAMConnector builds IAM clients from the session.
func NewIAMConnector(s *Session) Connector[IAMClient] {
	return NewConnector(s, func(cfg aws.Config) IAMClient {
		return iam.NewFromConfig(cfg)
	})
}

// IAMModule is aws_iam_info.
func IAMModule(connect Connector[IAMClient]) engine.Module {
	return engine.Module{
		Name:        "aws_iam_info",
		Provider:    common.ProviderAWS,
		Description: "Gather facts about IAM users, roles, groups, policies and instance profiles.",
		Common:      ConnectionSpec(),
		Options: ansible.ArgumentSpec{Options: map[string]ansible.Option{
			"path_prefix": {Type: ansible.TypeStr, Aliases: []string{"path"}, Description: "Only entities under this path."},
			"role_name":   {Type: ansible.TypeStr, Aliases: []string{"name"}, Description: "Role for get_role and list_attached_role_policies."},
			"scope": {
				Type:        ansible.TypeStr,
				Choices:     []string{"All", "AWS", "Local"},
				Default:     "Local",
				Description: "Policy scope for list_policies.",
			},
			"only_attached": {Type: ansible.TypeBool, Default: false, Description: "Only policies attached to an entity."},
		}},
		Default:   "list_users",
		ResultKey: "iam_users",
		Normalize: normalize.Options{ConvertTags: true},
		Operations: []engine.Operation{
			{
				Name:      "list_users",
				Flag:      "list_users",
				Field:     "Users",
				Key:       "iam_users",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c IAMClient, p ansible.Params) (any, error) {
					return allPages[*iam.ListUsersOutput, iam.Options](ctx, iam.NewListUsersPaginator(c, &iam.ListUsersInput{
						PathPrefix: p.StringPointer("path_prefix"),
					}))
				}),
			},
			{
				Name:      "list_roles",
				Flag:      "list_roles",
				Field:     "Roles",
				Key:       "iam_roles",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c IAMClient, p ansible.Params) (any, error) {
					return allPages[*iam.ListRolesOutput, iam.Options](ctx, iam.NewListRolesPaginator(c, &iam.ListRolesInput{
						PathPrefix: p.StringPointer("path_prefix"),
					}))
				}),
			},
			{
				Name:      "list_groups",
				Flag:      "list_groups",
				Field:     "Groups",
				Key:       "iam_groups",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c IAMClient, p ansible.Params) (any, error) {
					return allPages[*iam.ListGroupsOutput, iam.Options](ctx, iam.NewListGroupsPaginator(c, &iam.ListGroupsInput{
						PathPrefix: p.StringPointer("path_prefix"),
					}))
				}),
			},
			{
				Name:      "list_policies",
				Flag:      "list_policies",
				Field:     "Policies",
				Key:       "iam_policies",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c IAMClient, p ansible.Params) (any, error) {
					return allPages[*iam.ListPoliciesOutput, iam.Options](ctx, iam.NewListPoliciesPaginator(c, &iam.ListPoliciesInput{
						PathPrefix:   p.StringPointer("path_prefix"),
						Scope:        iamTypes.PolicyScopeType(p.String("scope")),
						OnlyAttached: p.Bool("only_attached"),
					}))
				}),
			},
			{
				Name:      "list_instance_profiles",
				Flag:      "list_instance_profiles",
				Field:     "InstanceProfiles",
				Key:       "iam_instance_profiles",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c IAMClient, p ansible.Params) (any, error) {
					return allPages[*iam.ListInstanceProfilesOutput, iam.Options](ctx, iam.NewListInstanceProfilesPaginator(c, &iam.ListInstanceProfilesInput{
						PathPrefix: p.StringPointer("path_prefix"),
					}))
				}),
			},
			{
				Name:      "list_attached_role_policies",
				Flag:      "list_attached_role_policies",
				Requires:  []string{"role_name"},
				Field:     "AttachedPolicies",
				Key:       "attached_policies",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c IAMClient, p ansible.Params) (any, error) {
					return allPages[*iam.ListAttachedRolePoliciesOutput, iam.Options](ctx, iam.NewListAttachedRolePoliciesPaginator(c, &iam.ListAttachedRolePoliciesInput{
						RoleName:   p.StringPointer("role_name"),
						PathPrefix: p.StringPointer("path_prefix"),
					}))
				}),
			},
			{
				Name:     "get_role",
				Flag:     "get_role",
				Requires: []string{"role_name"},
				Field:    "Role",
				Key:      "iam_roles",
				Call: call(connect, func(ctx context.Context, c IAMClient, p ansible.Params) (any, error) {
					return c.GetRole(ctx, &iam.GetRoleInput{RoleName: p.StringPointer("role_name")})
				}),
			},
		},
	}
}
