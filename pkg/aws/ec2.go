// Package aws to interact w AWS resources
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
	"github.com/odetolakehinde/cloudinfo/pkg/normalize"
)

// EC2Client defines the subset of AWS EC2 methods used by this application.
type EC2Client interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeVpcs(ctx context.Context, params *ec2.DescribeVpcsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error)
	DescribeSubnets(ctx context.Context, params *ec2.DescribeSubnetsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error)
	DescribeSecurityGroups(ctx context.Context, params *ec2.DescribeSecurityGroupsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error)
	DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
	DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
	DescribeSnapshots(ctx context.Context, params *ec2.DescribeSnapshotsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error)
	DescribeKeyPairs(ctx context.Context, params *ec2.DescribeKeyPairsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeKeyPairsOutput, error)
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
}

// NewEC2Connector builds EC2 clients from the session.
func NewEC2Connector(s *Session) Connector[EC2Client] {
	return NewConnector(s, func(cfg aws.Config) EC2Client {
		return ec2.NewFromConfig(cfg)
	})
}

type (
	// instancePage is a DescribeInstances page with reservations unrolled.
	instancePage struct {
		NextToken *string
		Instances []instanceRecord
	}

	// instanceRecord is an instance plus the reservation it belongs to.
	instanceRecord struct {
		ec2Types.Instance
		ReservationId *string
		OwnerId       *string
	}
)

// instancesFromOutput unrolls reservations so every record is one instance.
func instancesFromOutput(output *ec2.DescribeInstancesOutput) instancePage {
	page := instancePage{NextToken: output.NextToken, Instances: make([]instanceRecord, 0)}
	for _, reservation := range output.Reservations {
		for _, instance := range reservation.Instances {
			page.Instances = append(page.Instances, instanceRecord{
				Instance:      instance,
				ReservationId: reservation.ReservationId,
				OwnerId:       reservation.OwnerId,
			})
		}
	}
	return page
}

// Filters converts an Ansible filters dict into EC2 filters, ordered by name.
// Values may be a single scalar or a list.
func Filters(raw map[string]any) []ec2Types.Filter {
	if len(raw) == 0 {
		return nil
	}

	filters := make([]ec2Types.Filter, 0, len(raw))
	for _, name := range common.SortedKeys(raw) {
		var values []string
		switch v := raw[name].(type) {
		case []any:
			values = common.ConvertToStringSlice(v)
		case []string:
			values = v
		default:
			values = []string{fmt.Sprintf("%v", v)}
		}
		filters = append(filters, ec2Types.Filter{
			Name:   aws.String(name),
			Values: values,
		})
	}
	return filters
}

// EC2Module is aws_ec2_info.
func EC2Module(connect Connector[EC2Client]) engine.Module {
	return engine.Module{
		Name:        "aws_ec2_info",
		Provider:    common.ProviderAWS,
		Description: "Gather facts about EC2 instances, networking, images, volumes, snapshots, key pairs and regions.",
		Common:      ConnectionSpec(),
		Options: ansible.ArgumentSpec{Options: map[string]ansible.Option{
			"filters":      {Type: ansible.TypeDict, Description: "EC2 filters, name to value or list of values."},
			"instance_ids": {Type: ansible.TypeList, Elements: ansible.TypeStr, Description: "Instances to describe."},
			"vpc_ids":      {Type: ansible.TypeList, Elements: ansible.TypeStr, Description: "VPCs to describe."},
			"subnet_ids":   {Type: ansible.TypeList, Elements: ansible.TypeStr, Description: "Subnets to describe."},
			"group_ids":    {Type: ansible.TypeList, Elements: ansible.TypeStr, Description: "Security group ids."},
			"group_names":  {Type: ansible.TypeList, Elements: ansible.TypeStr, Description: "Security group names (default VPC only)."},
			"image_ids":    {Type: ansible.TypeList, Elements: ansible.TypeStr, Description: "AMIs to describe."},
			"owners": {
				Type:        ansible.TypeList,
				Elements:    ansible.TypeStr,
				Description: "Image owners (account ids, self, amazon, aws-marketplace).",
			},
			"volume_ids":   {Type: ansible.TypeList, Elements: ansible.TypeStr, Description: "EBS volumes to describe."},
			"snapshot_ids": {Type: ansible.TypeList, Elements: ansible.TypeStr, Description: "Snapshots to describe."},
			"owner_ids": {
				Type:        ansible.TypeList,
				Elements:    ansible.TypeStr,
				Description: "Snapshot owners; self when nothing else narrows the query.",
			},
			"key_names":   {Type: ansible.TypeList, Elements: ansible.TypeStr, Description: "Key pairs to describe."},
			"all_regions": {Type: ansible.TypeBool, Default: false, Description: "Include regions not enabled for the account."},
		}},
		Default:   "describe_instances",
		ResultKey: "instances",
		Normalize: normalize.Options{ConvertTags: true},
		Operations: []engine.Operation{
			{
				Name:        "describe_instances",
				Flag:        "describe_instances",
				Description: "Describe instances, one record per instance.",
				Field:       "Instances",
				Key:         "instances",
				Paginated:   true,
				Call: call(connect, func(ctx context.Context, c EC2Client, p ansible.Params) (any, error) {
					outputs, err := allPages[*ec2.DescribeInstancesOutput, ec2.Options](ctx, ec2.NewDescribeInstancesPaginator(c, &ec2.DescribeInstancesInput{
						InstanceIds: p.StringSlice("instance_ids"),
						Filters:     Filters(p.Map("filters")),
					}))
					if err != nil {
						return nil, fmt.Errorf("describe instances: %w", err)
					}

					pages := make([]any, 0, len(outputs))
					for _, out := range outputs {
						pages = append(pages, instancesFromOutput(out.(*ec2.DescribeInstancesOutput)))
					}
					return pages, nil
				}),
			},
			{
				Name:      "describe_vpcs",
				Flag:      "describe_vpcs",
				Field:     "Vpcs",
				Key:       "vpcs",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c EC2Client, p ansible.Params) (any, error) {
					return allPages[*ec2.DescribeVpcsOutput, ec2.Options](ctx, ec2.NewDescribeVpcsPaginator(c, &ec2.DescribeVpcsInput{
						VpcIds:  p.StringSlice("vpc_ids"),
						Filters: Filters(p.Map("filters")),
					}))
				}),
			},
			{
				Name:      "describe_subnets",
				Flag:      "describe_subnets",
				Field:     "Subnets",
				Key:       "subnets",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c EC2Client, p ansible.Params) (any, error) {
					return allPages[*ec2.DescribeSubnetsOutput, ec2.Options](ctx, ec2.NewDescribeSubnetsPaginator(c, &ec2.DescribeSubnetsInput{
						SubnetIds: p.StringSlice("subnet_ids"),
						Filters:   Filters(p.Map("filters")),
					}))
				}),
			},
			{
				Name:      "describe_security_groups",
				Flag:      "describe_security_groups",
				Field:     "SecurityGroups",
				Key:       "security_groups",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c EC2Client, p ansible.Params) (any, error) {
					return allPages[*ec2.DescribeSecurityGroupsOutput, ec2.Options](ctx, ec2.NewDescribeSecurityGroupsPaginator(c, &ec2.DescribeSecurityGroupsInput{
						GroupIds:   p.StringSlice("group_ids"),
						GroupNames: p.StringSlice("group_names"),
						Filters:    Filters(p.Map("filters")),
					}))
				}),
			},
			{
				Name:      "describe_images",
				Flag:      "describe_images",
				Field:     "Images",
				Key:       "images",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c EC2Client, p ansible.Params) (any, error) {
					owners := p.StringSlice("owners")
					if len(owners) == 0 && !p.Has("image_ids") && !p.Has("filters") {
						// without any scope DescribeImages walks every public AMI
						owners = []string{"self"}
					}
					return allPages[*ec2.DescribeImagesOutput, ec2.Options](ctx, ec2.NewDescribeImagesPaginator(c, &ec2.DescribeImagesInput{
						ImageIds: p.StringSlice("image_ids"),
						Owners:   owners,
						Filters:  Filters(p.Map("filters")),
					}))
				}),
			},
			{
				Name:      "describe_volumes",
				Flag:      "describe_volumes",
				Field:     "Volumes",
				Key:       "volumes",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c EC2Client, p ansible.Params) (any, error) {
					return allPages[*ec2.DescribeVolumesOutput, ec2.Options](ctx, ec2.NewDescribeVolumesPaginator(c, &ec2.DescribeVolumesInput{
						VolumeIds: p.StringSlice("volume_ids"),
						Filters:   Filters(p.Map("filters")),
					}))
				}),
			},
			{
				Name:      "describe_snapshots",
				Flag:      "describe_snapshots",
				Field:     "Snapshots",
				Key:       "snapshots",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c EC2Client, p ansible.Params) (any, error) {
					owners := p.StringSlice("owner_ids")
					if len(owners) == 0 && !p.Has("snapshot_ids") && !p.Has("filters") {
						owners = []string{"self"}
					}
					return allPages[*ec2.DescribeSnapshotsOutput, ec2.Options](ctx, ec2.NewDescribeSnapshotsPaginator(c, &ec2.DescribeSnapshotsInput{
						SnapshotIds: p.StringSlice("snapshot_ids"),
						OwnerIds:    owners,
						Filters:     Filters(p.Map("filters")),
					}))
				}),
			},
			{
				Name:  "describe_key_pairs",
				Flag:  "describe_key_pairs",
				Field: "KeyPairs",
				Key:   "key_pairs",
				Call: call(connect, func(ctx context.Context, c EC2Client, p ansible.Params) (any, error) {
					return c.DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{
						KeyNames: p.StringSlice("key_names"),
						Filters:  Filters(p.Map("filters")),
					})
				}),
			},
			{
				Name:  "describe_regions",
				Flag:  "describe_regions",
				Field: "Regions",
				Key:   "regions",
				Call: call(connect, func(ctx context.Context, c EC2Client, p ansible.Params) (any, error) {
					return c.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
						AllRegions: p.BoolPointer("all_regions"),
						Filters:    Filters(p.Map("filters")),
					})
				}),
			},
		},
	}
}
