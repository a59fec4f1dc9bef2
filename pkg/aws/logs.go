package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
)

// LogsClient defines the CloudWatch Logs methods used by this application.
type LogsClient interface {
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	DescribeLogStreams(ctx context.Context, params *cloudwatchlogs.DescribeLogStreamsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogStreamsOutput, error)
	DescribeMetricFilters(ctx context.Context, params *cloudwatchlogs.DescribeMetricFiltersInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeMetricFiltersOutput, error)
	DescribeSubscriptionFilters(ctx context.Context, params *cloudwatchlogs.DescribeSubscriptionFiltersInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeSubscriptionFiltersOutput, error)
}

// NewLogsConnector builds CloudWatch Logs clients from the session.
func NewLogsConnector(s *Session) Connector[LogsClient] {
	return NewConnector(s, func(cfg aws.Config) LogsClient {
		return cloudwatchlogs.NewFromConfig(cfg)
	})
}

// LogsModule is aws_logs_info.
func LogsModule(connect Connector[LogsClient]) engine.Module {
	return engine.Module{
		Name:        "aws_logs_info",
		Provider:    common.ProviderAWS,
		Description: "Gather facts about CloudWatch log groups, streams, metric filters and subscription filters.",
		Common:      ConnectionSpec(),
		Options: ansible.ArgumentSpec{
			Options: map[string]ansible.Option{
				"log_group_name":         {Type: ansible.TypeStr, Description: "Log group for stream and filter operations."},
				"log_group_name_prefix":  {Type: ansible.TypeStr, Aliases: []string{"prefix"}, Description: "Prefix for describe_log_groups."},
				"log_stream_name_prefix": {Type: ansible.TypeStr, Description: "Prefix for describe_log_streams."},
				"filter_name_prefix":     {Type: ansible.TypeStr, Description: "Prefix for metric and subscription filters."},
				"metric_name":            {Type: ansible.TypeStr, Description: "Metric name for describe_metric_filters; needs metric_namespace."},
				"metric_namespace":       {Type: ansible.TypeStr, Description: "Metric namespace for describe_metric_filters."},
			},
			RequiredTogether:  [][]string{{"metric_name", "metric_namespace"}},
			MutuallyExclusive: [][]string{{"log_group_name", "log_group_name_prefix"}},
		},
		Default:   "describe_log_groups",
		ResultKey: "log_groups",
		Operations: []engine.Operation{
			{
				Name:      "describe_log_groups",
				Flag:      "describe_log_groups",
				Field:     "LogGroups",
				Key:       "log_groups",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c LogsClient, p ansible.Params) (any, error) {
					return allPages[*cloudwatchlogs.DescribeLogGroupsOutput, cloudwatchlogs.Options](ctx, cloudwatchlogs.NewDescribeLogGroupsPaginator(c, &cloudwatchlogs.DescribeLogGroupsInput{
						LogGroupNamePrefix: p.StringPointer("log_group_name_prefix"),
					}))
				}),
			},
			{
				Name:      "describe_log_streams",
				Flag:      "describe_log_streams",
				Requires:  []string{"log_group_name"},
				Field:     "LogStreams",
				Key:       "log_streams",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c LogsClient, p ansible.Params) (any, error) {
					return allPages[*cloudwatchlogs.DescribeLogStreamsOutput, cloudwatchlogs.Options](ctx, cloudwatchlogs.NewDescribeLogStreamsPaginator(c, &cloudwatchlogs.DescribeLogStreamsInput{
						LogGroupName:        p.StringPointer("log_group_name"),
						LogStreamNamePrefix: p.StringPointer("log_stream_name_prefix"),
					}))
				}),
			},
			{
				Name:      "describe_metric_filters",
				Flag:      "describe_metric_filters",
				Field:     "MetricFilters",
				Key:       "metric_filters",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c LogsClient, p ansible.Params) (any, error) {
					return allPages[*cloudwatchlogs.DescribeMetricFiltersOutput, cloudwatchlogs.Options](ctx, cloudwatchlogs.NewDescribeMetricFiltersPaginator(c, &cloudwatchlogs.DescribeMetricFiltersInput{
						LogGroupName:     p.StringPointer("log_group_name"),
						FilterNamePrefix: p.StringPointer("filter_name_prefix"),
						MetricName:       p.StringPointer("metric_name"),
						MetricNamespace:  p.StringPointer("metric_namespace"),
					}))
				}),
			},
			{
				Name:      "describe_subscription_filters",
				Flag:      "describe_subscription_filters",
				Requires:  []string{"log_group_name"},
				Field:     "SubscriptionFilters",
				Key:       "subscription_filters",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c LogsClient, p ansible.Params) (any, error) {
					return allPages[*cloudwatchlogs.DescribeSubscriptionFiltersOutput, cloudwatchlogs.Options](ctx, cloudwatchlogs.NewDescribeSubscriptionFiltersPaginator(c, &cloudwatchlogs.DescribeSubscriptionFiltersInput{
						LogGroupName:     p.StringPointer("log_group_name"),
						FilterNamePrefix: p.StringPointer("filter_name_prefix"),
					}))
				}),
			},
		},
	}
}
