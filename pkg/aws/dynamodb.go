package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
)

// DynamoDBClient defines the DynamoDB methods used by this application.
type DynamoDBClient interface {
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// NewDynamoDBConnector builds DynamoDB clients from the session.
func NewDynamoDBConnector(s *Session) Connector[DynamoDBClient] {
	return NewConnector(s, func(cfg aws.Config) DynamoDBClient {
		return dynamodb.NewFromConfig(cfg)
	})
}

// DynamoDBModule is aws_dynamodb_info. list_tables yields plain table names.
func DynamoDBModule(connect Connector[DynamoDBClient]) engine.Module {
	return engine.Module{
		Name:        "aws_dynamodb_info",
		Provider:    common.ProviderAWS,
		Description: "Gather facts about DynamoDB tables.",
		Common:      ConnectionSpec(),
		Options: ansible.ArgumentSpec{Options: map[string]ansible.Option{
			"table_name": {Type: ansible.TypeStr, Aliases: []string{"name"}, Description: "Table for describe_table."},
		}},
		Default:   "list_tables",
		ResultKey: "tables",
		Operations: []engine.Operation{
			{
				Name:      "list_tables",
				Flag:      "list_tables",
				Field:     "TableNames",
				Key:       "tables",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c DynamoDBClient, _ ansible.Params) (any, error) {
					return allPages[*dynamodb.ListTablesOutput, dynamodb.Options](ctx, dynamodb.NewListTablesPaginator(c, &dynamodb.ListTablesInput{}))
				}),
			},
			{
				Name:     "describe_table",
				Flag:     "describe_table",
				Requires: []string{"table_name"},
				Field:    "Table",
				Key:      "table",
				Call: call(connect, func(ctx context.Context, c DynamoDBClient, p ansible.Params) (any, error) {
					return c.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: p.StringPointer("table_name")})
				}),
			},
		},
	}
}
