package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
	"github.com/odetolakehinde/cloudinfo/pkg/normalize"
)

// S3Client defines the S3 methods used by the S3 and Minio modules.
type S3Client interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetBucketTagging(ctx context.Context, params *s3.GetBucketTaggingInput, optFns ...func(*s3.Options)) (*s3.GetBucketTaggingOutput, error)
}

// NewS3Connector builds S3 clients from the session.
func NewS3Connector(s *Session) Connector[S3Client] {
	return NewConnector(s, func(cfg aws.Config) S3Client {
		return s3.NewFromConfig(cfg)
	})
}

func bucketOptions() map[string]ansible.Option {
	return map[string]ansible.Option{
		"bucket":   {Type: ansible.TypeStr, Aliases: []string{"name", "bucket_name"}, Description: "Bucket for object and tagging operations."},
		"prefix":   {Type: ansible.TypeStr, Description: "Key prefix for list_objects."},
		"max_keys": {Type: ansible.TypeInt, Min: 1, Max: 1000, Description: "Page size for list_objects."},
	}
}

func listBucketsOperation(connect Connector[S3Client]) engine.Operation {
	return engine.Operation{
		Name:  "list_buckets",
		Flag:  "list_buckets",
		Field: "Buckets",
		Key:   "buckets",
		Call: call(connect, func(ctx context.Context, c S3Client, _ ansible.Params) (any, error) {
			return c.ListBuckets(ctx, &s3.ListBucketsInput{})
		}),
	}
}

func listObjectsOperation(connect Connector[S3Client]) engine.Operation {
	return engine.Operation{
		Name:      "list_objects",
		Flag:      "list_objects",
		Requires:  []string{"bucket"},
		Field:     "Contents",
		Key:       "objects",
		Paginated: true,
		Call: call(connect, func(ctx context.Context, c S3Client, p ansible.Params) (any, error) {
			return allPages[*s3.ListObjectsV2Output, s3.Options](ctx, s3.NewListObjectsV2Paginator(c, &s3.ListObjectsV2Input{
				Bucket:  p.StringPointer("bucket"),
				Prefix:  p.StringPointer("prefix"),
				MaxKeys: p.Int32Pointer("max_keys"),
			}))
		}),
	}
}

// S3Module is aws_s3_info.
func S3Module(connect Connector[S3Client]) engine.Module {
	return engine.Module{
		Name:        "aws_s3_info",
		Provider:    common.ProviderAWS,
		Description: "Gather facts about S3 buckets, objects and bucket tags.",
		Common:      ConnectionSpec(),
		Options:     ansible.ArgumentSpec{Options: bucketOptions()},
		Default:     "list_buckets",
		ResultKey:   "buckets",
		Normalize:   normalize.Options{ConvertTags: true},
		Operations: []engine.Operation{
			listBucketsOperation(connect),
			listObjectsOperation(connect),
			{
				Name:     "get_bucket_tagging",
				Flag:     "get_bucket_tagging",
				Requires: []string{"bucket"},
				Key:      "bucket_tagging",
				Call: call(connect, func(ctx context.Context, c S3Client, p ansible.Params) (any, error) {
					return c.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{Bucket: p.StringPointer("bucket")})
				}),
			},
		},
	}
}
