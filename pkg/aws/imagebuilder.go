package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/imagebuilder"
	ibtypes "github.com/aws/aws-sdk-go-v2/service/imagebuilder/types"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
	"github.com/odetolakehinde/cloudinfo/pkg/normalize"
)

// ImageBuilderClient defines the Image Builder operations used in this package.
// Method signatures include ...func(*imagebuilder.Options) to satisfy
// the SDK paginator API client interfaces via structural typing.
type ImageBuilderClient interface {
	ListComponents(ctx context.Context, params *imagebuilder.ListComponentsInput, optFns ...func(*imagebuilder.Options)) (*imagebuilder.ListComponentsOutput, error)
	ListImageRecipes(ctx context.Context, params *imagebuilder.ListImageRecipesInput, optFns ...func(*imagebuilder.Options)) (*imagebuilder.ListImageRecipesOutput, error)
	ListImagePipelines(ctx context.Context, params *imagebuilder.ListImagePipelinesInput, optFns ...func(*imagebuilder.Options)) (*imagebuilder.ListImagePipelinesOutput, error)
	ListImages(ctx context.Context, params *imagebuilder.ListImagesInput, optFns ...func(*imagebuilder.Options)) (*imagebuilder.ListImagesOutput, error)
	ListInfrastructureConfigurations(ctx context.Context, params *imagebuilder.ListInfrastructureConfigurationsInput, optFns ...func(*imagebuilder.Options)) (*imagebuilder.ListInfrastructureConfigurationsOutput, error)
	ListDistributionConfigurations(ctx context.Context, params *imagebuilder.ListDistributionConfigurationsInput, optFns ...func(*imagebuilder.Options)) (*imagebuilder.ListDistributionConfigurationsOutput, error)
	GetImagePipeline(ctx context.Context, params *imagebuilder.GetImagePipelineInput, optFns ...func(*imagebuilder.Options)) (*imagebuilder.GetImagePipelineOutput, error)
}

// NewImageBuilderConnector builds Image Builder clients from the session.
func NewImageBuilderConnector(s *Session) Connector[ImageBuilderClient] {
	return NewConnector(s, func(cfg aws.Config) ImageBuilderClient {
		return imagebuilder.NewFromConfig(cfg)
	})
}

func imageBuilderFilters(raw map[string]any) []ibtypes.Filter {
	var filters []ibtypes.Filter
	for _, f := range Filters(raw) {
		filters = append(filters, ibtypes.Filter{Name: f.Name, Values: f.Values})
	}
	return filters
}

// ImageBuilderModule is aws_imagebuilder_info.
func ImageBuilderModule(connect Connector[ImageBuilderClient]) engine.Module {
	return engine.Module{
		Name:        "aws_imagebuilder_info",
		Provider:    common.ProviderAWS,
		Description: "Gather facts about EC2 Image Builder components, recipes, pipelines, images and configurations.",
		Common:      ConnectionSpec(),
		Options: ansible.ArgumentSpec{Options: map[string]ansible.Option{
			"owner": {
				Type:        ansible.TypeStr,
				Choices:     []string{"Self", "Shared", "Amazon", "ThirdParty", "AWSMarketplace"},
				Default:     "Self",
				Description: "Owner filter for components, recipes and images.",
			},
			"filters":            {Type: ansible.TypeDict, Description: "Image Builder filters, name to value or list of values."},
			"image_pipeline_arn": {Type: ansible.TypeStr, Description: "Pipeline to fetch with get_image_pipeline."},
		}},
		Default:   "list_components",
		ResultKey: "components",
		Normalize: normalize.Options{IgnoreKeys: []string{"Tags"}},
		Operations: []engine.Operation{
			{
				Name:      "list_components",
				Flag:      "list_components",
				Field:     "ComponentVersionList",
				Key:       "components",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c ImageBuilderClient, p ansible.Params) (any, error) {
					return allPages[*imagebuilder.ListComponentsOutput, imagebuilder.Options](ctx, imagebuilder.NewListComponentsPaginator(c, &imagebuilder.ListComponentsInput{
						Owner:   ibtypes.Ownership(p.String("owner")),
						Filters: imageBuilderFilters(p.Map("filters")),
					}))
				}),
			},
			{
				Name:      "list_image_recipes",
				Flag:      "list_image_recipes",
				Field:     "ImageRecipeSummaryList",
				Key:       "image_recipes",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c ImageBuilderClient, p ansible.Params) (any, error) {
					return allPages[*imagebuilder.ListImageRecipesOutput, imagebuilder.Options](ctx, imagebuilder.NewListImageRecipesPaginator(c, &imagebuilder.ListImageRecipesInput{
						Owner:   ibtypes.Ownership(p.String("owner")),
						Filters: imageBuilderFilters(p.Map("filters")),
					}))
				}),
			},
			{
				Name:      "list_image_pipelines",
				Flag:      "list_image_pipelines",
				Field:     "ImagePipelineList",
				Key:       "image_pipelines",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c ImageBuilderClient, p ansible.Params) (any, error) {
					return allPages[*imagebuilder.ListImagePipelinesOutput, imagebuilder.Options](ctx, imagebuilder.NewListImagePipelinesPaginator(c, &imagebuilder.ListImagePipelinesInput{
						Filters: imageBuilderFilters(p.Map("filters")),
					}))
				}),
			},
			{
				Name:      "list_images",
				Flag:      "list_images",
				Field:     "ImageVersionList",
				Key:       "images",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c ImageBuilderClient, p ansible.Params) (any, error) {
					return allPages[*imagebuilder.ListImagesOutput, imagebuilder.Options](ctx, imagebuilder.NewListImagesPaginator(c, &imagebuilder.ListImagesInput{
						Owner:   ibtypes.Ownership(p.String("owner")),
						Filters: imageBuilderFilters(p.Map("filters")),
					}))
				}),
			},
			{
				Name:      "list_infrastructure_configurations",
				Flag:      "list_infrastructure_configurations",
				Field:     "InfrastructureConfigurationSummaryList",
				Key:       "infrastructure_configurations",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c ImageBuilderClient, p ansible.Params) (any, error) {
					return allPages[*imagebuilder.ListInfrastructureConfigurationsOutput, imagebuilder.Options](ctx, imagebuilder.NewListInfrastructureConfigurationsPaginator(c, &imagebuilder.ListInfrastructureConfigurationsInput{
						Filters: imageBuilderFilters(p.Map("filters")),
					}))
				}),
			},
			{
				Name:      "list_distribution_configurations",
				Flag:      "list_distribution_configurations",
				Field:     "DistributionConfigurationSummaryList",
				Key:       "distribution_configurations",
				Paginated: true,
				Call: call(connect, func(ctx context.Context, c ImageBuilderClient, p ansible.Params) (any, error) {
					return allPages[*imagebuilder.ListDistributionConfigurationsOutput, imagebuilder.Options](ctx, imagebuilder.NewListDistributionConfigurationsPaginator(c, &imagebuilder.ListDistributionConfigurationsInput{
						Filters: imageBuilderFilters(p.Map("filters")),
					}))
				}),
			},
			{
				Name:     "get_image_pipeline",
				Flag:     "get_image_pipeline",
				Requires: []string{"image_pipeline_arn"},
				Field:    "ImagePipeline",
				Key:      "image_pipeline",
				Call: call(connect, func(ctx context.Context, c ImageBuilderClient, p ansible.Params) (any, error) {
					return c.GetImagePipeline(ctx, &imagebuilder.GetImagePipelineInput{
						ImagePipelineArn: p.StringPointer("image_pipeline_arn"),
					})
				}),
			},
		},
	}
}
