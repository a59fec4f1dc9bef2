package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/rs/zerolog"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	appconfig "github.com/odetolakehinde/cloudinfo/pkg/config"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
)

// LoadConfigFunc matches config.LoadDefaultConfig.
type LoadConfigFunc func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error)

// Session turns module connection parameters into an aws.Config.
type Session struct {
	defaults appconfig.AWSConfig
	logger   zerolog.Logger
	load     LoadConfigFunc
}

// NewSession creates a Session with configuration defaults.
func NewSession(defaults appconfig.AWSConfig, logger zerolog.Logger) *Session {
	return &Session{
		defaults: defaults,
		logger:   logger.With().Str(common.LogStrLayer, "aws").Logger(),
		load:     config.LoadDefaultConfig,
	}
}

// ConnectionSpec holds the connection options every AWS module accepts.
func ConnectionSpec() ansible.ArgumentSpec {
	return ansible.ArgumentSpec{
		Options: map[string]ansible.Option{
			"region": {
				Type:        ansible.TypeStr,
				Aliases:     []string{"aws_region", "ec2_region"},
				Description: "AWS region; falls back to configuration and the SDK's default chain.",
			},
			"profile": {
				Type:        ansible.TypeStr,
				Aliases:     []string{"aws_profile"},
				Description: "Named profile from the shared AWS config files.",
			},
			"access_key": {
				Type:        ansible.TypeStr,
				Aliases:     []string{"aws_access_key_id", "aws_access_key", "ec2_access_key"},
				Description: "Static access key id.",
			},
			"secret_key": {
				Type:        ansible.TypeStr,
				Aliases:     []string{"aws_secret_access_key", "aws_secret_key", "ec2_secret_key"},
				NoLog:       true,
				Description: "Static secret access key.",
			},
			"session_token": {
				Type:        ansible.TypeStr,
				Aliases:     []string{"aws_session_token", "security_token"},
				NoLog:       true,
				Description: "Session token for temporary credentials.",
			},
			"endpoint_url": {
				Type:        ansible.TypeStr,
				Aliases:     []string{"aws_endpoint_url", "ec2_url"},
				Description: "Custom service endpoint.",
			},
		},
		RequiredTogether:  [][]string{{"access_key", "secret_key"}},
		MutuallyExclusive: [][]string{{"profile", "access_key"}},
	}
}

// Config builds the aws.Config for one invocation. Parameters win over the
// configuration defaults; retries are left to the SDK retryer.
func (s *Session) Config(ctx context.Context, params ansible.Params) (aws.Config, error) {
	log := s.logger.With().Str(common.LogStrMethod, "Config").Logger()

	var optFns []func(*config.LoadOptions) error

	if region := firstNonEmpty(params.String("region"), s.defaults.Region); region != "" {
		optFns = append(optFns, config.WithRegion(region))
	}
	if profile := firstNonEmpty(params.String("profile"), s.defaults.Profile); profile != "" && !params.Has("access_key") {
		optFns = append(optFns, config.WithSharedConfigProfile(profile))
	}
	if params.Has("access_key") && params.Has("secret_key") {
		provider := credentials.NewStaticCredentialsProvider(
			params.String("access_key"),
			params.String("secret_key"),
			params.String("session_token"),
		)
		optFns = append(optFns, config.WithCredentialsProvider(provider))
	}
	if endpoint := firstNonEmpty(params.String("endpoint_url"), s.defaults.EndpointURL); endpoint != "" {
		optFns = append(optFns, config.WithBaseEndpoint(endpoint))
	}
	if s.defaults.MaxAttempts > 0 {
		optFns = append(optFns, config.WithRetryMaxAttempts(s.defaults.MaxAttempts))
	}
	if s.defaults.RetryMode != "" {
		mode, err := aws.ParseRetryMode(s.defaults.RetryMode)
		if err != nil {
			return aws.Config{}, fmt.Errorf("%w: %v", common.ErrConfigLoadFailure, err)
		}
		optFns = append(optFns, config.WithRetryMode(mode))
	}

	cfg, err := s.load(ctx, optFns...)
	if err != nil {
		log.Err(err).Msg("unable to load AWS config")
		return aws.Config{}, fmt.Errorf("%w: %v", common.ErrConfigLoadFailure, err)
	}

	if cfg.Region == "" {
		return aws.Config{}, fmt.Errorf("%w: AWS region not specified (set region, AWS_REGION or aws.region)", common.ErrConfigLoadFailure)
	}

	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return cfg, nil
}

// Connector produces a service client for one invocation.
type Connector[C any] func(ctx context.Context, params ansible.Params) (C, error)

// NewConnector builds clients of type C from the session's aws.Config.
func NewConnector[C any](s *Session, build func(aws.Config) C) Connector[C] {
	return func(ctx context.Context, params ansible.Params) (C, error) {
		cfg, err := s.Config(ctx, params)
		if err != nil {
			var zero C
			return zero, err
		}
		return build(cfg), nil
	}
}

// StaticConnector always hands out client. Tests use it.
func StaticConnector[C any](client C) Connector[C] {
	return func(context.Context, ansible.Params) (C, error) {
		return client, nil
	}
}

// call binds an SDK call to a connector and maps SDK errors.
func call[C any](connect Connector[C], fn func(ctx context.Context, c C, p ansible.Params) (any, error)) engine.CallFunc {
	return func(ctx context.Context, p ansible.Params) (any, error) {
		client, err := connect(ctx, p)
		if err != nil {
			return nil, err
		}

		out, err := fn(ctx, client, p)
		if err != nil {
			return nil, wrapAPIError(err)
		}
		return out, nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
