package common

type (
	// Page is one decoded API response envelope.
	Page = map[string]any

	// ModuleInfo summarizes a registered module for listings.
	ModuleInfo struct {
		Name        string   `json:"name" yaml:"name"`
		Provider    string   `json:"provider" yaml:"provider"`
		Description string   `json:"description" yaml:"description"`
		Operations  []string `json:"operations" yaml:"operations"`
		Default     string   `json:"default_operation" yaml:"default_operation"`
	}
)

const (
	// LogStrLayer is string representation of the layer level in the logs
	LogStrLayer = "layer"
	// LogStrMethod is string representation of the methods in the logs
	LogStrMethod = "method"
	// LogStrModule is string representation of the module name in the logs
	LogStrModule = "module"
	// LogStrOperation is string representation of the dispatched operation in the logs
	LogStrOperation = "operation"
	// LogStrInvocation is string representation of the invocation id in the logs
	LogStrInvocation = "invocation"

	// ProviderAWS names modules backed by the AWS SDK.
	ProviderAWS = "aws"
	// ProviderMinio names modules talking to Minio's S3 API.
	ProviderMinio = "minio"
	// ProviderCheckly names the Checkly REST module.
	ProviderCheckly = "checkly"
	// ProviderStatusCake names the StatusCake REST module.
	ProviderStatusCake = "statuscake"
)
