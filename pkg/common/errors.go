package common

import "errors"

var (
	// ErrConfigLoadFailure indicates failure to load AWS configuration.
	ErrConfigLoadFailure = errors.New("failed to load AWS configuration")

	// ErrAWSCallFailure indicates that an AWS API call (or one of its pages) failed.
	ErrAWSCallFailure = errors.New("failed to call AWS API")

	// ErrHTTPStatus indicates a REST API answered with a non-2xx status.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrInvalidArgsFile indicates the module arguments are unreadable, corrupt or not a JSON object.
	ErrInvalidArgsFile = errors.New("invalid module arguments - args file is unreadable, corrupt or not a JSON object")

	// ErrUnsupportedParameter indicates a parameter the module does not declare.
	ErrUnsupportedParameter = errors.New("unsupported parameters")

	// ErrInvalidParameter indicates a parameter value of the wrong type or outside its choices.
	ErrInvalidParameter = errors.New("invalid parameter value")

	// ErrMissingRequired indicates one or more required parameters were not supplied.
	ErrMissingRequired = errors.New("missing required arguments")

	// ErrMutuallyExclusive indicates parameters that cannot be combined were supplied together.
	ErrMutuallyExclusive = errors.New("parameters are mutually exclusive")

	// ErrUnsupportedOperation indicates an unknown or unsupported option combination.
	ErrUnsupportedOperation = errors.New("unsupported operation or option combination")

	// ErrModuleNotFound indicates that no module is registered under the requested name.
	ErrModuleNotFound = errors.New("module not found")

	// ErrMissingField indicates a response page does not carry the expected field.
	ErrMissingField = errors.New("response field missing")

	// ErrInvalidResponse indicates a response that cannot be turned into pages.
	ErrInvalidResponse = errors.New("invalid response shape")

	// ErrPromptFailed indicates a failure in collecting user input interactively.
	ErrPromptFailed = errors.New("interactive prompt failed")

	// ErrNoModule indicates that no module was named and none could be prompted for.
	ErrNoModule = errors.New("no module selected")
)
