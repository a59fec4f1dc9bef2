package aws

import (
	"errors"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"

	"github.com/odetolakehinde/cloudinfo/pkg/common"
)

// APIFailure is an SDK error with the fields Ansible failure objects carry.
type APIFailure struct {
	Err        error
	Code       string
	Message    string
	StatusCode int
	RequestID  string
}

func (e *APIFailure) Error() string {
	return e.Err.Error()
}

// Unwrap exposes both the ErrAWSCallFailure sentinel and the SDK error.
func (e *APIFailure) Unwrap() []error {
	return []error{common.ErrAWSCallFailure, e.Err}
}

// Details returns the error and response_metadata blocks.
func (e *APIFailure) Details() map[string]any {
	details := map[string]any{}
	if e.Code != "" || e.Message != "" {
		details["error"] = map[string]any{
			"code":    e.Code,
			"message": e.Message,
		}
	}
	if e.StatusCode != 0 || e.RequestID != "" {
		details["response_metadata"] = map[string]any{
			"http_status_code": e.StatusCode,
			"request_id":       e.RequestID,
		}
	}
	return details
}

// wrapAPIError turns any SDK error into an *APIFailure.
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}

	var existing *APIFailure
	if errors.As(err, &existing) {
		return err
	}

	failure := &APIFailure{Err: err}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		failure.Code = apiErr.ErrorCode()
		failure.Message = apiErr.ErrorMessage()
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		failure.StatusCode = respErr.HTTPStatusCode()
		failure.RequestID = respErr.ServiceRequestID()
	}

	return failure
}
