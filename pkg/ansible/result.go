package ansible

import (
	"encoding/json"
	"io"
)

// NoLogPlaceholder replaces no_log values in the echoed invocation.
const NoLogPlaceholder = "VALUE_SPECIFIED_IN_NO_LOG_PARAMETER"

// Result is the JSON object a module prints on stdout.
type Result map[string]any

// Exit builds a successful, unchanged result with value under key.
func Exit(key string, value any) Result {
	return Result{
		"changed": false,
		key:       value,
	}
}

// Fail builds a failure result. details are merged in without overriding
// "failed" or "msg".
func Fail(msg string, details map[string]any) Result {
	r := Result{}
	for k, v := range details {
		r[k] = v
	}
	r["failed"] = true
	r["msg"] = msg
	return r
}

// Failed reports whether r is a failure result.
func (r Result) Failed() bool {
	failed, _ := r["failed"].(bool)
	return failed
}

// WithInvocation echoes the module arguments back, the way Ansible does.
func (r Result) WithInvocation(moduleArgs map[string]any) Result {
	r["invocation"] = map[string]any{"module_args": moduleArgs}
	return r
}

// Write encodes r as a single JSON document.
func (r Result) Write(w io.Writer) error {
	return json.NewEncoder(w).Encode(r)
}
