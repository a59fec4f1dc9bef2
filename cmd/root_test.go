package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odetolakehinde/cloudinfo/pkg/common"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// invoke runs the CLI and decodes the single JSON result on stdout.
func invoke(t *testing.T, argv0, stdin string, args ...string) (map[string]any, error) {
	t.Helper()

	var stdout bytes.Buffer
	a := &app{
		stdin:  strings.NewReader(stdin),
		stdout: &stdout,
		stderr: io.Discard,
		argv0:  argv0,
	}
	err := a.cli().Run(append([]string{argv0}, args...))

	var result map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result), stdout.String())
	return result, err
}

func TestRun_BusyboxModuleFromStdin(t *testing.T) {
	isolate(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checks", r.URL.Path)
		assert.Equal(t, "acct-1", r.Header.Get("X-Checkly-Account"))
		_, _ = fmt.Fprint(w, `[{"id":"c1","checkType":"API"}]`)
	}))
	defer srv.Close()

	cfgPath := writeFile(t, "cloudinfo.yaml", "checkly:\n  base_url: "+srv.URL+"\n  account_id: acct-1\n")

	result, err := invoke(t, "/usr/local/bin/checkly_info",
		`{"ANSIBLE_MODULE_ARGS": {"api_key": "secret", "_ansible_check_mode": true}}`,
		"--config", cfgPath)

	require.NoError(t, err)
	assert.Equal(t, false, result["changed"])
	assert.Equal(t, []any{map[string]any{"id": "c1", "check_type": "API"}}, result["checks"])

	args := result["invocation"].(map[string]any)["module_args"].(map[string]any)
	assert.Equal(t, "VALUE_SPECIFIED_IN_NO_LOG_PARAMETER", args["api_key"])
}

func TestRun_AnsibleDebugReachesModuleLayers(t *testing.T) {
	isolate(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"data":[],"metadata":{"page_count":1}}`)
	}))
	defer srv.Close()

	cfgPath := writeFile(t, "cloudinfo.yaml", "statuscake:\n  base_url: "+srv.URL+"\n")

	tests := []struct {
		name      string
		internal  string
		wantDebug bool
	}{
		{name: "debug", internal: `"_ansible_debug": true`, wantDebug: true},
		{name: "verbosity 3", internal: `"_ansible_verbosity": 3`, wantDebug: true},
		{name: "quiet", internal: `"_ansible_verbosity": 1`, wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			a := &app{
				stdin:  strings.NewReader(`{"api_key": "k", ` + tt.internal + `}`),
				stdout: &stdout,
				stderr: &stderr,
				argv0:  "cloudinfo",
			}
			require.NoError(t, a.cli().Run([]string{"cloudinfo", "--config", cfgPath, "--module", "statuscake_info", "-"}))

			logs := stderr.String()
			if tt.wantDebug {
				assert.Contains(t, logs, `"layer":"rest"`)
				assert.Contains(t, logs, `"path":"/v1/uptime"`)
			} else {
				assert.NotContains(t, logs, `"layer":"rest"`)
			}
		})
	}
}

func TestRun_ArgsFileWithModuleFlag(t *testing.T) {
	isolate(t)
	argsPath := writeFile(t, "args", `{"bogus": 1}`)

	result, err := invoke(t, "cloudinfo", "", "--module", "aws_caller_info", argsPath)

	assert.ErrorIs(t, err, errModuleFailed)
	assert.Equal(t, true, result["failed"])
	assert.Contains(t, result["msg"], "Unsupported parameters for (aws_caller_info) module: bogus")
}

func TestRun_ModuleNameFromArgs(t *testing.T) {
	isolate(t)

	result, err := invoke(t, "cloudinfo", `{"_ansible_module_name": "no_such_info"}`)

	assert.ErrorIs(t, err, errModuleFailed)
	assert.Contains(t, result["msg"], common.ErrModuleNotFound.Error())
}

func TestRun_NoModule(t *testing.T) {
	isolate(t)

	result, err := invoke(t, "cloudinfo", `{}`, "run")

	assert.ErrorIs(t, err, errModuleFailed)
	assert.Contains(t, result["msg"], common.ErrNoModule.Error())
}

func TestRun_BadArgsFile(t *testing.T) {
	isolate(t)

	result, err := invoke(t, "cloudinfo", "", "--module", "aws_s3_info", filepath.Join(t.TempDir(), "missing"))

	assert.ErrorIs(t, err, errModuleFailed)
	assert.Contains(t, result["msg"], "invalid module arguments")
}

func TestModulesCommand_JSON(t *testing.T) {
	isolate(t)

	var stdout bytes.Buffer
	a := &app{stdin: strings.NewReader(""), stdout: &stdout, stderr: io.Discard, argv0: "cloudinfo"}
	require.NoError(t, a.cli().Run([]string{"cloudinfo", "modules", "--format", "json"}))

	var infos []common.ModuleInfo
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &infos))
	require.Len(t, infos, 12)
	assert.Equal(t, "aws_caller_info", infos[0].Name)
	assert.Equal(t, "statuscake_info", infos[len(infos)-1].Name)
}

func TestDocCommand(t *testing.T) {
	isolate(t)

	var stdout bytes.Buffer
	a := &app{stdin: strings.NewReader(""), stdout: &stdout, stderr: io.Discard, argv0: "cloudinfo"}
	require.NoError(t, a.cli().Run([]string{"cloudinfo", "doc", "aws_s3_info"}))

	out := stdout.String()
	assert.Contains(t, out, "module: aws_s3_info")
	assert.Contains(t, out, "default_operation: list_buckets")
	assert.Contains(t, out, "no_log: true")
	assert.Contains(t, out, "- name: get_bucket_tagging")
}

func TestPrintModules_Text(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	err := printModules(&buf, []common.ModuleInfo{{
		Name:        "aws_s3_info",
		Provider:    "aws",
		Description: "S3 facts.",
		Operations:  []string{"list_buckets", "list_objects"},
		Default:     "list_buckets",
	}}, "text")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "aws_s3_info")
	assert.Contains(t, buf.String(), "[aws] S3 facts.")
	assert.Contains(t, buf.String(), "list_buckets*, list_objects")
}

func TestPrintModules_UnknownFormat(t *testing.T) {
	err := printModules(&bytes.Buffer{}, nil, "xml")
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
}

func TestParseKeyValues(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[string]any
		wantErr bool
	}{
		{name: "empty", raw: "", want: map[string]any{}},
		{name: "pairs", raw: "region=eu-west-1, bucket = logs", want: map[string]any{"region": "eu-west-1", "bucket": "logs"}},
		{name: "list value", raw: "instance_ids=i-1|i-2", want: map[string]any{"instance_ids": []any{"i-1", "i-2"}}},
		{name: "missing equals", raw: "region", wantErr: true},
		{name: "empty key", raw: "=x", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseKeyValues(tc.raw)
			if tc.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
