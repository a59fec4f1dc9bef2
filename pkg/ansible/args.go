// Package ansible implements the binary module contract: arguments in as JSON,
// validated against an argument spec, one JSON result object out.
package ansible

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/odetolakehinde/cloudinfo/pkg/common"
)

const (
	// wrapperKey is the envelope some Ansible versions put around the arguments.
	wrapperKey = "ANSIBLE_MODULE_ARGS"
	// internalPrefix marks controller-supplied keys that are not module options.
	internalPrefix = "_ansible_"
)

// Internal holds the controller-supplied _ansible_* keys this runner understands.
type Internal struct {
	CheckMode  bool
	NoLog      bool
	Debug      bool
	Verbosity  int
	ModuleName string
}

// Args is a parsed module invocation.
type Args struct {
	Params   map[string]any
	Internal Internal
}

// LoadArgsFile reads module arguments from path. "-" reads stdin.
func LoadArgsFile(path string) (Args, error) {
	if path == "-" {
		return LoadArgs(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return Args{}, fmt.Errorf("%w: %v", common.ErrInvalidArgsFile, err)
	}
	defer func() {
		_ = f.Close()
	}()

	return LoadArgs(f)
}

// LoadArgs decodes module arguments from r. A bare object and one wrapped in
// ANSIBLE_MODULE_ARGS are both accepted; empty input means no arguments.
func LoadArgs(r io.Reader) (Args, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Args{}, fmt.Errorf("%w: %v", common.ErrInvalidArgsFile, err)
	}

	args := Args{Params: map[string]any{}}
	if len(bytes.TrimSpace(raw)) == 0 {
		return args, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var decoded map[string]any
	if err := dec.Decode(&decoded); err != nil {
		return Args{}, fmt.Errorf("%w: %v", common.ErrInvalidArgsFile, err)
	}

	if wrapped, ok := decoded[wrapperKey]; ok {
		inner, ok := wrapped.(map[string]any)
		if !ok {
			return Args{}, fmt.Errorf("%w: %s is %T, want an object", common.ErrInvalidArgsFile, wrapperKey, wrapped)
		}
		decoded = inner
	}

	for k, v := range decoded {
		if !strings.HasPrefix(k, internalPrefix) {
			args.Params[k] = v
			continue
		}
		args.Internal.set(strings.TrimPrefix(k, internalPrefix), v)
	}

	return args, nil
}

func (in *Internal) set(key string, v any) {
	switch key {
	case "check_mode":
		in.CheckMode, _ = toBool(v)
	case "no_log":
		in.NoLog, _ = toBool(v)
	case "debug":
		in.Debug, _ = toBool(v)
	case "verbosity":
		if n, err := toInt(v); err == nil {
			in.Verbosity = n
		}
	case "module_name":
		in.ModuleName = common.ToString(v)
	}
}
