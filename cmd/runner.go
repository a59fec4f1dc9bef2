package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/aws"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	"github.com/odetolakehinde/cloudinfo/pkg/config"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
	"github.com/odetolakehinde/cloudinfo/pkg/logging"
	"github.com/odetolakehinde/cloudinfo/pkg/normalize"
	"github.com/odetolakehinde/cloudinfo/pkg/rest"
)

// loadConfig reads the configuration and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if v := c.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := c.String("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if v := c.String("log-file"); v != "" {
		cfg.Log.File = v
	}
	if c.Bool("strict-fields") {
		cfg.Normalize.MissingField = normalize.FailMissing.String()
	}
	return cfg, nil
}

// newRegistry registers every module the binary ships.
func newRegistry(cfg config.Config, logger zerolog.Logger) (*engine.Registry, error) {
	reg := engine.NewRegistry()
	if err := reg.Register(aws.Modules(cfg, logger)...); err != nil {
		return nil, err
	}
	if err := reg.Register(rest.Modules(cfg, logger)...); err != nil {
		return nil, err
	}
	return reg, nil
}

// runAction executes one module invocation. Every outcome after the
// configuration is loaded is reported as a JSON result on stdout.
func (a *app) runAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return a.fail(err)
	}

	logger, closer, err := logging.New(a.stderr, logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return a.fail(err)
	}
	defer func() {
		_ = closer.Close()
	}()

	missing, err := normalize.ParseMissingFieldPolicy(cfg.Normalize.MissingField)
	if err != nil {
		return a.fail(err)
	}

	// Modules keep the logger they are built with, so the invocation is
	// resolved against a quiet registry and the modules are rebuilt once
	// _ansible_debug and _ansible_verbosity are known.
	quiet, err := newRegistry(*cfg, zerolog.Nop())
	if err != nil {
		return a.fail(err)
	}

	resolved, args, err := a.resolve(c, quiet)
	if err != nil {
		return a.fail(err)
	}

	logger = logging.Verbose(logger, args.Internal.Debug, args.Internal.Verbosity)

	reg, err := newRegistry(*cfg, logger)
	if err != nil {
		return a.fail(err)
	}
	mod, err := reg.Get(resolved.Name)
	if err != nil {
		return a.fail(err)
	}

	logger.Debug().Str(common.LogStrModule, mod.Name).Bool("check_mode", args.Internal.CheckMode).Msg("running module")

	result := engine.New(logger, missing).Run(c.Context, mod, args)
	if args.Internal.NoLog {
		delete(result, "invocation")
	}
	return a.emit(result)
}

// resolve finds the args and the module to run. The module comes from
// --module, then the binary name, then a prompt on a terminal without an
// args file, then _ansible_module_name. An args path of "-" reads a.stdin.
func (a *app) resolve(c *cli.Context, reg *engine.Registry) (engine.Module, ansible.Args, error) {
	name := c.String("module")
	if name == "" && reg.Has(a.binaryName()) {
		name = a.binaryName()
	}

	path := c.Args().First()
	if path == "" && a.interactive {
		return promptInvocation(reg, name)
	}
	if path == "" {
		path = "-"
	}

	var args ansible.Args
	var err error
	if path == "-" {
		args, err = ansible.LoadArgs(a.stdin)
	} else {
		args, err = ansible.LoadArgsFile(path)
	}
	if err != nil {
		return engine.Module{}, ansible.Args{}, err
	}

	if name == "" {
		name = args.Internal.ModuleName
	}
	if name == "" {
		return engine.Module{}, ansible.Args{}, fmt.Errorf("%w: use --module, a module-named binary or _ansible_module_name", common.ErrNoModule)
	}

	mod, err := reg.Get(name)
	if err != nil {
		return engine.Module{}, ansible.Args{}, err
	}
	return mod, args, nil
}

// fail writes err as a failure result.
func (a *app) fail(err error) error {
	return a.emit(ansible.Fail(err.Error(), nil))
}

func (a *app) emit(result ansible.Result) error {
	if err := result.Write(a.stdout); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	if result.Failed() {
		return errModuleFailed
	}
	return nil
}
