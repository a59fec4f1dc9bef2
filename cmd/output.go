package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
)

type (
	// moduleDoc is the YAML documentation of one module.
	moduleDoc struct {
		Module            string                    `yaml:"module"`
		Provider          string                    `yaml:"provider"`
		ShortDescription  string                    `yaml:"short_description"`
		DefaultOperation  string                    `yaml:"default_operation"`
		Options           map[string]ansible.Option `yaml:"options"`
		MutuallyExclusive [][]string                `yaml:"mutually_exclusive,omitempty"`
		RequiredTogether  [][]string                `yaml:"required_together,omitempty"`
		Operations        []operationDoc            `yaml:"operations"`
	}

	operationDoc struct {
		Name      string   `yaml:"name"`
		Flag      string   `yaml:"flag,omitempty"`
		Requires  []string `yaml:"requires,omitempty"`
		ReturnKey string   `yaml:"returns"`
		Paginated bool     `yaml:"paginated,omitempty"`
	}
)

// quietRegistry builds the registry for listing commands, logging nothing.
func quietRegistry(c *cli.Context) (*engine.Registry, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return newRegistry(*cfg, zerolog.Nop())
}

func (a *app) modulesAction(c *cli.Context) error {
	reg, err := quietRegistry(c)
	if err != nil {
		return err
	}

	infos := make([]common.ModuleInfo, 0)
	for _, m := range reg.Modules() {
		infos = append(infos, m.Info())
	}
	return printModules(a.stdout, infos, c.String("format"))
}

func (a *app) docAction(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("%w: doc needs a module name", common.ErrNoModule)
	}

	reg, err := quietRegistry(c)
	if err != nil {
		return err
	}
	mod, err := reg.Get(name)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(a.stdout)
	enc.SetIndent(2)
	defer func() {
		_ = enc.Close()
	}()
	return enc.Encode(documentModule(mod))
}

// printModules renders the module catalog.
func printModules(w io.Writer, infos []common.ModuleInfo, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "yaml":
		return yaml.NewEncoder(w).Encode(infos)
	case "", "text":
	default:
		return fmt.Errorf("%w: format %q (want text, yaml or json)", common.ErrInvalidParameter, format)
	}

	name := color.New(color.FgCyan, color.Bold)
	provider := color.New(color.FgHiBlack)
	def := color.New(color.FgGreen)

	for _, info := range infos {
		_, _ = name.Fprintf(w, "%-26s", info.Name)
		_, _ = provider.Fprintf(w, " [%s] ", info.Provider)
		_, _ = fmt.Fprintln(w, info.Description)

		ops := make([]string, 0, len(info.Operations))
		for _, op := range info.Operations {
			if op == info.Default {
				op = def.Sprint(op + "*")
			}
			ops = append(ops, op)
		}
		_, _ = fmt.Fprintf(w, "    %s\n", strings.Join(ops, ", "))
	}
	return nil
}

// documentModule builds the documentation of mod from its argument spec.
func documentModule(mod engine.Module) moduleDoc {
	spec := mod.ArgumentSpec()

	doc := moduleDoc{
		Module:            mod.Name,
		Provider:          mod.Provider,
		ShortDescription:  mod.Description,
		DefaultOperation:  mod.Default,
		Options:           spec.Options,
		MutuallyExclusive: spec.MutuallyExclusive,
		RequiredTogether:  spec.RequiredTogether,
	}
	for _, op := range mod.Operations {
		key := op.Key
		if key == "" {
			key = mod.ResultKey
		}
		doc.Operations = append(doc.Operations, operationDoc{
			Name:      op.Name,
			Flag:      op.Flag,
			Requires:  op.Requires,
			ReturnKey: key,
			Paginated: op.Paginated,
		})
	}
	return doc
}
