package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/viant/luabind/config"
	"github.com/viant/luabind/logger"
)

// flag name by configuration key
var bindings = map[string]string{
	"include_paths": "include",
	"api.output":    "api",
	"api.backend":   "api-backend",
	"docs.output":   "docs",
	"docs.format":   "format",
	"docs.root":     "root",
	"docs.title":    "doctitle",
	"log.json":      "json-log",
	"log.verbose":   "verbose",
}

// NewRootCmd creates luabind command
func NewRootCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "luabind [flags] <sources...>",
		Short: "Generate Lua registration code and API documentation from annotated C++ sources",
		Long: `luabind analyzes annotated C++ headers and YAML resource schemas and emits
LuaBridge registration source and Markdown or HTML API documentation.

Examples:
  luabind -I include --api gen/lua_api.cpp include/
  luabind --docs site --format html --root /api include/ resources/`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.NewViper(configFile)
			if err != nil {
				return err
			}
			for key, name := range bindings {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
					return errors.Wrapf(err, "failed to bind flag %v", name)
				}
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log, err := logger.New(logger.Options{JSON: cfg.Log.JSON, Verbose: cfg.Log.Verbose})
			if err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			defer func() { _ = log.Sync() }()
			_, err = newRunner(cfg, log).run(cmd.Context(), args)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringSliceP("include", "I", nil, "include path, repeatable")
	flags.String("api", "", "registration source output path")
	flags.String("api-backend", "", "registration backend (luabridge)")
	flags.String("docs", "", "documentation output directory")
	flags.String("format", "", "documentation format (markdown|html)")
	flags.String("root", "", "absolute documentation link root")
	flags.String("doctitle", "", "documentation index title")
	flags.Bool("json-log", false, "JSON structured logs")
	flags.BoolP("verbose", "v", false, "debug logs")
	flags.StringVar(&configFile, "config", "", "config file (default "+config.DefaultFile+" when present)")
	return cmd
}
