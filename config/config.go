package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"github.com/viant/luabind/emitter/docs"
	"github.com/viant/luabind/emitter/enrollment"
	"github.com/viant/luabind/emitter/luabridge"
	"github.com/viant/luabind/inspector"
	"github.com/viant/luabind/inspector/annotation"
	"github.com/viant/luabind/inspector/cxx"
)

const (
	// DefaultFile is config file looked up in the working directory
	DefaultFile = "luabind.yaml"
	// EnvPrefix prefixes environment overrides, i.e. LUABIND_DOCS_FORMAT
	EnvPrefix = "LUABIND"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents luabind settings
type Config struct {
	IncludePaths []string `mapstructure:"include_paths" yaml:"include_paths"`
	Analysis     Analysis `mapstructure:"analysis" yaml:"analysis"`
	API          API      `mapstructure:"api" yaml:"api"`
	Docs         Docs     `mapstructure:"docs" yaml:"docs"`
	Log          Log      `mapstructure:"log" yaml:"log"`
}

// Analysis represents source analysis settings
type Analysis struct {
	MasterTag            string `mapstructure:"master_tag" yaml:"master_tag"`
	DuplicateConstructor string `mapstructure:"duplicate_constructor" yaml:"duplicate_constructor"`
	AllowSyntaxErrors    bool   `mapstructure:"allow_syntax_errors" yaml:"allow_syntax_errors"`
}

// API represents registration source settings, nothing is generated without output
type API struct {
	Output          string   `mapstructure:"output" yaml:"output"`
	Backend         string   `mapstructure:"backend" yaml:"backend"`
	RuntimeType     string   `mapstructure:"runtime_type" yaml:"runtime_type"`
	GlobalNamespace string   `mapstructure:"global_namespace" yaml:"global_namespace"`
	Includes        []string `mapstructure:"includes" yaml:"includes"`
	EnrollmentName  string   `mapstructure:"enrollment_name" yaml:"enrollment_name"`
	RootFunction    string   `mapstructure:"root_function" yaml:"root_function"`
	ReferenceType   string   `mapstructure:"reference_type" yaml:"reference_type"`
}

// Docs represents documentation settings, nothing is generated without output
type Docs struct {
	Output string `mapstructure:"output" yaml:"output"`
	Format string `mapstructure:"format" yaml:"format"`
	Root   string `mapstructure:"root" yaml:"root"`
	Title  string `mapstructure:"title" yaml:"title"`
}

// Log represents logger settings
type Log struct {
	JSON    bool `mapstructure:"json" yaml:"json"`
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`
}

// SetDefaults registers default values
func SetDefaults(v *viper.Viper) {
	v.SetDefault("include_paths", []string{})
	v.SetDefault("analysis.master_tag", annotation.DefaultMasterTag)
	v.SetDefault("analysis.duplicate_constructor", string(cxx.DuplicateConstructorIgnore))
	v.SetDefault("analysis.allow_syntax_errors", false)
	v.SetDefault("api.output", "")
	v.SetDefault("api.backend", luabridge.Backend)
	v.SetDefault("api.runtime_type", enrollment.DefaultRuntimeType)
	v.SetDefault("api.global_namespace", luabridge.DefaultGlobalNamespace)
	v.SetDefault("api.includes", []string{})
	v.SetDefault("api.enrollment_name", enrollment.DefaultEnrollmentName)
	v.SetDefault("api.root_function", luabridge.DefaultRootFunction)
	v.SetDefault("api.reference_type", luabridge.DefaultReferenceType)
	v.SetDefault("docs.output", "")
	v.SetDefault("docs.format", string(docs.FormatMarkdown))
	v.SetDefault("docs.root", "")
	v.SetDefault("docs.title", docs.DefaultTitle)
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbose", false)
}

// NewViper creates viper with defaults, environment overrides and config file.
// A missing default config file is ignored, an explicit one is required.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	explicit := configFile != ""
	if !explicit {
		configFile = DefaultFile
		if _, err := os.Stat(configFile); err != nil {
			return v, nil
		}
	}
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
	}
	return v, nil
}

// Load decodes configuration from viper
func Load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Analysis.MasterTag) == "" {
		return errors.Wrap(ErrInvalidConfig, "analysis.master_tag cannot be empty")
	}
	switch cxx.DuplicateConstructorPolicy(c.Analysis.DuplicateConstructor) {
	case cxx.DuplicateConstructorIgnore, cxx.DuplicateConstructorError:
	default:
		return errors.Wrapf(ErrInvalidConfig, "analysis.duplicate_constructor must be %v or %v, got %q",
			cxx.DuplicateConstructorIgnore, cxx.DuplicateConstructorError, c.Analysis.DuplicateConstructor)
	}
	if c.API.Backend != luabridge.Backend {
		return errors.WithHint(errors.Wrapf(ErrInvalidConfig, "unsupported api.backend %q", c.API.Backend),
			"the only registration backend is "+luabridge.Backend)
	}
	if err := docs.Format(c.Docs.Format).Validate(); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "docs.format: %v", err)
	}
	return nil
}

// Inspection returns source analysis settings
func (c *Config) Inspection() *inspector.Config {
	return &inspector.Config{
		MasterTag:            c.Analysis.MasterTag,
		DuplicateConstructor: cxx.DuplicateConstructorPolicy(c.Analysis.DuplicateConstructor),
		AllowSyntaxErrors:    c.Analysis.AllowSyntaxErrors,
		EnrollmentName:       c.API.EnrollmentName,
	}
}

// Enrollment returns synthesizer options
func (c *Config) Enrollment() []enrollment.Option {
	return []enrollment.Option{
		enrollment.WithRuntimeType(c.API.RuntimeType),
	}
}

// LuaBridge returns registration source settings
func (c *Config) LuaBridge() *luabridge.Config {
	return &luabridge.Config{
		Output:          c.API.Output,
		Includes:        c.API.Includes,
		GlobalNamespace: c.API.GlobalNamespace,
		RootFunction:    c.API.RootFunction,
		ReferenceType:   c.API.ReferenceType,
	}
}

// Documentation returns documentation settings
func (c *Config) Documentation() *docs.Config {
	return &docs.Config{
		Output: c.Docs.Output,
		Format: docs.Format(c.Docs.Format),
		Root:   c.Docs.Root,
		Title:  c.Docs.Title,
	}
}
