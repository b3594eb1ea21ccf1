// Package config assembles the options of a documentation run from
// built-in defaults, a YAML file, the environment and command-line flags,
// later sources overriding earlier ones.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/confdoc/property"
	"github.com/dhamidi/confdoc/render"
)

var log = commonlog.GetLogger("confdoc.config")

const (
	// Prefix starts every option key in files and --option pairs.
	Prefix = "configurationdoc."
	// EnvPrefix starts every option read from the environment.
	EnvPrefix = "CONFIGURATIONDOC_"
	// DefaultOutputFile is the output name, without extension, used
	// when none is configured.
	DefaultOutputFile = "springboot-configuration"
	// DefaultFile is the configuration file read from the working
	// directory when present.
	DefaultFile = "confdoc.yaml"
)

// ErrInvalidOption is wrapped by every error about an unknown option or
// an unusable option value.
var ErrInvalidOption = errors.New("invalid option")

// Options is the complete configuration of a documentation run.
type Options struct {
	Package         string
	OutputFile      string
	Order           property.Order
	PrependRequired bool
	DeprecatedLast  bool
	Merge           bool
	NoHTML          bool
	Format          render.Format
	Template        string
	EnvPrefix       string
	RequireGetter   bool
	Classpath       []string
}

// Default returns the options used when nothing is configured.
func Default() *Options {
	return &Options{
		Order:  property.OrderAsc,
		Merge:  true,
		Format: render.HTML,
	}
}

// Info describes a supported option.
type Info struct {
	Name  string
	Usage string
	Param string // empty for switches
}

// Key is the name of the option in files and --option pairs.
func (i Info) Key() string { return Prefix + i.Name }

// Env is the name of the environment variable setting the option.
func (i Info) Env() string { return EnvPrefix + strcase.ToScreamingSnake(i.Name) }

type option struct {
	Info
	set func(o *Options, value string) error
}

// options in the order they are applied when one source sets several.
var options = []option{
	{Info{"configuration_package", "Package containing configuration classes", "<package>"},
		func(o *Options, v string) error { o.Package = strings.TrimSpace(v); return nil }},
	{Info{"output_file", "Output file", "<file>"},
		func(o *Options, v string) error { o.OutputFile = v; return nil }},
	{Info{"order", "Lexicographic order", "<asc|desc|none>"},
		func(o *Options, v string) (err error) { o.Order, err = property.ParseOrder(v); return err }},
	{Info{"prepend_required", "Print required options first", ""},
		func(o *Options, v string) (err error) { o.PrependRequired, err = parseSwitch(v); return err }},
	{Info{"deprecated_last", "Print deprecated options last", ""},
		func(o *Options, v string) (err error) { o.DeprecatedLast, err = parseSwitch(v); return err }},
	{Info{"do_not_merge", "Do not merge multiple comments, use only the first one", ""},
		func(o *Options, v string) error {
			off, err := parseSwitch(v)
			o.Merge = !off
			return err
		}},
	{Info{"no_html", "Disable html tags in markdown output, this does not escape HTML from javadoc comments", ""},
		func(o *Options, v string) (err error) { o.NoHTML, err = parseSwitch(v); return err }},
	{Info{"format", "Output format: HTML or Markdown", "<HTML|MD>"},
		func(o *Options, v string) (err error) { o.Format, err = render.ParseFormat(v); return err }},
	{Info{"template", "Path to template file", "<file path>"},
		func(o *Options, v string) error { o.Template = v; return nil }},
	{Info{"env_prefix", "Canonical prefix for generated environment variables", "<prefix>"},
		func(o *Options, v string) error {
			prefix := strings.ToUpper(strings.TrimSpace(v))
			if strings.Contains(prefix, "_") {
				return errors.New("environment variable prefix cannot contain underscore, canonical names should be kebab-case")
			}
			o.EnvPrefix = prefix
			return nil
		}},
	{Info{"require_getter", "Only accept fields with a getter as bean properties", ""},
		func(o *Options, v string) (err error) { o.RequireGetter, err = parseSwitch(v); return err }},
	{Info{"classpath", "Class directories and jars holding referenced constants", "<path list>"},
		func(o *Options, v string) error {
			o.Classpath = splitPathList(v)
			return nil
		}},
}

// Supported lists every option in application order.
func Supported() []Info {
	out := make([]Info, len(options))
	for i, opt := range options {
		out[i] = opt.Info
	}
	return out
}

// NormalizeKey maps the spellings accepted for an option name
// (configurationdoc.output_file, outputFile, output-file, OUTPUT_FILE)
// to its canonical snake_case name.
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) >= len(Prefix) && strings.EqualFold(key[:len(Prefix)], Prefix) {
		key = key[len(Prefix):]
	}
	return strcase.ToSnake(key)
}

func lookup(name string) (option, bool) {
	for _, opt := range options {
		if opt.Name == name {
			return opt, true
		}
	}
	return option{}, false
}

// Set applies a single option.
func (o *Options) Set(key, value string) error {
	opt, ok := lookup(NormalizeKey(key))
	if !ok {
		return fmt.Errorf("%w: unknown option %s", ErrInvalidOption, key)
	}
	if err := opt.set(o, value); err != nil {
		return fmt.Errorf("%w %s: %v", ErrInvalidOption, opt.Key(), err)
	}
	return nil
}

// Apply sets every option in values, keyed by any accepted spelling.
// Unknown keys are reported together and nothing is applied.
func (o *Options) Apply(values map[string]string) error {
	byName := make(map[string]string, len(values))
	var unknown []string
	for key, value := range values {
		name := NormalizeKey(key)
		if _, ok := lookup(name); !ok {
			unknown = append(unknown, key)
			continue
		}
		byName[name] = value
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: unknown options: %s", ErrInvalidOption, strings.Join(unknown, ", "))
	}

	for _, opt := range options {
		value, ok := byName[opt.Name]
		if !ok {
			continue
		}
		if err := o.Set(opt.Name, value); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEnv reads CONFIGURATIONDOC_<OPTION> variables through lookupEnv,
// usually os.LookupEnv.
func (o *Options) ApplyEnv(lookupEnv func(string) (string, bool)) error {
	values := make(map[string]string)
	for _, opt := range options {
		if v, ok := lookupEnv(opt.Env()); ok {
			values[opt.Name] = v
		}
	}
	return o.Apply(values)
}

// ApplyPairs applies key=value pairs as given to --option. A key without
// a value sets a switch.
func (o *Options) ApplyPairs(pairs []string) error {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: malformed pair %q", ErrInvalidOption, pair)
		}
		values[key] = value
	}
	return o.Apply(values)
}

// Stdout is the output file name writing to standard output.
const Stdout = "-"

// OutputPath returns the configured output file, or the default name
// with the extension of the selected format.
func (o *Options) OutputPath() string {
	if o.OutputFile == "" {
		return DefaultOutputFile + "." + o.Format.Extension()
	}
	return o.OutputFile
}

// Formatter returns an empty formatter for the selected format.
func (o *Options) Formatter() render.Formatter {
	return render.NewFormatter(o.Format, o.NoHTML)
}

// CollectOptions returns the options driving discovery, merging and
// ordering of records.
func (o *Options) CollectOptions() property.Options {
	return property.Options{
		EnvPrefix:     o.EnvPrefix,
		Package:       o.Package,
		RequireGetter: o.RequireGetter,
		Merge:         o.Merge,
		Sorting: property.Sorting{
			Order:           o.Order,
			PrependRequired: o.PrependRequired,
			DeprecatedLast:  o.DeprecatedLast,
		},
	}
}

// Validate checks the finished options against the file system. Problems
// that still allow a run are returned as warnings.
func (o *Options) Validate() (warnings []string, err error) {
	ext := "." + o.Format.Extension()
	if o.Format == render.HTML && o.NoHTML {
		warnings = append(warnings, "HTML format is selected, ignoring no_html option")
	}
	switch {
	case o.OutputFile == "":
		log.Infof("output file not specified, using default: %s", o.OutputPath())
	case o.OutputFile == Stdout:
	case !strings.EqualFold(filepath.Ext(o.OutputFile), ext):
		warnings = append(warnings, fmt.Sprintf("Output file does not end with %s extension", ext))
	}

	if o.OutputFile != Stdout {
		if info, statErr := os.Stat(o.OutputPath()); statErr == nil && !info.Mode().IsRegular() {
			return warnings, fmt.Errorf("%w: output file is not a file: %s", ErrInvalidOption, abs(o.OutputPath()))
		}
	}

	if o.Template != "" {
		info, statErr := os.Stat(o.Template)
		switch {
		case statErr != nil:
			return warnings, fmt.Errorf("%w: template file does not exist: %s", ErrInvalidOption, abs(o.Template))
		case !info.Mode().IsRegular():
			return warnings, fmt.Errorf("%w: template file is not a file: %s", ErrInvalidOption, abs(o.Template))
		}
	}
	return warnings, nil
}

// parseSwitch treats an empty value as set, matching options given
// without a parameter.
func parseSwitch(v string) (bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("expected a boolean, got %q", v)
	}
	return b, nil
}

func splitPathList(v string) []string {
	var out []string
	for _, p := range filepath.SplitList(v) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func abs(path string) string {
	if a, err := filepath.Abs(path); err == nil {
		return a
	}
	return path
}
