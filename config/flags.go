package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/spf13/pflag"
)

// flagNames holds the flags not named after the kebab-case option name.
var flagNames = map[string]string{
	"configuration_package": "package",
	"output_file":           "output",
	"do_not_merge":          "no-merge",
}

var shorthands = map[string]string{
	"format":      "f",
	"output_file": "o",
}

// Flags are the command-line sources of options.
type Flags struct {
	// ConfigFile overrides the default confdoc.yaml lookup.
	ConfigFile string
	// Pairs are the raw --option key=value arguments.
	Pairs []string

	set    *pflag.FlagSet
	except map[string]bool
}

// BindFlags registers one flag per option on set, plus --config and
// --option. Options named in except get no flag, leaving their flag
// names to the command.
func BindFlags(set *pflag.FlagSet, except ...string) *Flags {
	f := &Flags{set: set, except: make(map[string]bool, len(except))}
	for _, name := range except {
		f.except[name] = true
	}
	set.StringVar(&f.ConfigFile, "config", "", "configuration file (default "+DefaultFile+" when present)")
	set.StringArrayVar(&f.Pairs, "option", nil, "set an option as key=value, e.g. "+Prefix+"order=desc")

	for _, opt := range options {
		if f.except[opt.Name] {
			continue
		}
		name := flagName(opt.Name)
		short := shorthands[opt.Name]
		switch {
		case opt.Name == "classpath":
			set.StringArrayP(name, short, nil, opt.Usage+" (repeatable, "+string(os.PathListSeparator)+" separated)")
		case opt.Param == "":
			set.BoolP(name, short, false, opt.Usage)
		default:
			set.StringP(name, short, "", opt.Usage)
		}
	}
	return f
}

func flagName(option string) string {
	if name, ok := flagNames[option]; ok {
		return name
	}
	return strcase.ToKebab(option)
}

// Resolve builds the options of a run: defaults, then the config file,
// then lookupEnv, then --option pairs, then the flags given explicitly.
func (f *Flags) Resolve(lookupEnv func(string) (string, bool)) (*Options, error) {
	o := Default()

	path, explicit := f.ConfigFile, f.ConfigFile != ""
	if !explicit {
		path = DefaultFile
	}
	if err := o.LoadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := o.ApplyEnv(lookupEnv); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := o.ApplyPairs(f.Pairs); err != nil {
		return nil, err
	}
	if err := o.Apply(f.changed()); err != nil {
		return nil, err
	}
	return o, nil
}

// changed returns the option flags set on the command line.
func (f *Flags) changed() map[string]string {
	values := make(map[string]string)
	for _, opt := range options {
		if f.except[opt.Name] {
			continue
		}
		fl := f.set.Lookup(flagName(opt.Name))
		if fl == nil || !fl.Changed {
			continue
		}
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			values[opt.Name] = strings.Join(sv.GetSlice(), string(os.PathListSeparator))
			continue
		}
		values[opt.Name] = fl.Value.String()
	}
	return values
}
