package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile applies the options of the YAML file at path. Keys may sit
// under a configurationdoc mapping, carry the configurationdoc. prefix or
// be bare option names:
//
//	configurationdoc:
//	  format: md
//	  order: desc
//	  classpath: [target/classes, lib/constants.jar]
func (o *Options) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	values, err := ParseFile(data)
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	log.Debugf("loaded %d options from %s", len(values), path)
	return o.Apply(values)
}

// ParseFile flattens YAML configuration into option values keyed as
// written.
func ParseFile(data []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	values := make(map[string]string)
	for key, raw := range doc {
		if nested, ok := raw.(map[string]any); ok && strings.EqualFold(key, strings.TrimSuffix(Prefix, ".")) {
			for k, v := range nested {
				s, err := scalar(k, v)
				if err != nil {
					return nil, err
				}
				values[k] = s
			}
			continue
		}
		s, err := scalar(key, raw)
		if err != nil {
			return nil, err
		}
		values[key] = s
	}
	return values, nil
}

func scalar(key string, v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, err := scalar(key, item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, string(os.PathListSeparator)), nil
	case map[string]any:
		return "", fmt.Errorf("%w: %s must be a scalar or a list", ErrInvalidOption, key)
	default:
		return fmt.Sprint(v), nil
	}
}
