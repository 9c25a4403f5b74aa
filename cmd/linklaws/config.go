package main

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loadRunConfig merges a --config YAML file underneath flags, so CI and
// local runs can share defaults while overriding a single flag per
// invocation (spec.md §6). Flags always win: the file is loaded first,
// then posflag.Provider overlays only the flags the user actually set.
func loadRunConfig(flags *pflag.FlagSet) (*koanf.Koanf, error) {
	k := koanf.New(".")

	if configPath, _ := flags.GetString("config"); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, err
	}
	return k, nil
}
