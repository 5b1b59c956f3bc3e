// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

var tldrFlag *cli.BoolFlag = &cli.BoolFlag{
	Name:        "tldr",
	Usage:       "show tldr page",
	Hidden:      !pathHas("tldr"),
	HideDefault: true,
}

// NewDirFlag constructs the root "dir" flag. The flag is inherited by every
// subcommand.
func NewDirFlag(path string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Usage:   "cache directory",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("KVCACHE_DIR"),
			yaml.YAML("dir", altsrc.StringSourcer(path)),
		),
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator)
		},
	}
}

// NewOutputFlag constructs the "output" flag for the ns command. params[1],
// when given, is the config file.
func NewOutputFlag(params ...string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format (text, json, raw, yaml)",
		Sources: cli.NewValueSourceChain(),
		Value:   "text",
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return flag
}

// NewListFlags returns the flags that shape a listing: filtering, sorting
// and the text table.
func NewListFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"color", altsrc.StringSourcer(path)),
				yaml.YAML("color", altsrc.StringSourcer(path)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		NewOutputFlag(ns, path),
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"sort", altsrc.StringSourcer(path)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"titles", altsrc.StringSourcer(path)),
				yaml.YAML("titles", altsrc.StringSourcer(path)),
			),
			Value: false,
		},
	}
}

// NewTTLFlag constructs the "ttl" flag used by set. KVCACHE_TTL wins over
// set.ttl in the config file.
func NewTTLFlag(path string) *cli.Int64Flag {
	return &cli.Int64Flag{
		Name:  "ttl",
		Usage: "seconds until the entry expires, 0 for never",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("KVCACHE_TTL"),
			yaml.YAML("set.ttl", altsrc.StringSourcer(path)),
		),
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
