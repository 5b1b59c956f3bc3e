// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/staranto/kvcache/internal/meta"
)

// SetCommandAction is the action handler for the "set" subcommand. VALUE is
// stored as a string unless --json is given.
func SetCommandAction(ctx context.Context, cmd *cli.Command) error {
	key, raw := cmd.Args().Get(0), cmd.Args().Get(1)

	var value any = raw
	if cmd.Bool("json") {
		if !gjson.Valid(raw) {
			return fmt.Errorf("value for %s is not valid JSON", key)
		}
		value = gjson.Parse(raw).Value()
	}

	c, err := OpenCache(cmd)
	if err != nil {
		return err
	}

	return c.Set(key, value, cmd.Int64("ttl"))
}

// SetCommandBuilder constructs the cli.Command for "set".
func SetCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "set",
		Usage:     "store a value",
		UsageText: `kvcache set KEY VALUE [--ttl N] [--json]`,
		Flags: []cli.Flag{
			NewTTLFlag(meta.Config.Source),
			&cli.BoolFlag{
				Name:        "json",
				Aliases:     []string{"j"},
				Usage:       "parse VALUE as JSON",
				HideDefault: true,
			},
		},
		Action:  SetCommandAction,
		Meta:    meta,
		MinArgs: 2,
		MaxArgs: 2,
	}).Build()
}
