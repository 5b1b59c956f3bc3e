// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v3"

	"github.com/staranto/kvcache/internal/meta"
	"github.com/staranto/kvcache/internal/output"
)

// ErrNotFound is returned by get when the key is absent or expired.
var ErrNotFound = errors.New("not found")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GetCommandAction is the action handler for the "get" subcommand.
func GetCommandAction(ctx context.Context, cmd *cli.Command) error {
	key := cmd.Args().First()

	c, err := OpenCache(cmd)
	if err != nil {
		return err
	}

	v, ok := c.Get(key)
	if !ok {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	return output.Value(Stdout(cmd), raw, cmd.String("query"), cmd.String("output"))
}

// GetCommandBuilder constructs the cli.Command for "get".
func GetCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "get",
		Usage:     "print a value",
		UsageText: `kvcache get KEY [--query PATH] [--output FORMAT]`,
		Flags: []cli.Flag{
			NewOutputFlag("get", meta.Config.Source),
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "gjson path selecting part of the value",
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
			},
		},
		Action:  GetCommandAction,
		Meta:    meta,
		MinArgs: 1,
		MaxArgs: 1,
	}).Build()
}
