// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/staranto/kvcache/internal/meta"
)

// PurgeCommandAction is the action handler for the "purge" subcommand. Expired
// entries are always removed; with --hours, so is every entry file last
// written longer ago than that.
func PurgeCommandAction(ctx context.Context, cmd *cli.Command) error {
	c, err := OpenCache(cmd)
	if err != nil {
		return err
	}

	n, err := c.Purge()
	if err != nil {
		return err
	}

	if hours := cmd.Int("hours"); hours > 0 {
		m, err := c.PurgeOlderThan(time.Duration(hours) * time.Hour)
		n += m
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(Stdout(cmd), "removed %d entries\n", n)
	return nil
}

// PurgeCommandBuilder constructs the cli.Command for "purge".
func PurgeCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "purge",
		Usage:     "remove expired entries",
		UsageText: `kvcache purge [--hours N]`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "hours",
				Usage: "also remove entries not written in this many hours",
				Validator: func(value int) error {
					return FlagValidators(value, NonNegativeValidator)
				},
			},
		},
		Action:  PurgeCommandAction,
		Meta:    meta,
		MinArgs: 0,
		MaxArgs: 0,
	}).Build()
}
