// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/staranto/kvcache/internal/meta"
	"github.com/staranto/kvcache/internal/output"
)

// LsCommandAction is the action handler for the "ls" subcommand. It lists the
// entry files in the cache directory.
func LsCommandAction(ctx context.Context, cmd *cli.Command) error {
	c, err := OpenCache(cmd)
	if err != nil {
		return err
	}

	infos, err := c.List()
	if err != nil {
		return err
	}

	s := GetMeta(cmd).Settings
	w := Stdout(cmd)

	opts := output.Options{
		Format:  cmd.String("output"),
		Filter:  cmd.String("filter"),
		Sort:    cmd.String("sort"),
		Titles:  cmd.Bool("titles"),
		Color:   cmd.Bool("color") && IsTerminal(w),
		Padding: s.Padding,
		Colors: output.Colors{
			Title: s.Colors.Title,
			Even:  s.Colors.Even,
			Odd:   s.Colors.Odd,
		},
	}
	if opts.Sort == "" {
		opts.Sort = "key"
	}

	return output.Entries(w, infos, opts, time.Now())
}

// LsCommandBuilder constructs the cli.Command for "ls".
func LsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "ls",
		Usage:     "list cache entries",
		UsageText: `kvcache ls [--filter SPEC] [--sort SPEC] [--titles] [--color] [--output FORMAT]`,
		Flags:     NewListFlags("ls", meta.Config.Source),
		Action:    LsCommandAction,
		Meta:      meta,
		MinArgs:   0,
		MaxArgs:   0,
	}).Build()
}
