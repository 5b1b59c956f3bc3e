// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/kvcache/internal/cache"
	"github.com/staranto/kvcache/internal/meta"
)

// WatchCommandAction is the action handler for the "watch" subcommand. It
// prints one line per change to the cache directory until ctx is done.
func WatchCommandAction(ctx context.Context, cmd *cli.Command) error {
	c, err := OpenCache(cmd)
	if err != nil {
		return err
	}

	w := Stdout(cmd)
	return c.Watch(ctx, func(e cache.Event) {
		fmt.Fprintf(w, "%s\t%s\n", e.Op, e.Key)
	})
}

// WatchCommandBuilder constructs the cli.Command for "watch".
func WatchCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "watch",
		Usage:     "print changes to the cache as they happen",
		UsageText: `kvcache watch`,
		Action:    WatchCommandAction,
		Meta:      meta,
		MinArgs:   0,
		MaxArgs:   0,
	}).Build()
}
