// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/staranto/kvcache/internal/meta"
)

// DelCommandAction is the action handler for the "del" subcommand. Every key
// is attempted and the failures are reported together.
func DelCommandAction(ctx context.Context, cmd *cli.Command) error {
	c, err := OpenCache(cmd)
	if err != nil {
		return err
	}

	var errs []error
	for _, key := range cmd.Args().Slice() {
		if err := c.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DelCommandBuilder constructs the cli.Command for "del".
func DelCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "del",
		Usage:     "delete one or more entries",
		UsageText: `kvcache del KEY...`,
		Action:    DelCommandAction,
		Meta:      meta,
		MinArgs:   1,
		MaxArgs:   -1,
	}).Build()
}
