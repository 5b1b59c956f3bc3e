// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/kvcache/internal/cache"
	"github.com/staranto/kvcache/internal/cacheutil"
	"github.com/staranto/kvcache/internal/meta"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr kvcache <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "kvcache", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// OpenCache opens the cache named by --dir, falling back to the configured or
// default directory, and runs the startup purge configured by cache.clean.
func OpenCache(cmd *cli.Command) (*cache.Cache, error) {
	c, err := cacheutil.Open(cmd.String("dir"))
	if err != nil {
		return nil, err
	}

	if err := cacheutil.Purge(c, GetMeta(cmd).Settings.Cache.Clean); err != nil {
		// Non-fatal, the command can still run.
		log.WithError(err).Warn("startup purge failed")
	}

	return c, nil
}

// Stdout returns the writer command output goes to.
func Stdout(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// IsTerminal reports whether w is a terminal. Color is only emitted to one.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// CommandBuilder constructs a cli.Command for a subcommand using a consistent
// pattern. The builder wires metadata, adds the tldr flag and installs an
// argument count check ahead of the action.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
	// MinArgs and MaxArgs bound the positional arguments. MaxArgs < 0 means
	// no upper bound.
	MinArgs int
	MaxArgs int
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	name := cb.Name
	action := cb.Action
	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: append(cb.Flags, tldrFlag),
		Action: func(ctx context.Context, c *cli.Command) error {
			if ShortCircuitTLDR(ctx, c, name) {
				return nil
			}
			if err := ArgCountValidator(c, cb.MinArgs, cb.MaxArgs); err != nil {
				return err
			}
			log.Debugf("executing %s %v", name, c.Args().Slice())
			return action(ctx, c)
		},
	}
}
