// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/kvcache/internal/config"
	"github.com/staranto/kvcache/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The subcommand also represents the namespace key to be used when
	// retrieving config values.
	ns := subcommandName(args)

	config.Config = config.Type{Namespace: ns}
	cfg, err := config.Load()
	if err != nil {
		// A missing config file is normal.
		log.WithError(err).Debug("no config loaded")
		cfg = config.Type{Namespace: ns}
		config.Config = cfg
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Settings:    settings,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "kvcache",
		Usage: "file-backed key-value cache",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "kvcache version info",
				HideDefault: true,
			},
			NewDirFlag(cfg.Source),
		},
		Metadata: map[string]any{
			"meta": meta,
		},
	}

	app.Commands = append(app.Commands,
		SetCommandBuilder(meta),
		GetCommandBuilder(meta),
		DelCommandBuilder(meta),
		LsCommandBuilder(meta),
		PurgeCommandBuilder(meta),
		WatchCommandBuilder(meta),
		CompletionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}

// subcommandName returns the first arg that is neither a flag nor the value of
// the root --dir flag.
func subcommandName(args []string) string {
	for i := 1; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--dir" || a == "-d":
			i++
		case strings.HasPrefix(a, "-"):
		default:
			return a
		}
	}
	return ""
}
