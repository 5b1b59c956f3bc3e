// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/kvcache/internal/command"
)

// Doc generator:
// - Walks the live kvcache command tree
// - Generates:
//   - docs/commands/<cmd>.md
//   - docs/man/share/man1/kvcache-<cmd>.1 via md2man
//   - docs/tldr/kvcache-<cmd>.md from the usage line

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	commandsDir := filepath.Join(repoRoot, "docs", "commands")
	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(repoRoot, "docs", "tldr")

	for _, d := range []string{commandsDir, manOutDir, tldrOutDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			fatalf("creating output dir %s: %v", d, err)
		}
	}

	app, err := command.InitApp(context.Background(), []string{"kvcache"})
	if err != nil {
		fatalf("building command tree: %v", err)
	}

	var processed int
	for _, cmd := range app.Commands {
		if cmd.Hidden {
			continue
		}

		md := renderMarkdown(cmd)
		mdPath := filepath.Join(commandsDir, cmd.Name+".md")
		if err := writeFileIfChanged(mdPath, []byte(md), writeOnlyIfChanged); err != nil {
			fatalf("writing markdown for %s: %v", cmd.Name, err)
		}

		manPath := filepath.Join(manOutDir, fmt.Sprintf("kvcache-%s.1", cmd.Name))
		if err := writeFileIfChanged(manPath, md2man.Render([]byte(md)), writeOnlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", cmd.Name, err)
		}

		tldrPath := filepath.Join(tldrOutDir, fmt.Sprintf("kvcache-%s.md", cmd.Name))
		if err := writeFileIfChanged(tldrPath, []byte(buildTLDR(cmd)), writeOnlyIfChanged); err != nil {
			fatalf("writing TLDR for %s: %v", cmd.Name, err)
		}

		processed++
	}

	if processed == 0 {
		fatalf("no commands found")
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

// renderMarkdown produces a man-page shaped markdown document for cmd.
func renderMarkdown(cmd *cli.Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# kvcache-%s 1\n\n", cmd.Name)

	b.WriteString("## NAME\n\n")
	fmt.Fprintf(&b, "kvcache-%s - %s\n\n", cmd.Name, cmd.Usage)

	b.WriteString("## SYNOPSIS\n\n")
	usage := cmd.UsageText
	if usage == "" {
		usage = "kvcache " + cmd.Name
	}
	fmt.Fprintf(&b, "`%s`\n\n", sanitizeCommand(usage))

	var opts strings.Builder
	for _, f := range cmd.Flags {
		if v, ok := f.(interface{ IsVisible() bool }); ok && !v.IsVisible() {
			continue
		}

		names := make([]string, 0, len(f.Names()))
		for _, n := range f.Names() {
			if len(n) == 1 {
				names = append(names, "**-"+n+"**")
			} else {
				names = append(names, "**--"+n+"**")
			}
		}
		fmt.Fprintf(&opts, "%s\n", strings.Join(names, ", "))

		desc := ""
		if u, ok := f.(interface{ GetUsage() string }); ok {
			desc = u.GetUsage()
		}
		if e, ok := f.(interface{ GetEnvVars() []string }); ok && len(e.GetEnvVars()) > 0 {
			desc += fmt.Sprintf(" (env: %s)", strings.Join(e.GetEnvVars(), ", "))
		}
		fmt.Fprintf(&opts, ": %s\n\n", strings.TrimSpace(desc))
	}
	if opts.Len() > 0 {
		b.WriteString("## OPTIONS\n\n")
		b.WriteString(opts.String())
	}

	b.WriteString("## GLOBAL OPTIONS\n\n")
	b.WriteString("**--dir**, **-d**\n: cache directory (env: KVCACHE_DIR, config: dir)\n\n")

	b.WriteString("## ENVIRONMENT\n\n")
	b.WriteString("**KVCACHE_CFG**\n: config file to use instead of the standard locations\n\n")
	b.WriteString("**KVCACHE_LOG**\n: log level, one of debug, info, warn, error, fatal\n\n")

	return b.String()
}

func buildTLDR(cmd *cli.Command) string {
	var b strings.Builder
	b.WriteString("# kvcache-" + cmd.Name + "\n\n")
	if cmd.Usage != "" {
		b.WriteString("> " + strings.ToUpper(cmd.Usage[:1]) + cmd.Usage[1:] + ".\n")
	} else {
		b.WriteString("> kvcache " + cmd.Name + "\n")
	}
	b.WriteString("> More information: https://github.com/staranto/kvcache.\n\n")

	usage := cmd.UsageText
	if usage == "" {
		usage = "kvcache " + cmd.Name
	}
	b.WriteString("- Usage:\n\n")
	b.WriteString("`" + sanitizeCommand(usage) + "`\n\n")
	b.WriteString("- Show help for the command:\n\n")
	b.WriteString("`kvcache " + cmd.Name + " --help`\n")
	return b.String()
}

func sanitizeCommand(s string) string {
	// For now, just compress runs of whitespace
	return strings.Join(strings.Fields(s), " ")
}
