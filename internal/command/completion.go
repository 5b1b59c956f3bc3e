// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/kvcache/internal/meta"
)

const bashCompletionScript = `# bash completion for kvcache
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_kvcache_keys()
{
    local dir=${KVCACHE_DIR:-${TMPDIR:-/tmp}/cache}
    local f
    for f in "$dir"/*.json; do
        [[ -e $f ]] || continue
        f=${f##*/}
        echo "${f%.json}"
    done
}

_kvcache()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "set get del ls purge watch completion --dir -d --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--dir -d --tldr"

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --dir|-d)
            COMPREPLY=( $(compgen -o dirnames -- "$cur") )
            return 0
            ;;
    esac

    case "$cmd" in
        set)
            local opts="$common --ttl --json -j"
            ;;
        get)
            local opts="$common --output -o --query -q"
            ;;
        del)
            local opts="$common"
            ;;
        ls)
            local opts="$common --color -c --filter -f --output -o --sort -s --titles -t"
            ;;
        purge)
            local opts="$common --hours"
            ;;
        watch)
            local opts="$common"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    case "$cmd" in
        get|del|set)
            COMPREPLY=( $(compgen -W "$(_kvcache_keys)" -- "$cur") )
            ;;
    esac
    return 0
}

complete -F _kvcache kvcache
`

const zshCompletionScript = `#compdef kvcache

_kvcache_keys() {
  local dir=${KVCACHE_DIR:-${TMPDIR:-/tmp}/cache}
  local -a keys
  keys=( ${dir}/*.json(N:t:r) )
  _describe -t keys 'cache keys' keys
}

_kvcache() {
  local -a cmds
  cmds=(
    'set:store a value'
    'get:print a value'
    'del:delete one or more entries'
    'ls:list cache entries'
    'purge:remove expired entries'
    'watch:print changes to the cache as they happen'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-d --dir)'{-d,--dir}'[cache directory]:dir:_directories'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'kvcache commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    set)
      _arguments -C \
        $common \
        '--ttl[seconds until expiry]:seconds' \
        '(-j --json)'{-j,--json}'[parse value as JSON]' \
        '1:key:_kvcache_keys' \
        '2:value'
      ;;
    get)
      _arguments -C \
        $common \
        '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)' \
        '(-q --query)'{-q,--query}'[gjson path]:path' \
        '1:key:_kvcache_keys'
      ;;
    del)
      _arguments -C \
        $common \
        '*:key:_kvcache_keys'
      ;;
    ls)
      _arguments -C \
        $common \
        '(-c --color)'{-c,--color}'[enable colored text]' \
        '(-f --filter)'{-f,--filter}'[filters to apply]:filters' \
        '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)' \
        '(-s --sort)'{-s,--sort}'[sort columns]:columns' \
        '(-t --titles)'{-t,--titles}'[show titles]'
      ;;
    purge)
      _arguments -C \
        $common \
        '--hours[also remove entries older than this]:hours'
      ;;
    watch)
      _arguments -C $common
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _kvcache kvcache
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := Stdout(cmd)

	shell := cmd.Args().First()
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		return fmt.Errorf("usage: kvcache completion [bash|zsh]")
	}
	return nil
}

func CompletionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "kvcache completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
