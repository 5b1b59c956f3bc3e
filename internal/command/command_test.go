// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/staranto/kvcache/internal/cache"
	"github.com/staranto/kvcache/internal/config"
)

// isolate points config lookups at an empty temp home and clears the env
// vars flags read from.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("KVCACHE_CFG", "")
	for _, k := range []string{"KVCACHE_DIR", "KVCACHE_TTL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", t.TempDir())
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })
}

// run executes kvcache with args against dir and returns what it wrote.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	argv := append([]string{"kvcache", "--dir", dir}, args...)
	app, err := InitApp(context.Background(), argv)
	require.NoError(t, err)

	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = &buf

	err = app.Run(context.Background(), argv)
	return buf.String(), err
}

func TestSetGet(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := run(t, dir, "set", "greeting", "hello")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "greeting.json"))

	out, err := run(t, dir, "get", "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	out, err = run(t, dir, "get", "--output", "json", "greeting")
	require.NoError(t, err)
	assert.Equal(t, "\"hello\"\n", out)
}

func TestSetJSONAndQuery(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := run(t, dir, "set", "--json", "user", `{"name":"ada","langs":["go","c"]}`)
	require.NoError(t, err)

	out, err := run(t, dir, "get", "--query", "langs.0", "user")
	require.NoError(t, err)
	assert.Equal(t, "go\n", out)

	out, err = run(t, dir, "get", "--output", "yaml", "--query", "langs", "user")
	require.NoError(t, err)
	assert.Equal(t, "- go\n- c\n", out)

	_, err = run(t, dir, "get", "--query", "missing", "user")
	assert.Error(t, err)
}

func TestSetInvalidJSON(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := run(t, dir, "set", "--json", "k", "{nope")
	assert.ErrorContains(t, err, "not valid JSON")
	assert.NoFileExists(t, filepath.Join(dir, "k.json"))
}

func TestGetNotFound(t *testing.T) {
	isolate(t)

	_, err := run(t, t.TempDir(), "get", "absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetTTLExpired(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := run(t, dir, "set", "--ttl=-1", "k", "v")
	require.NoError(t, err)

	_, err = run(t, dir, "get", "k")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoFileExists(t, filepath.Join(dir, "k.json"))
}

func TestSetTTLFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("KVCACHE_TTL", "-1")
	dir := t.TempDir()

	_, err := run(t, dir, "set", "k", "v")
	require.NoError(t, err)

	_, err = run(t, dir, "get", "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfigFileDefaults(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	cfg := filepath.Join(t.TempDir(), "kvcache.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("get:\n  output: json\n"), 0o600))
	t.Setenv("KVCACHE_CFG", cfg)

	_, err := run(t, dir, "set", "k", "v")
	require.NoError(t, err)

	out, err := run(t, dir, "get", "k")
	require.NoError(t, err)
	assert.Equal(t, "\"v\"\n", out)
}

func TestInvalidSettings(t *testing.T) {
	isolate(t)

	cfg := filepath.Join(t.TempDir(), "kvcache.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("padding: 99\n"), 0o600))
	t.Setenv("KVCACHE_CFG", cfg)

	_, err := InitApp(context.Background(), []string{"kvcache", "ls"})
	assert.ErrorContains(t, err, "failed to load settings")
}

func TestDel(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	for _, k := range []string{"a", "b"} {
		_, err := run(t, dir, "set", k, "v")
		require.NoError(t, err)
	}

	_, err := run(t, dir, "del", "a", "b")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "a.json"))
	assert.NoFileExists(t, filepath.Join(dir, "b.json"))

	_, err = run(t, dir, "del", "a")
	assert.ErrorIs(t, err, cache.ErrRemove)
}

func TestLs(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := run(t, dir, "set", "beta", "v")
	require.NoError(t, err)
	_, err = run(t, dir, "set", "--ttl=-1", "alpha", "v")
	require.NoError(t, err)

	out, err := run(t, dir, "ls", "--output", "json")
	require.NoError(t, err)

	result := gjson.Parse(out)
	keys := result.Get("#.key").Array()
	require.Len(t, keys, 2)
	assert.Equal(t, "alpha", keys[0].String())
	assert.Equal(t, "beta", keys[1].String())
	assert.True(t, result.Get("0.expired").Bool())

	out, err = run(t, dir, "ls", "--output", "json", "--filter", "expired=false")
	require.NoError(t, err)
	assert.Equal(t, "beta", gjson.Get(out, "0.key").String())
	assert.Equal(t, int64(1), gjson.Get(out, "#").Int())

	out, err = run(t, dir, "ls", "--titles")
	require.NoError(t, err)
	assert.Contains(t, out, "key")
	assert.Contains(t, out, "never")
}

func TestPurge(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := run(t, dir, "set", "--ttl=-1", "old", "v")
	require.NoError(t, err)
	_, err = run(t, dir, "set", "fresh", "v")
	require.NoError(t, err)

	out, err := run(t, dir, "purge")
	require.NoError(t, err)
	assert.Equal(t, "removed 1 entries\n", out)
	assert.NoFileExists(t, filepath.Join(dir, "old.json"))
	assert.FileExists(t, filepath.Join(dir, "fresh.json"))

	_, err = run(t, dir, "purge", "--hours=-1")
	assert.Error(t, err)
}

func TestArgCounts(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{name: "set missing value", args: []string{"set", "k"}},
		{name: "set extra", args: []string{"set", "k", "v", "x"}},
		{name: "get missing key", args: []string{"get"}},
		{name: "del missing key", args: []string{"del"}},
		{name: "ls extra", args: []string{"ls", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, dir, tt.args...)
			assert.ErrorContains(t, err, "argument(s)")
		})
	}
}

func TestInvalidKey(t *testing.T) {
	isolate(t)

	_, err := run(t, t.TempDir(), "set", "a/b", "v")
	assert.ErrorIs(t, err, cache.ErrInvalidKey)
}

func TestOutputValidator(t *testing.T) {
	for _, f := range []string{"text", "json", "raw", "yaml"} {
		assert.NoError(t, OutputValidator(f))
	}
	assert.Error(t, OutputValidator("xml"))

	isolate(t)
	_, err := run(t, t.TempDir(), "get", "--output", "xml", "k")
	assert.Error(t, err)
}

func TestJammedFlagValidator(t *testing.T) {
	assert.NoError(t, JammedFlagValidator("value"))
	assert.Error(t, JammedFlagValidator("--value"))
}

func TestCompletion(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	out, err := run(t, dir, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _kvcache kvcache")

	out, err = run(t, dir, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef kvcache")

	t.Setenv("SHELL", "/bin/fish")
	_, err = run(t, dir, "completion")
	assert.Error(t, err)
}

func TestSubcommandName(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"kvcache"}, ""},
		{[]string{"kvcache", "get", "k"}, "get"},
		{[]string{"kvcache", "--dir", "/tmp/x", "ls"}, "ls"},
		{[]string{"kvcache", "-d", "/tmp/x", "-h"}, ""},
		{[]string{"kvcache", "--help"}, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, subcommandName(tt.args), "%v", tt.args)
	}
}

func TestGetMeta(t *testing.T) {
	isolate(t)

	app, err := InitApp(context.Background(), []string{"kvcache", "ls"})
	require.NoError(t, err)

	for _, cmd := range app.Commands {
		m := GetMeta(cmd)
		assert.Equal(t, []string{"kvcache", "ls"}, m.Args, cmd.Name)
		assert.Equal(t, "ls", m.Config.Namespace, cmd.Name)
	}

	assert.Empty(t, GetMeta(nil).Args)
}
