// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileExt is appended to a key to form its entry file name.
const fileExt = ".json"

// DefaultBasePath returns the directory used when New is given an empty base
// path: a "cache" directory beneath the OS temporary directory.
func DefaultBasePath() string {
	return filepath.Join(os.TempDir(), "cache")
}

// normalizeBasePath strips a single trailing separator so that "/tmp/" and
// "/tmp" address the same files. The root directory is left alone.
func normalizeBasePath(p string) string {
	if p == "" {
		return DefaultBasePath()
	}
	if len(p) > 1 && os.IsPathSeparator(p[len(p)-1]) {
		return p[:len(p)-1]
	}
	return p
}

// validateKey rejects keys that cannot be used verbatim as a file name inside
// the base directory.
func validateKey(key string) error {
	switch {
	case key == "", key == ".", key == "..":
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	case strings.ContainsRune(key, '/'), strings.ContainsRune(key, filepath.Separator):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidKey, key)
	}
	return nil
}

// keyFromFile returns the key for an entry file name, or false if name is not
// an entry file.
func keyFromFile(name string) (string, bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, fileExt) {
		return "", false
	}
	key := strings.TrimSuffix(base, fileExt)
	if validateKey(key) != nil {
		return "", false
	}
	return key, true
}
