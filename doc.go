// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// kvcache is the command line front end to the file-backed key-value cache in
// internal/cache. It wires the CLI, delegates to internal packages, and serves
// as the entry point.
package main
