// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// record is the on-disk form of an entry. Field order is part of the file
// format: {"value":...,"expiresAt":...}.
type record[T any] struct {
	Value     T     `json:"value"`
	ExpiresAt int64 `json:"expiresAt"`
}

// entry is the in-memory form. expiresAt is Unix milliseconds; 0 means the
// entry never expires.
type entry struct {
	value     any
	expiresAt int64
}

func encodeEntry(e entry) ([]byte, error) {
	return json.Marshal(record[any]{Value: e.value, ExpiresAt: e.expiresAt})
}

func decodeRecord[T any](data []byte) (record[T], error) {
	var rec record[T]
	err := json.Unmarshal(data, &rec)
	return rec, err
}

// convert coerces v to T. Values set in this process keep their Go type, while
// values read back from disk are decoded straight into T, so a direct type
// assertion is tried first and a JSON round trip second. This keeps a Get
// consistent whether it is served from memory or from disk.
func convert[T any](v any) (T, bool) {
	var zero T
	if v == nil {
		return zero, true
	}
	if t, ok := v.(T); ok {
		return t, true
	}
	data, err := json.Marshal(v)
	if err != nil {
		return zero, false
	}
	var t T
	if err := json.Unmarshal(data, &t); err != nil {
		return zero, false
	}
	return t, true
}
