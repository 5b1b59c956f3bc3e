// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/staranto/kvcache/internal/cache"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Formats accepted by the --output flag.
var Formats = []string{"text", "json", "raw", "yaml"}

// ErrNoMatch is returned by Value when a query matches nothing.
var ErrNoMatch = errors.New("query matched nothing")

// Options controls how a dataset is filtered, sorted and rendered.
type Options struct {
	Format  string
	Filter  string
	Sort    string
	Titles  bool
	Color   bool
	Padding int
	Colors  Colors
}

// Colors are the table colors used when Options.Color is set.
type Colors struct {
	Title string
	Even  string
	Odd   string
}

// DefaultColors are used for any color left empty in Options.Colors.
var DefaultColors = Colors{Title: "#f6be00", Even: "#ffffff", Odd: "#00c8f0"}

// Column maps a path in the source document to an output key.
type Column struct {
	Key       string
	OutputKey string
	// Transform, if set, renders the value for text output.
	Transform func(value interface{}, now time.Time) interface{}
}

// EntryColumns are the columns rendered for a cache listing.
var EntryColumns = []Column{
	{Key: "key", OutputKey: "key"},
	{Key: "expiresAt", OutputKey: "expires", Transform: humanizeExpiry},
	{Key: "expired", OutputKey: "expired"},
	{Key: "size", OutputKey: "size", Transform: humanizeBytes},
	{Key: "modTime", OutputKey: "modified", Transform: humanizeTime},
	{Key: "path", OutputKey: "path"},
}

// Value writes a single cached value, given as JSON, to w. If query is set it
// is applied with gjson path syntax first.
func Value(w io.Writer, raw []byte, query string, format string) error {
	if query != "" {
		r := gjson.GetBytes(raw, query)
		if !r.Exists() {
			return fmt.Errorf("%w: %s", ErrNoMatch, query)
		}
		raw = []byte(r.Raw)
	}

	switch format {
	case "raw", "json":
		_, err := fmt.Fprintln(w, string(raw))
		return err
	case "yaml":
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("failed to decode value: %w", err)
		}
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		r := gjson.ParseBytes(raw)
		if r.Type == gjson.String {
			_, err := fmt.Fprintln(w, r.String())
			return err
		}
		_, err := fmt.Fprintln(w, r.Raw)
		return err
	}
}

// Entries filters, sorts and renders a cache listing.
func Entries(w io.Writer, infos []cache.Info, opts Options, now time.Time) error {
	raw, err := json.Marshal(infos)
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}

	dataset := FilterDataset(gjson.ParseBytes(raw), EntryColumns, opts.Filter)
	SortDataset(dataset, opts.Sort)

	switch opts.Format {
	case "json", "raw":
		if dataset == nil {
			dataset = []map[string]interface{}{}
		}
		b, err := json.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		if len(dataset) == 0 {
			return nil
		}
		b, err := yaml.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		for _, row := range dataset {
			for _, col := range EntryColumns {
				if col.Transform != nil {
					row[col.OutputKey] = col.Transform(row[col.OutputKey], now)
				}
			}
		}
		TableWriter(w, dataset, EntryColumns, opts)
		return nil
	}
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options.
func TableWriter(w io.Writer, resultSet []map[string]interface{}, columns []Column, opts Options) {
	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		colors := opts.Colors.withDefaults()
		headerStyle = headerStyle.Foreground(lipgloss.Color(colors.Title))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(colors.Even))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(colors.Odd))
	}

	pad := opts.Padding
	if pad <= 0 {
		pad = 1
	}

	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(columns))
		for _, col := range columns {
			row = append(row, InterfaceToString(result[col.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		headers := make([]string, 0, len(columns))
		for _, col := range columns {
			headers = append(headers, col.OutputKey)
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}

	log.Debugf("rendering %d rows", len(rows))
	fmt.Fprintln(w, t.String())
}

func (c Colors) withDefaults() Colors {
	if c.Title == "" {
		c.Title = DefaultColors.Title
	}
	if c.Even == "" {
		c.Even = DefaultColors.Even
	}
	if c.Odd == "" {
		c.Odd = DefaultColors.Odd
	}
	return c
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		// Listing values are counts, sizes and epochs, never fractions.
		return fmt.Sprintf("%.0f", value)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// humanizeExpiry renders Unix milliseconds relative to now, or "never" for 0.
func humanizeExpiry(value interface{}, now time.Time) interface{} {
	ms, ok := value.(float64)
	if !ok {
		return value
	}
	if ms == 0 {
		return "never"
	}
	return humanize.RelTime(time.UnixMilli(int64(ms)), now, "ago", "from now")
}

func humanizeBytes(value interface{}, _ time.Time) interface{} {
	n, ok := value.(float64)
	if !ok || n < 0 {
		return value
	}
	return humanize.IBytes(uint64(n))
}

func humanizeTime(value interface{}, now time.Time) interface{} {
	s, ok := value.(string)
	if !ok {
		return value
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return value
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
