// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/kvcache/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if s, ok := value.(string); ok && strings.HasPrefix(s, "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(output.Formats, s) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

func NonNegativeValidator(value any) error {
	if n, ok := value.(int); ok && n < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

// ArgCountValidator checks the number of positional arguments. max < 0 means
// no upper bound.
func ArgCountValidator(cmd *cli.Command, minArgs, maxArgs int) error {
	n := cmd.Args().Len()
	switch {
	case n < minArgs:
		return fmt.Errorf("%s: expected at least %d argument(s), got %d", cmd.Name, minArgs, n)
	case maxArgs >= 0 && n > maxArgs:
		return fmt.Errorf("%s: expected at most %d argument(s), got %d", cmd.Name, maxArgs, n)
	}
	return nil
}
