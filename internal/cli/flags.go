package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openspec-dev/openspec/internal/validation"
)

// The Optional*Flag helpers return def when the command does not define
// the flag, so tests can call Run functions with a bare command.

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func OptionalBoolFlag(cmd *cobra.Command, name string, def bool) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return def, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return def, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

func OptionalIntFlag(cmd *cobra.Command, name string, def int) (int, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return def, nil
	}
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		return def, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

// flagChanged reports whether the user set the flag explicitly.
func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}

func ParseKindFlag(cmd *cobra.Command) (validation.Kind, error) {
	raw, err := OptionalStringFlag(cmd, "type")
	if err != nil {
		return "", err
	}
	switch kind := validation.Kind(strings.ToLower(raw)); kind {
	case "", validation.KindChange, validation.KindSpec:
		return kind, nil
	default:
		return "", fmt.Errorf("unsupported --type %q (supported: change, spec)", raw)
	}
}
