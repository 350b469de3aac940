package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/ghostty-org/l10n-tools/pkg/codeowners"
	f "github.com/ghostty-org/l10n-tools/pkg/functional"
)

type OutputFormat string

const (
	FormatDefault OutputFormat = "default"
	FormatOneLine OutputFormat = "one-line"
	FormatJSON    OutputFormat = "json"
)

const unownedLabel = "(unowned)"

var allowedFormats = []OutputFormat{FormatDefault, FormatOneLine, FormatJSON}

func formatNames() string {
	return strings.Join(f.Map(allowedFormats, func(format OutputFormat) string { return string(format) }), ", ")
}

// validateFormat maps the --format flag value to an OutputFormat
func validateFormat(format string) (OutputFormat, error) {
	if slices.Contains(allowedFormats, OutputFormat(format)) {
		return OutputFormat(format), nil
	}
	return "", fmt.Errorf("invalid format %q. Must be one of %s", format, formatNames())
}

type Target struct {
	Owner string `json:"owner"`
}

// writeOwners prints the locale team owning each target. JSON output uses an empty owner for
// unowned files, the text formats print (unowned).
func (format OutputFormat) writeOwners(w io.Writer, rules codeowners.Rules, targets []string) error {
	owner := func(target string) string {
		team, _ := rules.OwnerOf(strings.TrimPrefix(target, "/"))
		return team
	}
	label := func(target string) string {
		if team := owner(target); team != "" {
			return team
		}
		return unownedLabel
	}

	switch format {
	case FormatJSON:
		targetMap := make(map[string]Target, len(targets))
		for _, target := range targets {
			targetMap[target] = Target{Owner: owner(target)}
		}
		out, err := json.Marshal(targetMap)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatOneLine:
		_, err := fmt.Fprintln(w, strings.Join(f.Map(targets, func(target string) string {
			return fmt.Sprintf("%s: %s", target, label(target))
		}), ", "))
		return err
	}

	for _, target := range targets {
		if len(targets) > 1 {
			_, _ = fmt.Fprintf(w, "%s: ", target)
		}
		if _, err := fmt.Fprintln(w, label(target)); err != nil {
			return err
		}
	}
	return nil
}
