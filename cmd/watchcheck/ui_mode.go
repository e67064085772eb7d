package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode selects how verify reports progress while cases run.
type uiMode int

const (
	uiAuto uiMode = iota // progress view on a terminal with more than one case
	uiOn
	uiOff
)

func readUIMode(value string) (uiMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return uiAuto, nil
	case "on":
		return uiOn, nil
	case "off":
		return uiOff, nil
	}
	return uiAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// progressView reports whether verify shows the live case list. Quiet runs
// never do, and a single case finishes before a view is worth drawing.
func progressView(mode uiMode, quiet bool, cases int) bool {
	if quiet {
		return false
	}
	switch mode {
	case uiOn:
		return true
	case uiOff:
		return false
	}
	return cases > 1 && isTerminal(os.Stdout)
}
