package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/atelieapp/unify/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// confidenceBadge renders a confidence level with its color and symbol.
func confidenceBadge(c types.Confidence) string {
	switch c {
	case types.ConfidenceHigh:
		return green("✓ high")
	case types.ConfidenceMedium:
		return yellow("⚠ medium")
	case types.ConfidenceLow:
		return red("! low")
	default:
		return gray(string(c))
	}
}

// scoreColor colors a composite score by the confidence band it falls in.
func scoreColor(score int) string {
	s := fmt.Sprintf("%d%%", score)
	switch {
	case score >= 85:
		return green(s)
	case score >= 70:
		return yellow(s)
	default:
		return red(s)
	}
}

// recordLabel is the one-line form used in listings: the compared field
// value plus the id in gray.
func recordLabel(rec *types.Record, field string) string {
	value := rec.Field(field)
	if value == "" {
		value = gray("(blank)")
	}
	return fmt.Sprintf("%s %s", value, gray("["+rec.ID+"]"))
}
