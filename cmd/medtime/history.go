package main

import (
	"fmt"
	"strconv"

	"github.com/Mavwarf/medtime/internal/eventlog"
	"github.com/urfave/cli"
)

func showHistory(ctx *cli.Context, e *env) error {
	w := ctx.App.Writer
	if ctx.IsSet("clean") {
		n, err := e.history.Clean(ctx.Int("clean"))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Removed %d entries\n", n)
		return nil
	}

	days := ctx.Int("days")
	if days < 0 {
		return fmt.Errorf("days must not be negative, got %d", days)
	}

	if ctx.Bool("summary") {
		sums, err := e.history.Summaries(days)
		if err != nil {
			return err
		}
		if len(sums) == 0 {
			fmt.Fprintln(w, noActivity(days))
			return nil
		}
		fmt.Fprintln(w, bold(padR("MEDICINE", colName)+padR("FIRED", 7)+"MUTED"))
		for _, s := range sums {
			fmt.Fprintln(w, padR(s.Name, colName)+padR(strconv.Itoa(s.Fired), 7)+strconv.Itoa(s.Muted))
		}
		return nil
	}

	entries, err := e.history.Entries(days)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, noActivity(days))
		return nil
	}
	for _, en := range entries {
		fmt.Fprintln(w, formatEntry(en))
	}
	return nil
}

func noActivity(days int) string {
	if days == 0 {
		return "No alerts recorded."
	}
	return fmt.Sprintf("No alerts in the last %d days.", days)
}

func formatEntry(e eventlog.Entry) string {
	ts := dim(e.Time.Format("2006-01-02 15:04"))
	kind := padR(e.Kind.String(), 8)
	if e.Kind == eventlog.KindPreview {
		return fmt.Sprintf("%s  %s %s", ts, kind, e.Profile)
	}
	line := fmt.Sprintf("%s  %s %s", ts, kind, e.Name)
	if e.Dosage != "" {
		line += " (" + e.Dosage + ")"
	}
	line += " [" + e.Profile + "]"
	if !e.Notified {
		line += " no notification"
	}
	return line
}
