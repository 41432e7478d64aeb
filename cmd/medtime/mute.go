package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli"
)

func muteSounds(ctx *cli.Context, e *env) error {
	w := ctx.App.Writer
	arg := ctx.Args().First()
	switch arg {
	case "":
		if until, ok := e.mute.Until(); ok {
			fmt.Fprintf(w, "Muted until %s\n", until.Format("15:04"))
		} else {
			fmt.Fprintln(w, "Not muted")
		}
		return nil
	case "off":
		if err := e.mute.Disable(); err != nil {
			return err
		}
		fmt.Fprintln(w, "Mute disabled")
		return nil
	}

	d, err := parseMuteDuration(arg)
	if err != nil {
		return err
	}
	until, err := e.mute.Enable(d)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Reminder sounds muted until %s\n", until.Format("15:04"))
	return nil
}

// parseMuteDuration accepts a Go duration ("90m", "1h30m") or a bare number
// of minutes.
func parseMuteDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("duration must be positive, got %d", n)
		}
		return time.Duration(n) * time.Minute, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (e.g. 30m, 2h, or minutes)", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}
