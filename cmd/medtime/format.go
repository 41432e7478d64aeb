package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Mavwarf/medtime/internal/medicine"
	"golang.org/x/term"
)

// --- ANSI color helpers (disabled when NO_COLOR env var is set) ---

var noColor = os.Getenv("NO_COLOR") != ""

func ansi(code, s string) string {
	if noColor {
		return s
	}
	return code + s + "\033[0m"
}

func bold(s string) string   { return ansi("\033[1m", s) }
func dim(s string) string    { return ansi("\033[2m", s) }
func green(s string) string  { return ansi("\033[32m", s) }
func yellow(s string) string { return ansi("\033[33m", s) }

// padR pads s to width with spaces on the right.
func padR(s string, width int) string {
	if pad := width - len(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// status describes a medicine relative to now: taken, due (later today),
// missed (time passed, not taken), or invalid (unschedulable time).
func status(m medicine.Medicine, now time.Time) string {
	if m.Taken {
		return "taken"
	}
	h, mm, ok := m.Clock()
	if !ok {
		return "invalid"
	}
	due := time.Date(now.Year(), now.Month(), now.Day(), h, mm, 0, 0, now.Location())
	if due.After(now) {
		return "due"
	}
	return "missed"
}

// byClock orders medicines by time of day; unparseable times go last.
func byClock(meds []medicine.Medicine) []medicine.Medicine {
	out := append([]medicine.Medicine(nil), meds...)
	minutes := func(m medicine.Medicine) int {
		h, mm, ok := m.Clock()
		if !ok {
			return 24 * 60
		}
		return h*60 + mm
	}
	sort.SliceStable(out, func(i, j int) bool { return minutes(out[i]) < minutes(out[j]) })
	return out
}

const (
	colID     = 10
	colTime   = 7
	colName   = 20
	colDosage = 12
	colFood   = 13
)

func renderTable(w io.Writer, meds []medicine.Medicine, now time.Time) {
	header := padR("ID", colID) + padR("TIME", colTime) + padR("NAME", colName) +
		padR("DOSAGE", colDosage) + padR("FOOD", colFood) + "STATUS"
	fmt.Fprintln(w, bold(header))
	for _, m := range byClock(meds) {
		st := status(m, now)
		colorFn := func(s string) string { return s }
		switch st {
		case "taken":
			colorFn = green
		case "missed", "invalid":
			colorFn = yellow
		}
		fmt.Fprintln(w, dim(padR(shortID(m.ID), colID))+
			padR(m.Time, colTime)+
			padR(m.Name, colName)+
			padR(m.Dosage, colDosage)+
			padR(m.FoodRelation.Label(), colFood)+
			colorFn(st))
	}
}

func renderTSV(w io.Writer, meds []medicine.Medicine, now time.Time) {
	for _, m := range byClock(meds) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Time, m.Name, m.Dosage, m.FoodRelation, status(m, now))
	}
}
