package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Mavwarf/medtime/internal/medicine"
	"github.com/urfave/cli"
)

var medicineFlags = []cli.Flag{
	cli.StringFlag{Name: "dosage, d", Usage: "dose to take, e.g. \"100mg\""},
	cli.StringFlag{Name: "time, t", Usage: "time of day, HH:MM (24-hour)"},
	cli.StringFlag{Name: "food, f", Usage: "before, with, after or any"},
}

func addMedicine(ctx *cli.Context, e *env) error {
	name := strings.Join(ctx.Args(), " ")
	if strings.TrimSpace(name) == "" {
		return errors.New("usage: medtime add <name> --time HH:MM [--dosage D] [--food F]")
	}
	m, err := e.medicines.Add(medicine.Input{
		Name:         name,
		Dosage:       ctx.String("dosage"),
		Time:         ctx.String("time"),
		FoodRelation: medicine.FoodRelation(ctx.String("food")),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Added %s (%s) at %s [%s]\n", m.Name, m.Dosage, m.Time, shortID(m.ID))
	return nil
}

func listMedicines(ctx *cli.Context, e *env) error {
	meds, err := e.medicines.List()
	if err != nil {
		return err
	}
	w := ctx.App.Writer
	if len(meds) == 0 {
		fmt.Fprintln(w, "No medicines yet. Add one with: medtime add <name> --time HH:MM")
		return nil
	}
	if !ctx.Bool("tsv") && isTerminal(w) {
		renderTable(w, meds, time.Now())
		return nil
	}
	renderTSV(w, meds, time.Now())
	return nil
}

func editMedicine(ctx *cli.Context, e *env) error {
	m, err := resolveID(e.medicines, ctx.Args().First())
	if err != nil {
		return err
	}
	in := medicine.Input{Name: m.Name, Dosage: m.Dosage, Time: m.Time, FoodRelation: m.FoodRelation}
	if ctx.IsSet("name") {
		in.Name = ctx.String("name")
	}
	if ctx.IsSet("dosage") {
		in.Dosage = ctx.String("dosage")
	}
	if ctx.IsSet("time") {
		in.Time = ctx.String("time")
	}
	if ctx.IsSet("food") {
		in.FoodRelation = medicine.FoodRelation(ctx.String("food"))
	}
	m, err = e.medicines.Update(m.ID, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Updated %s (%s) at %s, %s\n", m.Name, m.Dosage, m.Time, m.FoodRelation.Label())
	return nil
}

func takeMedicine(ctx *cli.Context, e *env) error {
	m, err := resolveID(e.medicines, ctx.Args().First())
	if err != nil {
		return err
	}
	m, err = e.medicines.ToggleTaken(m.ID)
	if err != nil {
		return err
	}
	state := "taken"
	if !m.Taken {
		state = "not taken"
	}
	fmt.Fprintf(ctx.App.Writer, "%s marked as %s\n", m.Name, state)
	return nil
}

func deleteMedicine(ctx *cli.Context, e *env) error {
	m, err := resolveID(e.medicines, ctx.Args().First())
	if err != nil {
		return err
	}
	if err := e.medicines.Delete(m.ID); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Deleted %s\n", m.Name)
	return nil
}

func resetMedicines(ctx *cli.Context, e *env) error {
	n, err := e.medicines.ResetTaken()
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Reset %d medicine(s) to not taken\n", n)
	return nil
}

func importMedicines(ctx *cli.Context, e *env) error {
	path := ctx.Args().First()
	if path == "" {
		return errors.New("usage: medtime import <file.json>")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var meds []medicine.Medicine
	if err := json.Unmarshal(data, &meds); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	n, err := e.medicines.Import(meds)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Imported %d medicine(s)\n", n)
	return nil
}

// resolveID finds a medicine by full id or by a unique id prefix.
func resolveID(store medicine.Store, arg string) (medicine.Medicine, error) {
	if arg == "" {
		return medicine.Medicine{}, errors.New("missing medicine id (see 'medtime list')")
	}
	if m, err := store.Get(arg); err == nil {
		return m, nil
	} else if !errors.Is(err, medicine.ErrNotFound) {
		return medicine.Medicine{}, err
	}

	meds, err := store.List()
	if err != nil {
		return medicine.Medicine{}, err
	}
	var found []medicine.Medicine
	for _, m := range meds {
		if strings.HasPrefix(m.ID, arg) {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 0:
		return medicine.Medicine{}, fmt.Errorf("%w: %s", medicine.ErrNotFound, arg)
	case 1:
		return found[0], nil
	}
	return medicine.Medicine{}, fmt.Errorf("id prefix %q matches %d medicines", arg, len(found))
}
