package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/urfave/cli"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "medtime"
	app.HelpName = "medtime"
	app.Usage = "Medication reminders with synthesized alert sounds"
	app.UsageText = "medtime [--config FILE] <command> [arguments...]"
	app.Version = version
	app.HideVersion = true
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to medtime-config.json",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "add",
			Usage:     "add a medicine",
			ArgsUsage: "<name>",
			Flags:     medicineFlags,
			Action:    withEnv(addMedicine),
		},
		{
			Name:    "list",
			Aliases: []string{"ls"},
			Usage:   "list medicines and today's status",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "tsv", Usage: "tab-separated output even on a terminal"},
			},
			Action: withEnv(listMedicines),
		},
		{
			Name:      "edit",
			Usage:     "change a medicine",
			ArgsUsage: "<id>",
			Flags:     append([]cli.Flag{cli.StringFlag{Name: "name, n", Usage: "new name"}}, medicineFlags...),
			Action:    withEnv(editMedicine),
		},
		{
			Name:      "take",
			Usage:     "toggle the taken flag of a medicine",
			ArgsUsage: "<id>",
			Action:    withEnv(takeMedicine),
		},
		{
			Name:      "delete",
			Aliases:   []string{"rm"},
			Usage:     "delete a medicine",
			ArgsUsage: "<id>",
			Action:    withEnv(deleteMedicine),
		},
		{
			Name:   "reset",
			Usage:  "mark every medicine as not taken (start a new day)",
			Action: withEnv(resetMedicines),
		},
		{
			Name:      "import",
			Usage:     "import medicines from a JSON array",
			ArgsUsage: "<file.json>",
			Action:    withEnv(importMedicines),
		},
		{
			Name:      "sound",
			Usage:     "show or select the alert sound",
			ArgsUsage: "[profile]",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "volume, v", Usage: "volume override 0-100, -1 clears it"},
			},
			Action: withEnv(selectSound),
		},
		{
			Name:   "sounds",
			Usage:  "list the available alert sounds",
			Action: withEnv(listSounds),
		},
		{
			Name:      "preview",
			Usage:     "play an alert sound once",
			ArgsUsage: "[profile]",
			Action:    withEnv(previewSound),
		},
		{
			Name:      "export",
			Usage:     "write an alert sound to a WAV file",
			ArgsUsage: "<profile> <file.wav>",
			Action:    exportSound,
		},
		{
			Name:      "mute",
			Usage:     "silence reminder sounds for a while (notifications still show)",
			ArgsUsage: "[duration|off]",
			Action:    withEnv(muteSounds),
		},
		{
			Name:  "history",
			Usage: "show recent alerts",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "days, d", Value: 7, Usage: "days to show, 0 for all"},
				cli.BoolFlag{Name: "summary, s", Usage: "per-medicine totals"},
				cli.IntFlag{Name: "clean", Usage: "delete entries older than N days"},
			},
			Action: withEnv(showHistory),
		},
		{
			Name:   "run",
			Usage:  "run the reminder daemon in the foreground",
			Action: runDaemon,
		},
		{
			Name:  "version",
			Usage: "show version and build date",
			Action: func(ctx *cli.Context) error {
				fmt.Fprintf(ctx.App.Writer, "medtime %s (%s) %s/%s\n", version, buildDate, runtime.GOOS, runtime.GOARCH)
				return nil
			},
		},
	}
	return app
}
