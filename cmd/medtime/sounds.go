package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Mavwarf/medtime/internal/audio"
	"github.com/Mavwarf/medtime/internal/synth"
	"github.com/urfave/cli"
)

func selectSound(ctx *cli.Context, e *env) error {
	w := ctx.App.Writer
	if ctx.IsSet("volume") {
		v := ctx.Int("volume")
		if err := e.settings.SetVolume(v); err != nil {
			return err
		}
		if v < 0 {
			fmt.Fprintf(w, "Volume reset to config default (%d)\n", e.cfg.Options.DefaultVolume)
		} else {
			fmt.Fprintf(w, "Volume set to %d\n", v)
		}
	}

	if name := ctx.Args().First(); name != "" {
		p, err := synth.ParseProfile(name)
		if err != nil {
			return err
		}
		if err := e.settings.SetSoundProfile(p); err != nil {
			return err
		}
		fmt.Fprintf(w, "Alert sound set to %s\n", p)
		return nil
	}
	if !ctx.IsSet("volume") {
		fmt.Fprintf(w, "Alert sound: %s (volume %d)\n", e.settings.SoundProfile(), volume(e))
	}
	return nil
}

func listSounds(ctx *cli.Context, e *env) error {
	current := e.settings.SoundProfile()
	for _, name := range synth.Names() {
		p := synth.Profile(name)
		mark := " "
		if p == current {
			mark = "*"
		}
		fmt.Fprintf(ctx.App.Writer, "%s %s %s\n", mark, padR(name, 9), dim(p.Description()))
	}
	return nil
}

func previewSound(ctx *cli.Context, e *env) error {
	p := e.settings.SoundProfile()
	if name := ctx.Args().First(); name != "" {
		var err error
		if p, err = synth.ParseProfile(name); err != nil {
			return err
		}
	}
	fmt.Fprintf(ctx.App.Writer, "Playing %s...\n", p)
	engine := audio.NewEngine(nil, e.log)
	engine.SetVolume(float64(volume(e)) / 100)
	engine.Play(synth.Synthesize(p), 0)
	engine.Wait()
	return nil
}

func exportSound(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return errors.New("usage: medtime export <profile> <file.wav>")
	}
	p, err := synth.ParseProfile(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	path := ctx.Args().Get(1)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	pcm := audio.Render(synth.Synthesize(p), 0)
	if err := audio.EncodeWAV(f, pcm); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Wrote %s (%.1fs)\n", path, float64(len(pcm))/float64(audio.SampleRate*4))
	return nil
}

// volume returns the settings override or the config default.
func volume(e *env) int {
	if v, ok := e.settings.Volume(); ok {
		return v
	}
	return e.cfg.Options.DefaultVolume
}
