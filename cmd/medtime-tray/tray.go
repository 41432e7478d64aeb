package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/Mavwarf/medtime/internal/daemon"
	"github.com/Mavwarf/medtime/internal/schedule"
	"github.com/energye/systray"
	"github.com/rs/zerolog"
)

const (
	iconSize      = 64
	labelInterval = 30 * time.Second
)

type tray struct {
	svc *daemon.Service
	log zerolog.Logger
}

// pngToICO wraps raw PNG bytes in a minimal ICO container.
// Windows LoadImage(IMAGE_ICON) requires ICO format; since Vista,
// ICO supports embedded PNG data directly.
func pngToICO(png []byte, size int) []byte {
	dim := byte(size)
	if size >= 256 {
		dim = 0 // 0 = 256
	}
	buf := new(bytes.Buffer)
	// ICONDIR header
	binary.Write(buf, binary.LittleEndian, uint16(0)) // reserved
	binary.Write(buf, binary.LittleEndian, uint16(1)) // type: 1 = ICO
	binary.Write(buf, binary.LittleEndian, uint16(1)) // count: 1 image

	// ICONDIRENTRY
	buf.WriteByte(dim) // width
	buf.WriteByte(dim) // height
	buf.WriteByte(0)   // color count
	buf.WriteByte(0)   // reserved
	binary.Write(buf, binary.LittleEndian, uint16(1))        // color planes
	binary.Write(buf, binary.LittleEndian, uint16(32))       // bits per pixel
	binary.Write(buf, binary.LittleEndian, uint32(len(png))) // image data size
	binary.Write(buf, binary.LittleEndian, uint32(6+1*16))   // offset to image data (header + 1 entry)

	buf.Write(png)
	return buf.Bytes()
}

func (t *tray) onReady() {
	systray.SetIcon(trayIcon())
	systray.SetTooltip("medtime")

	mNext := systray.AddMenuItem(t.nextLabel(), "Next scheduled dose")
	mNext.Disable()

	systray.AddSeparator()

	mPreview := systray.AddMenuItem("Preview sound", "Play the selected alert sound")
	mPreview.Click(func() {
		t.svc.Manager.PreviewSound(t.svc.Settings.SoundProfile())
	})

	mRebuild := systray.AddMenuItem("Rebuild schedule", "Re-read the medicine list")
	mRebuild.Click(func() {
		if _, err := t.svc.Reload(); err != nil {
			t.log.Warn().Err(err).Msg("rebuild from tray failed")
		}
		mNext.SetTitle(t.nextLabel())
	})

	systray.AddSeparator()

	mQuit := systray.AddMenuItem("Quit", "Stop reminders and exit")
	mQuit.Click(func() { systray.Quit() })

	go func() {
		ticker := time.NewTicker(labelInterval)
		defer ticker.Stop()
		for range ticker.C {
			mNext.SetTitle(t.nextLabel())
		}
	}()
}

func (t *tray) nextLabel() string {
	e, ok := t.svc.Manager.Next()
	return nextLabel(e, ok, time.Now())
}

// nextLabel describes the next pending dose for the tray menu.
func nextLabel(e schedule.Entry, ok bool, now time.Time) string {
	if !ok {
		return "No more doses today"
	}
	return fmt.Sprintf("Next: %s at %s (%s)", e.Name, e.Due.Format("15:04"), countdown(e.Due.Sub(now)))
}

// countdown formats d as "in 1h05m", "in 12m" or "now".
func countdown(d time.Duration) string {
	d = d.Round(time.Minute)
	if d <= 0 {
		return "now"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("in %dh%02dm", h, m)
	}
	return fmt.Sprintf("in %dm", m)
}
