package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Mavwarf/medtime/internal/paths"
	"github.com/rs/zerolog"
)

// EnvLogPath overrides the log directory when no explicit one is given.
const EnvLogPath = "MEDTIME_LOG_PATH"

// ResolveDir picks the log directory: explicit path, then $MEDTIME_LOG_PATH,
// then the data directory. Relative paths are resolved against the working
// directory.
func ResolveDir(explicit string) (string, error) {
	p := explicit
	if p == "" {
		p = os.Getenv(EnvLogPath)
	}
	if p == "" {
		return paths.DataDir(), nil
	}
	if !filepath.IsAbs(p) {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(wd, p), nil
	}
	return p, nil
}

// New returns a console-formatted logger writing to w at the given level.
// An unparseable level falls back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger()
}

// Open creates dir if needed and returns a logger that writes to
// dir/medtime.log and, when console is non-nil, to console as well.
// The returned closer releases the log file.
func Open(dir, level string, console io.Writer) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, paths.DirPerm); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, paths.LogFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, paths.FilePerm)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	var w io.Writer = f
	if console != nil {
		w = io.MultiWriter(f, console)
	}
	logger := New(w, level).With().Int("pid", os.Getpid()).Logger()
	return logger, f, nil
}
