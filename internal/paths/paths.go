package paths

import (
	"os"
	"path/filepath"
)

const (
	AppDirName       = "medtime"
	ConfigFileName   = "medtime-config.json"
	DatabaseFileName = "medtime.db"
	SettingsFileName = "settings.json"
	SilentFileName   = "silent.json"
	LogFileName      = "medtime.log"
	DirPerm          = 0755
	FilePerm         = 0644
)

// AtomicWrite writes data to path via a uniquely named temporary file +
// rename, so concurrent writers never share a temp file and readers never
// see a partial write. The parent directory is created if needed.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, FilePerm); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// DataDir returns the platform-specific data directory for medtime:
//   - Windows: %APPDATA%\medtime
//   - Unix:    ~/.config/medtime
//
// Falls back to os.TempDir()/medtime if neither is available.
func DataDir() string {
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, AppDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppDirName)
	}
	return filepath.Join(home, ".config", AppDirName)
}

// DatabasePath returns the default SQLite database location.
func DatabasePath() string {
	return filepath.Join(DataDir(), DatabaseFileName)
}
