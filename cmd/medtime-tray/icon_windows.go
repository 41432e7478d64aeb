package main

import "github.com/Mavwarf/medtime/internal/icon"

// trayIcon returns the icon as ICO, which LoadImage requires on Windows.
func trayIcon() []byte {
	return pngToICO(icon.PNG(iconSize), iconSize)
}
