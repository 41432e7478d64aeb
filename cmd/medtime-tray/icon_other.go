//go:build !windows

package main

import "github.com/Mavwarf/medtime/internal/icon"

func trayIcon() []byte {
	return icon.PNG(iconSize)
}
