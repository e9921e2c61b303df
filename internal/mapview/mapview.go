package mapview

// Package mapview builds the external map URL for a position and hands it
// to the platform's opener. Failures here are reported to the user and
// never reach the report store.

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
)

const searchURLBase = "https://www.google.com/maps/search/?api=1&query="

// SearchURL builds the external map link for the given position.
func SearchURL(latitude, longitude float64) string {
	return searchURLBase + formatCoordinate(latitude) + "," + formatCoordinate(longitude)
}

// Open hands url to the platform's external-open mechanism. The viewer is
// started detached; Open does not wait for it to exit.
func Open(url string) error {
	name, args, err := openerCommand(runtime.GOOS, url)
	if err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	// Reap the opener once it exits so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

func openerCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	default:
		return "", nil, fmt.Errorf("no external opener for %s", goos)
	}
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
