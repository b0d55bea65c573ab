// Package userdata resolves the per-platform editor user settings directory
// where the card preview scratch file is written.
package userdata

import (
	"log/slog"
	"os"
	"runtime"
	"strings"
)

// Paths resolves settings locations for one platform. The zero value is not
// usable; call Default or fill every field (tests inject fakes).
type Paths struct {
	GOOS     string
	Getenv   func(string) string
	ExecPath string
}

// Default returns Paths for the running process.
func Default() Paths {
	exe, err := os.Executable()
	if err != nil {
		exe = ""
	}
	return Paths{GOOS: runtime.GOOS, Getenv: os.Getenv, ExecPath: exe}
}

// Home returns %APPDATA% on windows and $HOME on darwin and linux.
// Other platforms yield an empty string.
func (p Paths) Home() string {
	switch p.GOOS {
	case "windows":
		return p.Getenv("APPDATA")
	case "darwin", "linux":
		return p.Getenv("HOME")
	default:
		slog.Error("Platform not detected; only windows, mac and linux supported", slog.String("goos", p.GOOS))
		return ""
	}
}

// CodeSettingsDir returns the editor "User" directory including a trailing separator.
func (p Paths) CodeSettingsDir() string {
	dir := p.Home()
	insiders := strings.Contains(strings.ToLower(p.ExecPath), "insiders")

	switch p.GOOS {
	case "windows":
		if insiders {
			return dir + `\Code - Insiders\User\`
		}
		return dir + `\Code\User\`
	case "darwin", "linux":
		if p.GOOS == "darwin" {
			dir += "/Library/Application Support"
		} else {
			dir += "/.config"
		}
		if insiders {
			return dir + "/Code - Insiders/User/"
		}
		return dir + "/Code/User/"
	default:
		return ""
	}
}
