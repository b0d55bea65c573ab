package config

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Snapshot computes a stable hash of the normalized fields the shell can apply
// at runtime. Callers should normalize and apply defaults first.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) { h.Write([]byte(strings.Join(parts, "="))); h.Write([]byte{0}) }
	w("viewer.view_column", strconv.Itoa(c.Viewer.ViewColumn))
	w("viewer.starred_boards_only", strconv.FormatBool(c.Viewer.StarredBoardsOnly))
	w("viewer.copy_links", strconv.FormatBool(c.Viewer.CopyLinks))
	w("viewer.open_browser", strconv.FormatBool(c.Viewer.OpenBrowser))
	w("logging.level", string(c.Logging.Level))
	w("logging.format", string(c.Logging.Format))
	return hex.EncodeToString(h.Sum(nil))
}
