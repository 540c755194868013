package config

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes free-form fields in place: the window title is
// trimmed and NFC-normalized (falling back to DefaultTitle when empty), and
// asset paths are cleaned with blanks dropped.
func Normalize(cfg *Config) {
	title := norm.NFC.String(strings.TrimSpace(cfg.Window.Title))
	if title == "" {
		title = DefaultTitle
	}
	cfg.Window.Title = title

	if cfg.Assets.Paths != nil {
		paths := make([]string, 0, len(cfg.Assets.Paths))
		for _, p := range cfg.Assets.Paths {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			paths = append(paths, filepath.Clean(p))
		}
		cfg.Assets.Paths = paths
	}
}
