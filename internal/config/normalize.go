package config

import (
	"fmt"
	"strings"
)

// NormalizationResult captures adjustments and warnings from the normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated fields before defaults are applied.
func NormalizeConfig(c *Config) *NormalizationResult {
	res := &NormalizationResult{}
	normalizeLogging(&c.Logging, res)
	c.State.Dir = strings.TrimSpace(c.State.Dir)
	c.Metrics.Addr = strings.TrimSpace(c.Metrics.Addr)
	return res
}

func normalizeLogging(l *LoggingConfig, res *NormalizationResult) {
	if raw := string(l.Level); strings.TrimSpace(raw) != "" {
		lvl, err := logLevelNormalizer.Parse(raw)
		switch {
		case err != nil:
			res.Warnings = append(res.Warnings, warnUnknown("logging.level", raw, string(LogLevelInfo)))
			l.Level = LogLevelInfo
		case lvl != l.Level:
			res.Warnings = append(res.Warnings, warnChanged("logging.level", l.Level, lvl))
			l.Level = lvl
		}
	}
	if raw := string(l.Format); strings.TrimSpace(raw) != "" {
		f, err := logFormatNormalizer.Parse(raw)
		switch {
		case err != nil:
			res.Warnings = append(res.Warnings, warnUnknown("logging.format", raw, string(LogFormatText)))
			l.Format = LogFormatText
		case f != l.Format:
			res.Warnings = append(res.Warnings, warnChanged("logging.format", l.Format, f))
			l.Format = f
		}
	}
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
