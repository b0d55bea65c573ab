package config

import (
	"errors"
	"net"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateConfig checks a normalized configuration with defaults applied.
func ValidateConfig(c *Config) error {
	if c == nil {
		return errors.New("config nil")
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Version, validation.Required, validation.In(CurrentVersion)),
		validation.Field(&c.State),
		validation.Field(&c.Logging),
		validation.Field(&c.Metrics),
	)
}

func (s StateConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Dir, validation.Required),
	)
}

func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)),
		validation.Field(&l.Format, validation.Required,
			validation.In(LogFormatJSON, LogFormatText)),
	)
}

func (m MetricsConfig) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Addr, validation.By(listenAddr)),
	)
}

func listenAddr(value any) error {
	addr, _ := value.(string)
	if addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return errors.New("must be host:port")
	}
	return nil
}
