package configutil

import (
	"strconv"
	"strings"
	"time"
)

// Duration is a time.Duration that decodes from strings like "10s" in both
// json5 files and environment variables. Bare numbers are read as milliseconds.
type Duration time.Duration

func parseDuration(text string) (Duration, error) {
	ms, err := strconv.ParseInt(text, 10, 64)
	if err == nil {
		return Duration(time.Duration(ms) * time.Millisecond), nil
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return 0, err
	}
	return Duration(parsed), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := parseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// json5 hands over the raw token, which may be quoted with either quote style.
func (d *Duration) UnmarshalJSON(raw []byte) error {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"'`)
	return d.UnmarshalText([]byte(text))
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
