package protocol

import (
	"strings"
	"time"
)

// wireTimeLayout is the canonical on-wire date format from spec §4.A:
// YYYY-MM-DDTHH:mm:ss,SSSZ — a comma, not a dot, before milliseconds.
const wireTimeLayout = "2006-01-02T15:04:05.000Z0700"

// Time adapts time.Time to the wire format, swapping the Go-standard dot
// millisecond separator for the spec's comma.
type Time struct {
	time.Time
}

// NewTime wraps t for encoding.
func NewTime(t time.Time) Time { return Time{t.UTC()} }

func (t Time) MarshalJSON() ([]byte, error) {
	s := t.Time.UTC().Format(wireTimeLayout)
	s = strings.Replace(s, ".", ",", 1)
	return []byte(`"` + s + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	s = strings.Replace(s, ",", ".", 1)
	parsed, err := time.Parse(wireTimeLayout, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
