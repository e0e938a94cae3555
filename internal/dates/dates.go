package dates

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Value is a stored date. It is implemented only by [Timestamp] and
// [ISOString].
type Value interface {
	isValue()
}

// Timestamp is the store-native timestamp representation.
type Timestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int32 `json:"nanoseconds"`
}

// ISOString is a date written as text, e.g. "2025-05-01T10:00".
type ISOString string

func (Timestamp) isValue() {}
func (ISOString) isValue() {}

// FromTime builds the store-native timestamp of t.
func FromTime(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanoseconds: int32(t.Nanosecond())}
}

// Time converts ts to an instant.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanoseconds))
}

// layouts accepted for ISOString, most specific first. Layouts without a
// zone are interpreted in the local zone.
var layouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02T15:04:05Z07:00", true},
	{"2006-01-02T15:04Z07:00", true},
	{"2006-01-02T15:04:05.999999999", false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", false},
}

// Normalize converts v into an instant. The boolean is false when v is nil,
// of an unknown kind, or a string that no accepted layout matches.
func Normalize(v Value) (time.Time, bool) {
	switch d := v.(type) {
	case Timestamp:
		if d.Nanoseconds < 0 || d.Nanoseconds >= 1e9 {
			return time.Time{}, false
		}
		return d.Time(), true
	case ISOString:
		return parseISO(string(d))
	default:
		return time.Time{}, false
	}
}

func parseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range layouts {
		var (
			t   time.Time
			err error
		)
		if l.zoned {
			t, err = time.Parse(l.layout, s)
		} else {
			t, err = time.ParseInLocation(l.layout, s, time.Local)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Combine joins a calendar date ("2006-01-02") and a clock time ("15:04")
// into the ISO string stored for reminders.
func Combine(date, clock string) ISOString {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if clock == "" {
		return ISOString(date)
	}
	return ISOString(date + "T" + clock)
}

// DayKey returns the local calendar day of t as "2006-01-02".
func DayKey(t time.Time) string {
	return t.In(time.Local).Format(time.DateOnly)
}

// Raw is the JSON boundary for a stored date. An object decodes into a
// [Timestamp], a string into an [ISOString]; anything else leaves V nil.
// Decoding never returns an error.
type Raw struct {
	V Value
}

// UnmarshalJSON implements [json.Unmarshaler].
func (r *Raw) UnmarshalJSON(b []byte) error {
	r.V = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '{':
		var probe struct {
			Seconds     *int64 `json:"seconds"`
			Nanoseconds int32  `json:"nanoseconds"`
		}
		if err := json.Unmarshal(b, &probe); err == nil && probe.Seconds != nil {
			r.V = Timestamp{Seconds: *probe.Seconds, Nanoseconds: probe.Nanoseconds}
		}
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			r.V = ISOString(s)
		}
	}
	return nil
}

// MarshalJSON implements [json.Marshaler].
func (r Raw) MarshalJSON() ([]byte, error) {
	switch v := r.V.(type) {
	case Timestamp:
		return json.Marshal(v)
	case ISOString:
		return json.Marshal(string(v))
	default:
		return []byte("null"), nil
	}
}

// Time normalizes the wrapped value; see [Normalize].
func (r Raw) Time() (time.Time, bool) {
	return Normalize(r.V)
}

// Ptr normalizes the wrapped value and returns nil when it has no instant.
func (r Raw) Ptr() *time.Time {
	t, ok := Normalize(r.V)
	if !ok {
		return nil
	}
	return &t
}
