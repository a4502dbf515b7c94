package sqlstore

import (
	"fmt"
	"time"
)

// timestamp layouts sqlite may hand back as text
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// timeValue scans a timestamp column across drivers: lib/pq yields
// time.Time, sqlite yields the stored text.
type timeValue struct {
	t     time.Time
	valid bool
}

func (v *timeValue) Scan(src interface{}) error {
	v.valid = false
	switch s := src.(type) {
	case nil:
		return nil
	case time.Time:
		v.t = s
		v.valid = true
		return nil
	case []byte:
		return v.parse(string(s))
	case string:
		return v.parse(s)
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (v *timeValue) parse(s string) error {
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			v.t = t
			v.valid = true
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
