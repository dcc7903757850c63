package settings

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Priority is a logcat message priority, ordered from least to most severe.
type Priority int

const (
	Verbose Priority = iota
	Debug
	Info
	Warn
	Error
	Fatal
)

var priorityNames = [...]string{"Verbose", "Debug", "Info", "Warn", "Error", "Fatal"}

func (p Priority) String() string {
	if p < Verbose || p > Fatal {
		return fmt.Sprintf("Priority(%d)", int(p))
	}
	return priorityNames[p]
}

// Letter returns the single-letter logcat form (V, D, I, W, E, F).
func (p Priority) Letter() string {
	return p.String()[:1]
}

// ParsePriority accepts full names ("warn", "Warning") and logcat letters ("W").
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		return Warn, nil
	}
	for i, name := range priorityNames {
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:1]) {
			return Priority(i), nil
		}
	}
	return Verbose, fmt.Errorf("unknown priority %q", s)
}

func (p Priority) MarshalJSON() ([]byte, error) {
	if p < Verbose || p > Fatal {
		return nil, fmt.Errorf("marshal priority: out of range %d", int(p))
	}
	return json.Marshal(priorityNames[p])
}

// UnmarshalJSON accepts the priority name or its ordinal.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < int(Verbose) || n > int(Fatal) {
			return fmt.Errorf("priority out of range: %d", n)
		}
		*p = Priority(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode priority: %w", err)
	}
	v, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
