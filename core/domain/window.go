// ABOUTME: Popularity windows used to rank servers over a period of time
// ABOUTME: A window maps to a lower time bound for counting votes

package domain

import (
	"fmt"
	"time"
)

// Window is the period popularity is measured over
type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

// Windows lists the accepted windows
var Windows = []Window{WindowDay, WindowWeek, WindowMonth, WindowAll}

// ParseWindow parses a window name; empty means month
func ParseWindow(s string) (Window, error) {
	if s == "" {
		return WindowMonth, nil
	}
	for _, w := range Windows {
		if string(w) == s {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown window %q", s)
}

// Duration returns the length of the window, 0 for all
func (w Window) Duration() time.Duration {
	switch w {
	case WindowDay:
		return 24 * time.Hour
	case WindowWeek:
		return 7 * 24 * time.Hour
	case WindowMonth:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Since returns the lower bound of the window relative to now. The zero time
// is returned for WindowAll.
func (w Window) Since(now time.Time) time.Time {
	d := w.Duration()
	if d == 0 {
		return time.Time{}
	}
	return now.Add(-d)
}
