/*
MIT License

Copyright (c) 2025 mthm112

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Window describes a recurring weekly interval, expressed in a fixed UTC
// offset, during which automated teardown must not run.
type Window struct {
	// StartHour is the first protected hour of the day (inclusive).
	StartHour int
	// EndHour is the first hour after the protected interval (exclusive).
	EndHour int
	// UTCOffsetHours shifts the evaluated wall clock away from UTC.
	UTCOffsetHours int
	// Weekdays holds the protected days. A day absent from the set is
	// never protected.
	Weekdays map[time.Weekday]bool
}

// DefaultWindow returns the standard business window: 09:00-17:00 Monday
// through Friday, evaluated in UTC.
func DefaultWindow() Window {
	return Window{
		StartHour:      9,
		EndHour:        17,
		UTCOffsetHours: 0,
		Weekdays:       Weekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday),
	}
}

// Weekdays builds a day set from the given days.
func Weekdays(days ...time.Weekday) map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}

// ParseWeekdays parses a comma-separated day list such as "Mon,Tue,Fri".
// Full day names are accepted too; matching is case-insensitive.
func ParseWeekdays(s string) (map[time.Weekday]bool, error) {
	set := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		matched := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			full := strings.ToLower(d.String())
			if name == full || name == full[:3] {
				set[d] = true
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("schedule: unknown weekday %q", part)
		}
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("schedule: empty weekday list %q", s)
	}
	return set, nil
}

// Contains reports whether now falls inside the protected window. The hour
// range is half-open: StartHour is protected, EndHour is not, so a window
// ending at 17 releases cleanup at exactly 17:00.
func (w Window) Contains(now time.Time) bool {
	local := now.In(w.location())
	if !w.Weekdays[local.Weekday()] {
		return false
	}
	hour := local.Hour()
	return hour >= w.StartHour && hour < w.EndHour
}

// Explain returns a short account of where now sits relative to the window,
// suitable for run reports.
func (w Window) Explain(now time.Time) string {
	local := now.In(w.location())
	day := local.Weekday()
	clock := fmt.Sprintf("%s %02d:%02d", day, local.Hour(), local.Minute())
	if !w.Weekdays[day] {
		return fmt.Sprintf("%s is not a protected day", clock)
	}
	if hour := local.Hour(); hour >= w.StartHour && hour < w.EndHour {
		return fmt.Sprintf("%s is inside %s", clock, w.hours())
	}
	return fmt.Sprintf("%s is outside %s", clock, w.hours())
}

// Validate checks that the window is well formed.
func (w Window) Validate() error {
	if w.StartHour < 0 || w.StartHour > 23 {
		return fmt.Errorf("schedule: start hour %d out of range [0,23]", w.StartHour)
	}
	if w.EndHour < 1 || w.EndHour > 24 {
		return fmt.Errorf("schedule: end hour %d out of range [1,24]", w.EndHour)
	}
	if w.StartHour >= w.EndHour {
		return fmt.Errorf("schedule: start hour %d is not before end hour %d", w.StartHour, w.EndHour)
	}
	if w.UTCOffsetHours < -12 || w.UTCOffsetHours > 14 {
		return fmt.Errorf("schedule: UTC offset %d out of range [-12,14]", w.UTCOffsetHours)
	}
	if len(w.Weekdays) == 0 {
		return fmt.Errorf("schedule: no protected weekdays configured")
	}
	return nil
}

// String renders the window as e.g. "09:00-17:00 Mon Tue Wed Thu Fri UTC+00".
func (w Window) String() string {
	days := make([]time.Weekday, 0, len(w.Weekdays))
	for d := range w.Weekdays {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()[:3]
	}
	return fmt.Sprintf("%s %s UTC%+03d", w.hours(), strings.Join(names, " "), w.UTCOffsetHours)
}

func (w Window) hours() string {
	return fmt.Sprintf("%02d:00-%02d:00", w.StartHour, w.EndHour)
}

func (w Window) location() *time.Location {
	if w.UTCOffsetHours == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", w.UTCOffsetHours), w.UTCOffsetHours*3600)
}
