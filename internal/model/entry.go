package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/rileva/internal/timecalc"
)

// Task is a sub-allocation of a day's hours to one activity/extract/client.
type Task struct {
	Code     string  `json:"code"`
	Activity string  `json:"activity,omitempty"`
	Extract  string  `json:"extract,omitempty"`
	Client   string  `json:"client,omitempty"`
	Hours    float64 `json:"hours"`
	Notes    string  `json:"notes,omitempty"`
}

// DayEntry is one calendar date of the reported month.
//
// When Tasks is non-empty it is authoritative and the top-level Code, Hours,
// Extract and Client are derived from it (see SetTasks). An entry without
// tasks is a legacy single-task record and its top-level fields are used as is.
type DayEntry struct {
	Date      time.Time `json:"-"`
	Code      string    `json:"code"`
	Activity  string    `json:"activity"`
	Extract   string    `json:"extract,omitempty"`
	Client    string    `json:"client,omitempty"`
	Hours     float64   `json:"hours"`
	Notes     string    `json:"notes,omitempty"`
	Prefilled bool      `json:"prefilled,omitempty"`
	Tasks     []Task    `json:"tasks,omitempty"`
}

type dayEntryJSON struct {
	Date string `json:"date"`
	dayEntryAlias
}

type dayEntryAlias DayEntry

// MarshalJSON stores the date as an ISO calendar date.
func (d DayEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(dayEntryJSON{
		Date:          timecalc.ISODate(d.Date),
		dayEntryAlias: dayEntryAlias(d),
	})
}

// UnmarshalJSON accepts ISO dates and the RFC 3339 timestamps of older files.
func (d *DayEntry) UnmarshalJSON(data []byte) error {
	var raw dayEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = DayEntry(raw.dayEntryAlias)
	if raw.Date == "" {
		return fmt.Errorf("day entry without date")
	}
	day, err := timecalc.ParseDay(raw.Date)
	if err != nil {
		return err
	}
	d.Date = day
	return nil
}

// Key returns the entry's ISO calendar date.
func (d DayEntry) Key() string {
	return timecalc.ISODate(d.Date)
}

// SetTasks replaces the task list and re-derives the legacy fields.
func (d *DayEntry) SetTasks(tasks []Task) {
	d.Tasks = append([]Task(nil), tasks...)
	if len(d.Tasks) == 0 {
		return
	}
	var sum float64
	for _, t := range d.Tasks {
		sum += t.Hours
	}
	first := d.Tasks[0]
	d.Hours = sum
	d.Code = first.Code
	d.Activity = first.Activity
	d.Extract = first.Extract
	d.Client = first.Client
}

// EffectiveTasks returns the authoritative task view of the entry: the task
// list when present, otherwise a single task built from the legacy fields.
func (d DayEntry) EffectiveTasks() []Task {
	if len(d.Tasks) > 0 {
		return d.Tasks
	}
	return []Task{d.legacyTask()}
}

func (d DayEntry) legacyTask() Task {
	return Task{
		Code:     d.Code,
		Activity: d.Activity,
		Extract:  d.Extract,
		Client:   d.Client,
		Hours:    d.Hours,
		Notes:    d.Notes,
	}
}

// TotalHours sums the hours of the effective tasks.
func (d DayEntry) TotalHours() float64 {
	var sum float64
	for _, t := range d.EffectiveTasks() {
		sum += t.Hours
	}
	return sum
}

// Clone returns a deep copy of the entry.
func (d DayEntry) Clone() DayEntry {
	c := d
	if d.Tasks != nil {
		c.Tasks = append([]Task(nil), d.Tasks...)
	}
	return c
}

// CloneEntries deep-copies a slice of entries.
func CloneEntries(entries []DayEntry) []DayEntry {
	if entries == nil {
		return nil
	}
	out := make([]DayEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// Normalize synthesizes a one-task list for legacy entries so that every
// consumer sees the same shape. It runs once at load time.
func Normalize(entries []DayEntry) []DayEntry {
	out := CloneEntries(entries)
	for i := range out {
		e := &out[i]
		if len(e.Tasks) > 0 {
			continue
		}
		if strings.TrimSpace(e.Code) == "" && e.Hours == 0 {
			continue
		}
		e.Tasks = []Task{e.legacyTask()}
	}
	return out
}

// EntriesEqual compares two entry lists structurally: dates by calendar day,
// then hours, code and the full task lists.
func EntriesEqual(a, b []DayEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !entryEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func entryEqual(a, b DayEntry) bool {
	if !timecalc.SameDay(a.Date, b.Date) {
		return false
	}
	if a.Hours != b.Hours || a.Code != b.Code || a.Activity != b.Activity ||
		a.Extract != b.Extract || a.Client != b.Client || a.Notes != b.Notes ||
		a.Prefilled != b.Prefilled {
		return false
	}
	if len(a.Tasks) != len(b.Tasks) {
		return false
	}
	for i := range a.Tasks {
		if a.Tasks[i] != b.Tasks[i] {
			return false
		}
	}
	return true
}
