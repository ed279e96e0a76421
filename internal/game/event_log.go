package game

import (
	"fmt"
	"strings"
)

// Event is one recorded step of the session lifecycle.
type Event struct {
	Seq      int
	Category string // request, phase, busy, skip, place, orient, error, ...
	Key      string // specific event name within the category
	Value    string // human-readable detail
}

// String formats the entry as a fixed-width log line.
//
//	[#012] request  end_turn         player=3
func (e Event) String() string {
	return fmt.Sprintf("[#%03d] %-8s %-16s %s", e.Seq, e.Category, e.Key, e.Value)
}

// EventLog collects structured lifecycle events. Unlike MessageLog it is
// unbounded and meant for machines: tests and the headless report read it.
type EventLog struct {
	entries []Event
	seq     int
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

// Add records a new entry.
func (l *EventLog) Add(category, key, value string) {
	l.seq++
	l.entries = append(l.entries, Event{Seq: l.seq, Category: category, Key: key, Value: value})
}

// Entries returns all recorded entries.
func (l *EventLog) Entries() []Event {
	return append([]Event(nil), l.entries...)
}

// Filter returns entries matching category and/or key; empty matches any.
func (l *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many entries match category and key.
func (l *EventLog) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key.
func (l *EventLog) LastOf(category, key string) (Event, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return Event{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry reports whether an entry matches category, key and value substring.
func (l *EventLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range l.Filter(category, key) {
		if valueSubstr == "" || strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Format returns the whole log, one entry per line, for t.Log output.
func (l *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
