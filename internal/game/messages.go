package game

import "time"

const messageLogCapacity = 60

// Level grades a user-visible message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Message is a single line shown to the player.
type Message struct {
	Time  time.Time
	Level Level
	Text  string
}

// MessageLog is a ring buffer of the messages renderers show on screen.
type MessageLog struct {
	entries []Message
	head    int
	count   int
	now     func() time.Time
}

// NewMessageLog creates a message log with a fixed capacity.
func NewMessageLog() *MessageLog {
	return &MessageLog{
		entries: make([]Message, messageLogCapacity),
		now:     time.Now,
	}
}

// Add appends a message, evicting the oldest once full.
func (ml *MessageLog) Add(level Level, text string) {
	ml.entries[ml.head] = Message{Time: ml.now(), Level: level, Text: text}
	ml.head = (ml.head + 1) % messageLogCapacity
	if ml.count < messageLogCapacity {
		ml.count++
	}
}

// Recent returns messages oldest first.
func (ml *MessageLog) Recent() []Message {
	result := make([]Message, ml.count)
	for i := 0; i < ml.count; i++ {
		idx := (ml.head - ml.count + i + messageLogCapacity) % messageLogCapacity
		result[i] = ml.entries[idx]
	}
	return result
}

// Last returns the newest message.
func (ml *MessageLog) Last() (Message, bool) {
	if ml.count == 0 {
		return Message{}, false
	}
	return ml.entries[(ml.head-1+messageLogCapacity)%messageLogCapacity], true
}

func (ml *MessageLog) Len() int { return ml.count }
