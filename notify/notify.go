// Package notify carries user-facing notices: transient info and error
// toasts plus a blocking alert that stays until acknowledged.
package notify

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Level is the severity of a notice
type Level int

const (
	LevelInfo Level = iota
	LevelError
	LevelAlert
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelError:
		return "error"
	case LevelAlert:
		return "alert"
	}
	return "unknown"
}

// Notice is a single message shown to the user
type Notice struct {
	Level Level
	Text  string
	At    time.Time
}

// Sink receives notices from the interaction flow
type Sink interface {
	Info(text string)
	Error(text string)
	Alert(text string)
}

// DefaultTTL is how long a toast stays on screen
const DefaultTTL = 4 * time.Second

// Board keeps active toasts and the pending alert for a UI to render.
// Every new notice is also offered on C so a UI can wake up.
type Board struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	toasts []Notice
	alert  *Notice
	c      chan Notice
}

// NewBoard creates a board whose toasts expire after ttl
func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Board{
		ttl: ttl,
		now: time.Now,
		c:   make(chan Notice, 16),
	}
}

func (b *Board) Info(text string)  { b.push(LevelInfo, text) }
func (b *Board) Error(text string) { b.push(LevelError, text) }
func (b *Board) Alert(text string) { b.push(LevelAlert, text) }

func (b *Board) push(level Level, text string) {
	b.mu.Lock()
	n := Notice{Level: level, Text: text, At: b.now()}
	if level == LevelAlert {
		b.alert = &n
	} else {
		b.toasts = append(b.toasts, n)
	}
	b.mu.Unlock()

	// a full channel only means the UI has wakeups queued already
	select {
	case b.c <- n:
	default:
	}
}

// C delivers notices as they arrive
func (b *Board) C() <-chan Notice {
	return b.c
}

// Toasts returns the toasts that have not expired yet, oldest first
func (b *Board) Toasts() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	live := b.toasts[:0]
	for _, n := range b.toasts {
		if now.Sub(n.At) < b.ttl {
			live = append(live, n)
		}
	}
	b.toasts = live

	out := make([]Notice, len(live))
	copy(out, live)
	return out
}

// PendingAlert returns the blocking alert awaiting acknowledgement
func (b *Board) PendingAlert() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.alert == nil {
		return Notice{}, false
	}
	return *b.alert, true
}

// Dismiss acknowledges the pending alert
func (b *Board) Dismiss() {
	b.mu.Lock()
	b.alert = nil
	b.mu.Unlock()
}

// TTL returns the toast lifetime
func (b *Board) TTL() time.Duration {
	return b.ttl
}

// LogSink writes notices to a logger. Used by the headless CLI.
type LogSink struct {
	Logger *log.Logger
}

func (s LogSink) Info(text string)  { s.Logger.Info(text) }
func (s LogSink) Error(text string) { s.Logger.Error(text) }
func (s LogSink) Alert(text string) { s.Logger.Warn(text, "blocking", true) }

// Tee fans every notice out to all sinks
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

type tee []Sink

func (t tee) Info(text string) {
	for _, s := range t {
		s.Info(text)
	}
}

func (t tee) Error(text string) {
	for _, s := range t {
		s.Error(text)
	}
}

func (t tee) Alert(text string) {
	for _, s := range t {
		s.Alert(text)
	}
}
