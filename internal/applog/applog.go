// Package applog writes application events as one JSON object per line, in the same shape
// as the HTTP access log.
package applog

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	enc *json.Encoder
	loc *time.Location
}

// New returns a Logger writing to w with timestamps in loc (UTC when nil).
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{enc: json.NewEncoder(w), loc: loc}
}

var std = New(os.Stdout, time.UTC)

// Default returns the process-wide logger.
func Default() *Logger { return std }

// SetDefault replaces the process-wide logger.
func SetDefault(l *Logger) { std = l }

func (l *Logger) Info(event string, fields map[string]any)  { l.log("info", event, fields) }
func (l *Logger) Warn(event string, fields map[string]any)  { l.log("warn", event, fields) }
func (l *Logger) Error(event string, fields map[string]any) { l.log("error", event, fields) }

// Location returns the zone used for the ts field.
func (l *Logger) Location() *time.Location { return l.loc }

func (l *Logger) log(level, event string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[k] = v
	}
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	entry["level"] = level
	entry["event"] = event

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.enc.Encode(entry)
}
