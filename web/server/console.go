package server

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warn", "error"
}

// consoleCore is a zapcore.Core that forwards entries to a console channel
type consoleCore struct {
	zapcore.LevelEnabler
	fields      []zapcore.Field
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger returns a logger that writes to base and also sends every
// entry at or above level to consoleChan. Sends never block; messages are
// dropped when the channel is full.
func NewWebLogger(base *zap.Logger, consoleChan chan<- ConsoleMessage, level zapcore.LevelEnabler) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	console := &consoleCore{LevelEnabler: level, consoleChan: consoleChan}
	return zap.New(zapcore.NewTee(base.Core(), console))
}

func (c *consoleCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field{}, c.fields...), fields...)
	return &clone
}

func (c *consoleCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *consoleCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if c.consoleChan == nil {
		return nil
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range append(append([]zapcore.Field{}, c.fields...), fields...) {
		f.AddTo(enc)
	}
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(entry.Message)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, enc.Fields[k])
	}

	select {
	case c.consoleChan <- ConsoleMessage{
		Message:   sb.String(),
		Timestamp: entry.Time,
		Level:     entry.Level.String(),
	}:
	default:
		// Channel full, skip (don't block)
	}
	return nil
}

func (c *consoleCore) Sync() error {
	return nil
}
