package server

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWebLogger_BasicLogging(t *testing.T) {
	// Create a channel to receive console messages
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger(nil, messageChan, zap.InfoLevel)

	logger.Info("Test log message")

	select {
	case msg := <-messageChan:
		if msg.Message != "Test log message" {
			t.Errorf("Expected message 'Test log message', got '%s'", msg.Message)
		}
		if msg.Level != "info" {
			t.Errorf("Expected level 'info', got '%s'", msg.Level)
		}
		if time.Since(msg.Timestamp) > time.Second {
			t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Timeout waiting for console message")
	}
}

func TestWebLogger_MultipleMessages(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger(nil, messageChan, zap.InfoLevel)

	messages := []string{"Message 1", "Message 2", "Message 3"}
	for _, msg := range messages {
		logger.Info(msg)
	}

	if len(messageChan) != len(messages) {
		t.Fatalf("Expected %d messages, got %d", len(messages), len(messageChan))
	}
	for i, expected := range messages {
		if got := (<-messageChan).Message; got != expected {
			t.Errorf("Message %d: expected '%s', got '%s'", i, expected, got)
		}
	}
}

func TestWebLogger_LevelFilter(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger(nil, messageChan, zap.WarnLevel)

	logger.Info("dropped")
	logger.Warn("kept")

	if len(messageChan) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(messageChan))
	}
	if msg := <-messageChan; msg.Message != "kept" || msg.Level != "warn" {
		t.Errorf("Expected warn 'kept', got %s '%s'", msg.Level, msg.Message)
	}
}

func TestWebLogger_ChannelFull(t *testing.T) {
	// Create a small channel that will fill up
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger(nil, messageChan, zap.InfoLevel)

	logger.Info("Message 1")
	// These must not block even though the channel is full
	logger.Info("Message 2")
	logger.Info("Message 3")

	if msg := <-messageChan; msg.Message != "Message 1" {
		t.Errorf("Expected first message to be kept, got '%s'", msg.Message)
	}
}

func TestWebLogger_NilChannel(t *testing.T) {
	logger := NewWebLogger(nil, nil, zap.InfoLevel)

	// This should not panic
	logger.Info("Test message with nil channel")
}

func TestWebLogger_Fields(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger(nil, messageChan, zap.InfoLevel).With(zap.String("scene", "default"))

	logger.Info("Loading mesh", zap.String("file", "dragon.ply"), zap.Int("triangles", 12345))

	msg := <-messageChan
	expected := "Loading mesh file=dragon.ply scene=default triangles=12345"
	if msg.Message != expected {
		t.Errorf("Expected formatted message '%s', got '%s'", expected, msg.Message)
	}
}
