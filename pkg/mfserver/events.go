package mfserver

import (
	"context"
	"log/slog"
	"time"
)

// EventLogger records handled requests.
type EventLogger interface {
	LogEvent(ctx context.Context, event *Event) error
}

// Event describes one handled request.
type Event struct {
	Timestamp time.Time
	RequestID string
	Route     string
	Codec     string
	Bytes     int
	Sections  int
	Err       error
}

// SlogEventLogger emits events as structured log records.
type SlogEventLogger struct {
	logger *slog.Logger
}

// NewSlogEventLogger creates an EventLogger writing to logger.
func NewSlogEventLogger(logger *slog.Logger) *SlogEventLogger {
	return &SlogEventLogger{logger: logger}
}

// LogEvent logs successful requests at info and failures at warn.
func (l *SlogEventLogger) LogEvent(ctx context.Context, event *Event) error {
	attrs := []slog.Attr{
		slog.String("request_id", event.RequestID),
		slog.String("route", event.Route),
		slog.String("codec", event.Codec),
		slog.Int("bytes", event.Bytes),
		slog.Int("sections", event.Sections),
		slog.Time("timestamp", event.Timestamp),
	}
	if event.Err != nil {
		attrs = append(attrs, slog.String("error", event.Err.Error()))
		l.logger.LogAttrs(ctx, slog.LevelWarn, "manifest request failed", attrs...)
		return nil
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "manifest request", attrs...)
	return nil
}

// NoopEventLogger discards events.
type NoopEventLogger struct{}

func (NoopEventLogger) LogEvent(context.Context, *Event) error { return nil }
