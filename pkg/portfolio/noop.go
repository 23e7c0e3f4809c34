package portfolio

import (
	"context"
	"log/slog"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful for production when you don't need event handling or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// EntrySaved does nothing and returns nil
func (n *NoopEventSink) EntrySaved(ctx context.Context, kind Kind, entry *Entry) error {
	return nil
}

// EntryDeleted does nothing and returns nil
func (n *NoopEventSink) EntryDeleted(ctx context.Context, kind Kind, id string) error {
	return nil
}

// AssetStored does nothing and returns nil
func (n *NoopEventSink) AssetStored(ctx context.Context, kind Kind, path string) error {
	return nil
}

// Published does nothing and returns nil
func (n *NoopEventSink) Published(ctx context.Context, result *PublishResult) error {
	return nil
}

// LoggingEventSink is an event sink that logs events but takes no other action
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a new logging event sink. A nil logger uses slog.Default().
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

// EntrySaved logs the save event
func (l *LoggingEventSink) EntrySaved(ctx context.Context, kind Kind, entry *Entry) error {
	l.logger.InfoContext(ctx, "Entry saved", "kind", kind, "id", entry.ID, "title", entry.Title)
	return nil
}

// EntryDeleted logs the delete event
func (l *LoggingEventSink) EntryDeleted(ctx context.Context, kind Kind, id string) error {
	l.logger.InfoContext(ctx, "Entry deleted", "kind", kind, "id", id)
	return nil
}

// AssetStored logs the asset event
func (l *LoggingEventSink) AssetStored(ctx context.Context, kind Kind, path string) error {
	l.logger.InfoContext(ctx, "Image stored", "kind", kind, "path", path)
	return nil
}

// Published logs the publish outcome
func (l *LoggingEventSink) Published(ctx context.Context, result *PublishResult) error {
	l.logger.InfoContext(ctx, "Content published", "message", result.Message, "changed", result.Changed)
	return nil
}
