// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// ConversationIDKey is the context key for the chat conversation ID
	ConversationIDKey contextKey = "conversation_id"
)

// ContextWithConversationID stores the chat conversation ID in the context.
func ContextWithConversationID(ctx context.Context, conversationID string) context.Context {
	return context.WithValue(ctx, ConversationIDKey, conversationID)
}

// ConversationIDFromContext returns the conversation ID stored in the
// context, or an empty string.
func ConversationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ConversationIDKey).(string)
	return id
}

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
// Supports request_id and conversation_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("request_id", requestID)),
		}
	}

	if conversationID, ok := ctx.Value(ConversationIDKey).(string); ok && conversationID != "" {
		newLogger = newLogger.WithConversationID(conversationID)
	}

	return newLogger
}

// WithConversationID returns a logger with the chat conversation ID attached.
func (l *Logger) WithConversationID(conversationID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("conversation_id", conversationID)),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// SearchEvent logs the outcome of a vehicle battery search.
func (l *Logger) SearchEvent(query, status, vehicleKey string, candidates int) {
	l.Info("vehicle_search",
		slog.String("query", query),
		slog.String("status", status),
		slog.String("vehicle_key", vehicleKey),
		slog.Int("candidates", candidates),
	)
}

// FinancingEvent logs a financing plan computation.
func (l *Logger) FinancingEvent(level string, basePriceCents int64, fxDiscount bool) {
	l.Info("financing_plan",
		slog.String("level", level),
		slog.Int64("base_price_cents", basePriceCents),
		slog.Bool("fx_discount", fxDiscount),
	)
}

// WebhookEvent logs an inbound chat webhook event.
func (l *Logger) WebhookEvent(event, conversationID string, accepted bool, reason string) {
	if accepted {
		l.Info("webhook_event",
			slog.String("event", event),
			slog.String("conversation_id", conversationID),
		)
	} else {
		l.Debug("webhook_event_skipped",
			slog.String("event", event),
			slog.String("conversation_id", conversationID),
			slog.String("reason", reason),
		)
	}
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
