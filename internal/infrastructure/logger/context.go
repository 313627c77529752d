package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// TenantKeyKey is the context key for the tenant key. It is log
	// enrichment only; query scoping always takes the tenant key as an
	// explicit argument.
	TenantKeyKey contextKey = "tenant_key"
	// ImportBatchKey is the context key for the import batch ID
	ImportBatchKey contextKey = "import_batch"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger if
// not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID adds request ID to context and returns enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithTenantKey adds the tenant key to context and returns enriched logger
func WithTenantKey(ctx context.Context, logger *zap.Logger, tenantKey string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, TenantKeyKey, tenantKey)
	enriched := logger.With(zap.String("tenant_key", tenantKey))
	return WithContext(ctx, enriched), enriched
}

// WithImportBatch adds the import batch ID to context and returns enriched
// logger
func WithImportBatch(ctx context.Context, logger *zap.Logger, batchID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, ImportBatchKey, batchID)
	enriched := logger.With(zap.String("import_batch", batchID))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetTenantKey retrieves the tenant key from context
func GetTenantKey(ctx context.Context) string {
	if tenantKey, ok := ctx.Value(TenantKeyKey).(string); ok {
		return tenantKey
	}
	return ""
}

// GetImportBatch retrieves the import batch ID from context
func GetImportBatch(ctx context.Context) string {
	if batchID, ok := ctx.Value(ImportBatchKey).(string); ok {
		return batchID
	}
	return ""
}

// ContextLogger wraps a zap logger and injects request_id, tenant_key and
// import_batch from the context into every entry.
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L returns a ContextLogger from the given context.
// Usage: logger.L(ctx).Info("message", zap.String("key", "value"))
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{
		ctx:    ctx,
		logger: FromContext(ctx),
	}
}

// WithLogger returns a ContextLogger using the provided logger instead of
// extracting from context
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	return &ContextLogger{
		ctx:    ctx,
		logger: logger,
	}
}

// enrichedLogger returns a logger enriched with context fields
func (cl *ContextLogger) enrichedLogger() *zap.Logger {
	l := cl.logger
	if l == nil {
		l = zap.NewNop()
	}

	if requestID := GetRequestID(cl.ctx); requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	if tenantKey := GetTenantKey(cl.ctx); tenantKey != "" {
		l = l.With(zap.String("tenant_key", tenantKey))
	}
	if batchID := GetImportBatch(cl.ctx); batchID != "" {
		l = l.With(zap.String("import_batch", batchID))
	}

	return l
}

// With creates a child ContextLogger with additional fields
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{
		ctx:    cl.ctx,
		logger: cl.logger.With(fields...),
	}
}

// Debug logs a debug level message with context fields
func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Debug(msg, fields...)
}

// Info logs an info level message with context fields
func (cl *ContextLogger) Info(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Info(msg, fields...)
}

// Warn logs a warning level message with context fields
func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Warn(msg, fields...)
}

// Error logs an error level message with context fields
func (cl *ContextLogger) Error(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Error(msg, fields...)
}

// Fatal logs a fatal level message and then calls os.Exit(1)
func (cl *ContextLogger) Fatal(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Fatal(msg, fields...)
}

// Zap returns the underlying zap.Logger enriched with context fields
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.enrichedLogger()
}
