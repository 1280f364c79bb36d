package logging

import (
	"context"
	"log/slog"
)

// RequestInfo describes the request a log record was written for.
type RequestInfo struct {
	RequestID string
	Method    string
	Path      string
	UserID    *uint
}

type requestKey struct{}

func WithRequest(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, requestKey{}, info)
}

// RequestFrom returns the request info stored in ctx, or nil.
func RequestFrom(ctx context.Context) *RequestInfo {
	if ctx == nil {
		return nil
	}
	info, _ := ctx.Value(requestKey{}).(*RequestInfo)
	return info
}

// SetUserID records the authenticated user on the request info in ctx, if
// there is one.
func SetUserID(ctx context.Context, id uint) {
	if info := RequestFrom(ctx); info != nil {
		info.UserID = &id
	}
}

// ContextHandler adds request_id, method, path and user_id attributes taken
// from the record's context.
type ContextHandler struct {
	next slog.Handler
}

func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if info := RequestFrom(ctx); info != nil {
		if info.RequestID != "" {
			record.AddAttrs(slog.String("request_id", info.RequestID))
		}
		if info.Method != "" {
			record.AddAttrs(slog.String("method", info.Method), slog.String("path", info.Path))
		}
		if info.UserID != nil {
			record.AddAttrs(slog.Uint64("user_id", uint64(*info.UserID)))
		}
	}
	return h.next.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}
