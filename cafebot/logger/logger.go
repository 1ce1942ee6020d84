package logger

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeError   LogType = "ERR"
)

// Handler is the console slog handler: colored level, a coarse type tag
// driven by the "type" attr convention, and error locations appended to the
// message.
type Handler struct {
	opts      *slog.HandlerOptions
	startTime time.Time
	attrs     []slog.Attr
	groups    []string
}

func NewHandler(level slog.Level) *Handler {
	return &Handler{
		opts:      &slog.HandlerOptions{Level: level},
		startTime: time.Now(),
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		opts:      h.opts,
		startTime: h.startTime,
		attrs:     append(h.attrs, attrs...),
		groups:    h.groups,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		opts:      h.opts,
		startTime: h.startTime,
		attrs:     h.attrs,
		groups:    append(h.groups, name),
	}
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	timestamp := time.Now().Format("15:04:05")

	var levelColor, levelText string
	switch r.Level {
	case slog.LevelDebug:
		levelColor = colorPurple
		levelText = "DEBUG"
	case slog.LevelInfo:
		levelColor = colorGreen
		levelText = "INFO"
	case slog.LevelWarn:
		levelColor = colorYellow
		levelText = "WARN"
	case slog.LevelError:
		levelColor = colorRed
		levelText = "ERROR"
	}

	message := r.Message
	if r.Level == slog.LevelError {
		if loc := errorLocation(&r); loc != "" {
			message = fmt.Sprintf("%s (%s)", message, loc)
		}
		if details := attrValue(&r, "error"); details != "" {
			message = fmt.Sprintf("%s: %s", message, details)
		}
	}

	if name := attrValue(&r, "name"); name != "" {
		if user := attrValue(&r, "user_name"); user != "" {
			message = fmt.Sprintf("%s [%s by %s]", message, name, user)
		}
	}
	if status := attrValue(&r, "status"); status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, status)
	}

	var attrsStr strings.Builder
	for _, attr := range h.attrs {
		if !isInternalAttr(attr.Key) {
			fmt.Fprintf(&attrsStr, " %s=%v", attr.Key, attr.Value)
		}
	}

	fmt.Printf("%s[NetCafe] [%s] [%s%s%s] [%s] %s%s%s\n",
		colorWhite,
		timestamp,
		levelColor,
		levelText,
		colorWhite,
		logType(&r),
		message,
		attrsStr.String(),
		colorReset,
	)

	return nil
}

// shouldSkipLog drops the disgo gateway/rest chatter that would otherwise
// drown the console.
func shouldSkipLog(r *slog.Record) bool {
	skippedMessages := []string{
		"locking buckets",
		"unlocking buckets",
		"gateway event",
		"cleaning up bucket",
		"cleaned up rate limit buckets",
		"binary message received",
		"received gateway message",
		"opening gateway connection",
		"locking gateway rate limiter",
		"unlocking gateway rate limiter",
		"sending gateway command",
		"new request",
		"new response",
		"locking rest bucket",
		"unlocking rest bucket",
		"sending heartbeat",
	}

	lower := strings.ToLower(r.Message)
	for _, skip := range skippedMessages {
		if strings.Contains(lower, skip) {
			return true
		}
	}
	return false
}

func logType(r *slog.Record) LogType {
	switch attrValue(r, "type") {
	case "cmd", "component":
		return TypeCommand
	case "db":
		return TypeDB
	case "error":
		return TypeError
	default:
		return TypeSystem
	}
}

func attrValue(r *slog.Record, key string) string {
	var val string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			val = fmt.Sprintf("%v", a.Value)
			return false
		}
		return true
	})
	return val
}

func isInternalAttr(key string) bool {
	switch key {
	case "type", "name", "user_name", "status":
		return true
	}
	return false
}

func errorLocation(r *slog.Record) string {
	if loc := attrValue(r, "error_location"); loc != "" {
		return loc
	}
	if _, file, line, ok := runtime.Caller(4); ok {
		return fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return ""
}
