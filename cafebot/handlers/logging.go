package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"
)

const interactionTimeout = 10 * time.Second

// WrapWithLogging wraps a command handler with logging functionality
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		)
		return runWithTimeout("cmd", name, e.User().Username, func() error {
			return h(e)
		})
	}
}

// WrapComponentWithLogging wraps a component handler with logging functionality
func WrapComponentWithLogging(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		slog.Info("Component interaction started",
			slog.String("type", "component"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		)
		return runWithTimeout("component", name, e.User().Username, func() error {
			return h(e)
		})
	}
}

func runWithTimeout(kind, name, userName string, fn func() error) error {
	start := time.Now()

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		duration := time.Since(start)
		attrs := []any{
			slog.String("type", kind),
			slog.String("name", name),
			slog.String("user_name", userName),
			slog.Duration("took", duration),
		}
		switch {
		case err != nil:
			slog.Error("Interaction failed", append(attrs,
				slog.Any("error", err),
				slog.String("status", "failed"),
			)...)
		case duration > 2*time.Second:
			slog.Warn("Interaction executed slowly", append(attrs,
				slog.String("status", "slow"),
			)...)
		default:
			slog.Info("Interaction completed", append(attrs,
				slog.String("status", "success"),
			)...)
		}
		return err

	case <-time.After(interactionTimeout):
		slog.Error("Interaction timed out",
			slog.String("type", kind),
			slog.String("name", name),
			slog.String("user_name", userName),
			slog.String("status", "timeout"),
			slog.Duration("timeout", interactionTimeout),
		)
		return fmt.Errorf("%s %q timed out after %s", kind, name, interactionTimeout)
	}
}
