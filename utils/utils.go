package utils

import (
	"context"
	"time"

	"learnhub/logger"
)

// backgroundTimeout bounds fire-and-forget work started after a request has finished.
const backgroundTimeout = 30 * time.Second

// Go runs fn on its own goroutine, detached from any request context.
// Errors and panics are logged, never propagated.
func Go(name string, fn func(ctx context.Context) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error("Background task panicked", "task", name, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			logger.Log.Error("Background task failed", "task", name, "error", err)
		}
	}()
}
