package provider

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// GuardedEngine serializes access to an engine that is not safe for
// concurrent inference. Waiting callers give up when their context ends.
type GuardedEngine struct {
	engine Engine
	sem    *semaphore.Weighted
}

// Guarded wraps e so at most one Transcribe call runs at a time.
// Reentrant engines are returned unchanged.
func Guarded(e Engine) Engine {
	if e == nil || e.Info().Reentrant {
		return e
	}
	if _, ok := e.(*GuardedEngine); ok {
		return e
	}
	return &GuardedEngine{engine: e, sem: semaphore.NewWeighted(1)}
}

// Transcribe waits for exclusive access, then delegates.
func (g *GuardedEngine) Transcribe(ctx context.Context, audioPath string) (*Transcript, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, &TranscriptionError{
			Code:     CodeEngineBusy,
			Message:  "timed out waiting for the recognition engine",
			Provider: g.engine.Info().Name,
			Cause:    err,
		}
	}
	defer g.sem.Release(1)
	return g.engine.Transcribe(ctx, audioPath)
}

// Info reports the wrapped engine as reentrant, since callers may now share it.
func (g *GuardedEngine) Info() EngineInfo {
	info := g.engine.Info()
	info.Reentrant = true
	return info
}

// HealthCheck does not take the lock; it must not touch model state.
func (g *GuardedEngine) HealthCheck(ctx context.Context) error {
	return g.engine.HealthCheck(ctx)
}

// Unwrap returns the underlying engine
func (g *GuardedEngine) Unwrap() Engine {
	return g.engine
}
