package auth

import (
	"context"
	"log/slog"
	"sync"
)

// Observer resolves the authentication session once at process start and
// publishes the result. Readiness gating waits on Resolved() alongside
// hydration; the observer never reads or writes cart/wishlist state.
type Observer struct {
	verifier TokenVerifier
	logger   *slog.Logger

	mu          sync.Mutex
	identity    *Identity
	subscribers []func(*Identity)

	resolved chan struct{}
	once     sync.Once
}

// NewObserver creates an observer that will verify tokens with the given
// verifier.
func NewObserver(verifier TokenVerifier, logger *slog.Logger) *Observer {
	return &Observer{
		verifier: verifier,
		logger:   logger,
		resolved: make(chan struct{}),
	}
}

// Resolve verifies the persisted session token, if any, and publishes the
// resulting identity. An empty token or a failed verification resolves to
// signed out; resolution itself never fails. Only the first call has effect.
func (o *Observer) Resolve(ctx context.Context, idToken string) {
	o.once.Do(func() {
		var identity *Identity

		if idToken != "" {
			var err error
			identity, err = o.verifier.Verify(ctx, idToken)
			if err != nil {
				o.logger.Warn("session token rejected, resolving signed out",
					slog.String("error", err.Error()),
				)
				identity = nil
			}
		}

		o.mu.Lock()
		o.identity = identity
		subs := append([]func(*Identity){}, o.subscribers...)
		o.mu.Unlock()

		if identity != nil {
			o.logger.Info("auth resolved", slog.String("uid", identity.UID))
		} else {
			o.logger.Info("auth resolved, signed out")
		}

		for _, fn := range subs {
			fn(identity)
		}
		close(o.resolved)
	})
}

// Resolved returns a channel closed when the first resolution completes.
func (o *Observer) Resolved() <-chan struct{} {
	return o.resolved
}

// Current returns the resolved identity, or nil when signed out or not yet
// resolved.
func (o *Observer) Current() *Identity {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.identity
}

// Subscribe registers a callback invoked with the identity on resolution.
// A subscriber added after resolution is invoked immediately.
func (o *Observer) Subscribe(fn func(*Identity)) {
	o.mu.Lock()
	select {
	case <-o.resolved:
		identity := o.identity
		o.mu.Unlock()
		fn(identity)
		return
	default:
	}
	o.subscribers = append(o.subscribers, fn)
	o.mu.Unlock()
}
