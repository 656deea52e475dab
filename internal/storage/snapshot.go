package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Snapshot namespaces. Cart and wishlist never collide; no other component
// reads or writes these keys.
const (
	NamespaceCart     = "remart:cart"
	NamespaceWishlist = "remart:wishlist"
)

// snapshotVersion is the current envelope schema version. Bump it when the
// persisted item shape changes and handle the old version on load.
const snapshotVersion = 1

var (
	snapshotSaveFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_save_failures_total",
			Help: "Total number of failed snapshot persistence writes",
		},
		[]string{"namespace"},
	)

	snapshotLoadFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_load_fallbacks_total",
			Help: "Total number of snapshot loads that degraded to an empty list",
		},
		[]string{"namespace", "reason"},
	)
)

// envelope wraps the persisted item list with a schema version.
type envelope[T any] struct {
	Version int `json:"version"`
	Items   []T `json:"items"`
}

// SnapshotStore persists a full item list under a fixed namespace key.
// Persistence is best-effort: Save never returns an error (failures are
// logged and counted; in-memory state is authoritative) and Load degrades
// to an empty list on any failure.
type SnapshotStore[T any] struct {
	kv     KV
	logger *slog.Logger
}

// NewSnapshotStore creates a snapshot store over the given KV backend.
func NewSnapshotStore[T any](kv KV, logger *slog.Logger) *SnapshotStore[T] {
	return &SnapshotStore[T]{kv: kv, logger: logger}
}

// Save serializes items into a versioned envelope and writes it under the
// namespace key. The in-memory mutation has already happened; a failed write
// is logged and counted, never surfaced.
func (s *SnapshotStore[T]) Save(ctx context.Context, namespace string, items []T) {
	if items == nil {
		items = []T{}
	}

	payload, err := json.Marshal(envelope[T]{Version: snapshotVersion, Items: items})
	if err != nil {
		snapshotSaveFailures.WithLabelValues(namespace).Inc()
		s.logger.ErrorContext(ctx, "snapshot serialization failed",
			slog.String("namespace", namespace),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.kv.Set(ctx, namespace, string(payload)); err != nil {
		snapshotSaveFailures.WithLabelValues(namespace).Inc()
		s.logger.ErrorContext(ctx, "snapshot write failed",
			slog.String("namespace", namespace),
			slog.String("error", err.Error()),
		)
	}
}

// Load reads and decodes the snapshot at the namespace key. An absent key,
// malformed payload, unsupported version, or storage failure all yield an
// empty list: a missing or corrupt snapshot means "new user, empty state".
func (s *SnapshotStore[T]) Load(ctx context.Context, namespace string) []T {
	raw, err := s.kv.Get(ctx, namespace)
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}
	}
	if err != nil {
		snapshotLoadFallbacks.WithLabelValues(namespace, "read_error").Inc()
		s.logger.WarnContext(ctx, "snapshot read failed, starting empty",
			slog.String("namespace", namespace),
			slog.String("error", err.Error()),
		)
		return []T{}
	}

	var env envelope[T]
	if err := json.Unmarshal([]byte(raw), &env); err == nil && env.Version > 0 {
		if env.Version != snapshotVersion {
			snapshotLoadFallbacks.WithLabelValues(namespace, "unsupported_version").Inc()
			s.logger.WarnContext(ctx, "snapshot version unsupported, starting empty",
				slog.String("namespace", namespace),
				slog.Int("version", env.Version),
			)
			return []T{}
		}
		if env.Items == nil {
			return []T{}
		}
		return env.Items
	}

	// Legacy format: a bare JSON array without the version envelope.
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		snapshotLoadFallbacks.WithLabelValues(namespace, "malformed").Inc()
		s.logger.WarnContext(ctx, "snapshot malformed, starting empty",
			slog.String("namespace", namespace),
			slog.String("error", err.Error()),
		)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Clear deletes the snapshot at the namespace key. Best-effort like Save.
func (s *SnapshotStore[T]) Clear(ctx context.Context, namespace string) {
	if err := s.kv.Del(ctx, namespace); err != nil {
		snapshotSaveFailures.WithLabelValues(namespace).Inc()
		s.logger.ErrorContext(ctx, "snapshot delete failed",
			slog.String("namespace", namespace),
			slog.String("error", err.Error()),
		)
	}
}
