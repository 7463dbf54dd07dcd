package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/studyflow/internal/domain"
	"github.com/roach88/studyflow/internal/logger"
	"github.com/roach88/studyflow/internal/redisstore"
	"github.com/roach88/studyflow/internal/store"
	"github.com/roach88/studyflow/internal/tracker"
)

// Storage keys, one per collection.
const (
	KeySubjects    = "studyflow_subjects"
	KeyAssignments = "studyflow_assignments"
	KeySessions    = "studyflow_sessions"
)

// DefaultSaveTimeout bounds each save triggered by a tracker change.
const DefaultSaveTimeout = 5 * time.Second

// KV is the string key-value contract both backends satisfy.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
}

// IsNotFound reports whether err is a missing-key error from either backend.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound) || errors.Is(err, redisstore.ErrNotFound)
}

// Gateway loads and saves tracker collections.
type Gateway struct {
	kv          KV
	log         *logger.Logger
	saveTimeout time.Duration
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger used to report save failures.
func WithLogger(l *logger.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

// WithSaveTimeout sets the per-save deadline used by Attach and Writer.
func WithSaveTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.saveTimeout = d }
}

// New creates a Gateway over kv.
func New(kv KV, opts ...Option) *Gateway {
	g := &Gateway{
		kv:          kv,
		log:         logger.Nop(),
		saveTimeout: DefaultSaveTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Load reads all three collections. Absent keys yield empty collections.
// Every collection is attempted; decode failures are joined into one error and
// the returned snapshot must not be used when err != nil.
func (g *Gateway) Load(ctx context.Context) (domain.Snapshot, error) {
	snap := domain.Snapshot{
		Subjects:    []domain.Subject{},
		Assignments: []domain.Assignment{},
		Sessions:    []domain.StudySession{},
	}

	var errs []error
	if raw, ok, err := g.get(ctx, KeySubjects); err != nil {
		errs = append(errs, err)
	} else if ok {
		if v, err := decodeSubjects(raw); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", KeySubjects, err))
		} else {
			snap.Subjects = v
		}
	}

	if raw, ok, err := g.get(ctx, KeyAssignments); err != nil {
		errs = append(errs, err)
	} else if ok {
		if v, err := decodeAssignments(raw); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", KeyAssignments, err))
		} else {
			snap.Assignments = v
		}
	}

	if raw, ok, err := g.get(ctx, KeySessions); err != nil {
		errs = append(errs, err)
	} else if ok {
		if v, err := decodeSessions(raw); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", KeySessions, err))
		} else {
			snap.Sessions = v
		}
	}

	if err := errors.Join(errs...); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

// Save writes the collections selected by which.
func (g *Gateway) Save(ctx context.Context, snap domain.Snapshot, which tracker.Collection) error {
	var errs []error
	if which.Has(tracker.Subjects) {
		errs = append(errs, g.put(ctx, KeySubjects, func() (string, error) { return encodeSubjects(snap.Subjects) }))
	}
	if which.Has(tracker.Assignments) {
		errs = append(errs, g.put(ctx, KeyAssignments, func() (string, error) { return encodeAssignments(snap.Assignments) }))
	}
	if which.Has(tracker.Sessions) {
		errs = append(errs, g.put(ctx, KeySessions, func() (string, error) { return encodeSessions(snap.Sessions) }))
	}
	return errors.Join(errs...)
}

// Attach saves the affected collections after every change to tr.
// Save failures are logged and otherwise ignored. Call detach to stop.
func (g *Gateway) Attach(tr *tracker.Tracker) (detach func()) {
	return tr.Subscribe(func(c tracker.Change) {
		ctx, cancel := context.WithTimeout(context.Background(), g.saveTimeout)
		defer cancel()

		if err := g.Save(ctx, tr.Snapshot(), c.Collections); err != nil {
			g.log.Warn("save failed",
				"op", string(c.Op),
				"collections", c.Collections.String(),
				"error", err)
			return
		}
		g.log.Debug("saved", "op", string(c.Op), "collections", c.Collections.String())
	})
}

func (g *Gateway) get(ctx context.Context, key string) (string, bool, error) {
	raw, err := g.kv.Get(ctx, key)
	if IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load %s: %w", key, err)
	}
	return raw, true, nil
}

func (g *Gateway) put(ctx context.Context, key string, enc func() (string, error)) error {
	raw, err := enc()
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := g.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
