// Package storage defines persistence contracts for encoding task sessions.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/encodingtask/internal/experiment"
)

// ErrNotFound indicates a requested session is missing.
var ErrNotFound = errors.New("record not found")

// Session is the stored form of one participant run.
type Session struct {
	Snapshot experiment.Snapshot
	// ExportFile names the CSV written when the session completed.
	ExportFile string
	UpdatedAt  time.Time
}

// SessionStore persists sessions so a reload or restart resumes the same trial.
type SessionStore interface {
	// SaveSession upserts the session header and adds any trials, audio and
	// results not stored yet. Stored trials and results are never rewritten.
	SaveSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	DeleteSession(ctx context.Context, id string) error
	Close() error
}
