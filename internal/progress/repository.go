package progress

import (
	"context"

	"github.com/verte-zerg/keytutor/internal/model"
)

// Repository loads and saves the progress snapshot.
type Repository interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// SessionLog records finished sessions for reporting.
type SessionLog interface {
	InsertSession(ctx context.Context, stats model.SessionStats, chars []model.CharStats) (int64, error)
}

// MemoryRepository keeps the encoded snapshot in memory.
type MemoryRepository struct {
	doc []byte
}

// NewMemoryRepository returns a repository seeded with an encoded document.
func NewMemoryRepository(doc []byte) *MemoryRepository {
	return &MemoryRepository{doc: append([]byte(nil), doc...)}
}

// Load implements Repository.
func (r *MemoryRepository) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	return Decode(r.doc)
}

// Save implements Repository.
func (r *MemoryRepository) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := Encode(snap)
	if err != nil {
		return err
	}
	r.doc = doc
	return nil
}

// Document returns the stored encoding.
func (r *MemoryRepository) Document() []byte {
	return append([]byte(nil), r.doc...)
}

// LoggedSession is one entry of a MemoryLog.
type LoggedSession struct {
	Stats model.SessionStats
	Chars []model.CharStats
}

// MemoryLog is an in-memory SessionLog.
type MemoryLog struct {
	Sessions []LoggedSession
}

// InsertSession implements SessionLog.
func (l *MemoryLog) InsertSession(ctx context.Context, stats model.SessionStats, chars []model.CharStats) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.Sessions = append(l.Sessions, LoggedSession{Stats: stats, Chars: append([]model.CharStats(nil), chars...)})
	return int64(len(l.Sessions)), nil
}
