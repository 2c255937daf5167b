package activity

import (
	"context"
	"time"

	"hrsync/internal/localstore"
)

const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionProcess = "process"
	ActionRestore = "restore"
)

// DefaultLimit bounds the per-user log to the most recent entries.
const DefaultLimit = 100

type Entry struct {
	Action      string    `json:"action"`
	Module      string    `json:"module"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type Store interface {
	Read(ctx context.Context, userID string, kind localstore.Kind, dest any) error
	Write(ctx context.Context, userID string, kind localstore.Kind, value any) error
}

// Logger keeps a bounded, insertion-ordered per-user activity log, newest
// first. Filtering and search are a consumer concern; List returns the full
// ordered sequence.
type Logger struct {
	store Store
	limit int
	now   func() time.Time
}

func NewLogger(store Store, limit int) *Logger {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Logger{store: store, limit: limit, now: time.Now}
}

// Append prepends an entry and truncates the log to the configured limit.
func (l *Logger) Append(ctx context.Context, userID, action, module, description string) error {
	entries, err := l.List(ctx, userID)
	if err != nil {
		return err
	}

	entry := Entry{
		Action:      action,
		Module:      module,
		Description: description,
		Timestamp:   l.now().UTC(),
	}
	entries = append([]Entry{entry}, entries...)
	if len(entries) > l.limit {
		entries = entries[:l.limit]
	}
	return l.store.Write(ctx, userID, localstore.KindActivity, entries)
}

func (l *Logger) List(ctx context.Context, userID string) ([]Entry, error) {
	var entries []Entry
	if err := l.store.Read(ctx, userID, localstore.KindActivity, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
