package localstore

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Kind names one per-user collection. The storage granularity is the whole
// collection: callers read and replace the full JSON payload, never a single
// row. Read-modify-write sequencing is the orchestrator's responsibility.
type Kind string

const (
	KindEmployees Kind = "employees"
	KindLeave     Kind = "leave_requests"
	KindPayroll   Kind = "payroll"
	KindActivity  Kind = "activity"
	KindDeleted   Kind = "deleted_items"
)

// Kinds lists every collection seeded for a new user.
var Kinds = []Kind{KindEmployees, KindLeave, KindPayroll, KindActivity, KindDeleted}

type collection struct {
	UserID    string `gorm:"primaryKey;size:64"`
	Kind      string `gorm:"primaryKey;size:32"`
	Payload   []byte
	UpdatedAt time.Time
}

func (collection) TableName() string { return "collections" }

// Store is the durable per-user fallback cache. Collections are namespaced
// by (userID, kind); there is no cross-user visibility.
type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&collection{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Read unmarshals the collection for (userID, kind) into dest. A missing
// collection leaves dest untouched and returns nil; absence is not an error.
func (s *Store) Read(ctx context.Context, userID string, kind Kind, dest any) error {
	var rec collection
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, string(kind)).
		First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if len(rec.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(rec.Payload, dest)
}

// Write replaces the whole collection for (userID, kind) with value.
func (s *Store) Write(ctx context.Context, userID string, kind Kind, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	rec := collection{
		UserID:    userID,
		Kind:      string(kind),
		Payload:   payload,
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&rec).Error
}

// Seed writes an empty collection for every kind the user is missing.
// It reports whether this was the user's first use, so the caller can seed
// the one-time welcome activity entry alongside.
func (s *Store) Seed(ctx context.Context, userID string) (bool, error) {
	var existing int64
	err := s.db.WithContext(ctx).
		Model(&collection{}).
		Where("user_id = ?", userID).
		Count(&existing).Error
	if err != nil {
		return false, err
	}

	firstUse := existing == 0
	for _, kind := range Kinds {
		rec := collection{
			UserID:    userID,
			Kind:      string(kind),
			Payload:   []byte("[]"),
			UpdatedAt: time.Now().UTC(),
		}
		err := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&rec).Error
		if err != nil {
			return false, err
		}
	}
	return firstUse, nil
}
