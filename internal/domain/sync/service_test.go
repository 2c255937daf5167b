package sync

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"hrsync/internal/bus"
	"hrsync/internal/domain/activity"
	"hrsync/internal/localstore"
	"hrsync/internal/session"
)

type memoryStore struct {
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) key(userID string, kind localstore.Kind) string {
	return userID + ":" + string(kind)
}

func (m *memoryStore) Read(_ context.Context, userID string, kind localstore.Kind, dest any) error {
	payload, ok := m.data[m.key(userID, kind)]
	if !ok {
		return nil
	}
	return json.Unmarshal(payload, dest)
}

func (m *memoryStore) Write(_ context.Context, userID string, kind localstore.Kind, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[m.key(userID, kind)] = payload
	return nil
}

func (m *memoryStore) Seed(_ context.Context, userID string) (bool, error) {
	seeded := false
	for _, kind := range localstore.Kinds {
		if _, ok := m.data[m.key(userID, kind)]; !ok {
			m.data[m.key(userID, kind)] = []byte("[]")
			seeded = true
		}
	}
	return seeded, nil
}

type fakeRemote struct {
	rows map[string]Employee
	down bool

	inserts int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{rows: make(map[string]Employee)}
}

var errRemoteDown = errors.New("remote unavailable")

func (f *fakeRemote) ListEmployees(_ context.Context, ownerID string) ([]Employee, error) {
	if f.down {
		return nil, errRemoteDown
	}
	var out []Employee
	for _, emp := range f.rows {
		if emp.OwnerID == ownerID {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (f *fakeRemote) InsertEmployee(_ context.Context, _ string, emp Employee) error {
	if f.down {
		return errRemoteDown
	}
	if _, exists := f.rows[emp.ID]; exists {
		return nil
	}
	f.rows[emp.ID] = emp
	f.inserts++
	return nil
}

func (f *fakeRemote) UpdateEmployee(_ context.Context, _ string, emp Employee) (bool, error) {
	if f.down {
		return false, errRemoteDown
	}
	existing, ok := f.rows[emp.ID]
	if !ok || existing.OwnerID != emp.OwnerID {
		return false, nil
	}
	f.rows[emp.ID] = emp
	return true, nil
}

func (f *fakeRemote) DeleteEmployee(_ context.Context, _ string, ownerID, id string) (bool, error) {
	if f.down {
		return false, errRemoteDown
	}
	existing, ok := f.rows[id]
	if !ok || existing.OwnerID != ownerID {
		return false, nil
	}
	delete(f.rows, id)
	return true, nil
}

type fixture struct {
	svc    *Service
	remote *fakeRemote
	local  *memoryStore
	logger *activity.Logger
	bus    *bus.Bus
	sess   *session.Session
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	local := newMemoryStore()
	remote := newFakeRemote()
	logger := activity.NewLogger(local, 100)
	eventBus := bus.New()

	svc := NewService(remote, local, logger, eventBus)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sess := session.New()
	sess.Bind("user-1")
	if err := svc.EnsureUser(context.Background(), sess); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	return &fixture{svc: svc, remote: remote, local: local, logger: logger, bus: eventBus, sess: sess, now: now}
}

func validInput() CreateEmployeeInput {
	return CreateEmployeeInput{
		Name:       "Jane Doe",
		Position:   "Dev",
		Department: "Eng",
		Email:      "jane@x.com",
	}
}

func TestCreateThenListRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateEmployee(ctx, f.sess, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated id")
	}

	employees, err := f.svc.ListEmployees(ctx, f.sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(employees) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(employees))
	}
	emp := employees[0]
	if emp.Name != "Jane Doe" || emp.Email != "jane@x.com" || emp.Position != "Dev" || emp.Department != "Eng" {
		t.Fatalf("round trip mismatch: %+v", emp)
	}
}

func TestCreateRequiresFields(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.Email = ""
	_, err := f.svc.CreateEmployee(context.Background(), f.sess, input)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if f.remote.inserts != 0 {
		t.Fatal("validation must fail before any remote call")
	}
}

func TestCreateFallsBackWhenRemoteDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.remote.down = true

	created, err := f.svc.CreateEmployee(ctx, f.sess, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	employees, err := f.svc.ListEmployees(ctx, f.sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(employees) != 1 || employees[0].ID != created.ID {
		t.Fatalf("expected local fallback to serve the employee, got %+v", employees)
	}

	entries, err := f.logger.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("activity list: %v", err)
	}
	if len(entries) == 0 || !strings.Contains(entries[0].Description, "(local only)") {
		t.Fatalf("expected newest activity entry to note local-only write, got %+v", entries)
	}
}

func TestListPushesLocalRowsToEmptyRemote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.remote.down = true
	created, err := f.svc.CreateEmployee(ctx, f.sess, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.remote.down = false
	employees, err := f.svc.ListEmployees(ctx, f.sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(employees) != 1 {
		t.Fatalf("expected local row returned, got %d", len(employees))
	}
	if _, ok := f.remote.rows[created.ID]; !ok {
		t.Fatal("expected local row pushed up to the remote")
	}

	// A second list now reads the pushed row from the remote.
	again, err := f.svc.ListEmployees(ctx, f.sess)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(again) != 1 || again[0].ID != created.ID {
		t.Fatalf("expected remote-sourced row, got %+v", again)
	}
}

func TestUpdateFallsBackToLocal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.remote.down = true
	created, err := f.svc.CreateEmployee(ctx, f.sess, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated := *created
	updated.Position = "Staff Engineer"
	if err := f.svc.UpdateEmployee(ctx, f.sess, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	employees, err := f.svc.ListEmployees(ctx, f.sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(employees) != 1 || employees[0].Position != "Staff Engineer" {
		t.Fatalf("expected local update applied, got %+v", employees)
	}
}

func TestDeleteMovesToTrashWithRetentionExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateEmployee(ctx, f.sess, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.svc.DeleteEmployee(ctx, f.sess, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	employees, err := f.svc.ListEmployees(ctx, f.sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, emp := range employees {
		if emp.ID == created.ID {
			t.Fatal("deleted employee still listed")
		}
	}

	items, err := f.svc.DeletedItems(ctx, f.sess)
	if err != nil {
		t.Fatalf("deleted items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 deleted item, got %d", len(items))
	}
	item := items[0]
	if item.ID != created.ID || item.EntityType != ModuleEmployees {
		t.Fatalf("unexpected wrapper: %+v", item)
	}
	if want := item.DeletedAt.Add(RetentionWindow); !item.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, item.ExpiresAt)
	}

	var snapshot Employee
	if err := json.Unmarshal(item.Snapshot, &snapshot); err != nil {
		t.Fatalf("snapshot unmarshal: %v", err)
	}
	if snapshot.Name != "Jane Doe" || snapshot.Email != "jane@x.com" {
		t.Fatalf("snapshot mismatch: %+v", snapshot)
	}
}

func TestDeleteUnknownIDReturnsNotFound(t *testing.T) {
	f := newFixture(t)

	err := f.svc.DeleteEmployee(context.Background(), f.sess, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRestoreReinsertsSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateEmployee(ctx, f.sess, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.svc.DeleteEmployee(ctx, f.sess, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.svc.Restore(ctx, f.sess, created.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}

	employees, err := f.svc.ListEmployees(ctx, f.sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, emp := range employees {
		if emp.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("restored employee missing from list")
	}

	items, err := f.svc.DeletedItems(ctx, f.sess)
	if err != nil {
		t.Fatalf("deleted items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty trash after restore, got %+v", items)
	}
}

func TestExpiredItemsPrunedOnRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateEmployee(ctx, f.sess, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.svc.DeleteEmployee(ctx, f.sess, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	f.svc.now = func() time.Time { return f.now.Add(RetentionWindow + time.Hour) }

	items, err := f.svc.DeletedItems(ctx, f.sess)
	if err != nil {
		t.Fatalf("deleted items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected expired item pruned, got %+v", items)
	}

	if err := f.svc.Restore(ctx, f.sess, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected restore of expired item to fail with ErrNotFound, got %v", err)
	}
}

func TestMutationsPublishBusEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var changes []Change
	unsubscribe := f.bus.Subscribe(bus.TopicEmployeeChanged, func(payload any) {
		if change, ok := payload.(Change); ok {
			changes = append(changes, change)
		}
	})
	defer unsubscribe()

	created, err := f.svc.CreateEmployee(ctx, f.sess, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.svc.DeleteEmployee(ctx, f.sess, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(changes) != 2 {
		t.Fatalf("expected 2 bus events, got %d", len(changes))
	}
	if changes[0].Action != "create" || changes[1].Action != "delete" {
		t.Fatalf("unexpected event actions: %+v", changes)
	}
	if changes[0].Name != "Jane Doe" {
		t.Fatalf("expected display name on event, got %+v", changes[0])
	}
}

func TestOperationsRequireSession(t *testing.T) {
	f := newFixture(t)
	anon := session.New()

	if _, err := f.svc.ListEmployees(context.Background(), anon); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
