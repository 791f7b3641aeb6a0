package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"sheetcal/core/eventstore"
	"sheetcal/core/mapstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCollection is an in-memory Collection with deterministic identifiers
// and per-operation failure injection.
type fakeCollection struct {
	events map[string]eventstore.Fields
	nextID int

	failCreate bool
	failUpdate bool
	failDelete bool

	creates int
	updates int
	deletes int
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{events: make(map[string]eventstore.Fields)}
}

func (f *fakeCollection) ListEvents(context.Context) (map[string]eventstore.Event, error) {
	snapshot := make(map[string]eventstore.Event, len(f.events))
	for id, fields := range f.events {
		snapshot[id] = eventstore.Event{ID: id, Fields: fields}
	}
	return snapshot, nil
}

func (f *fakeCollection) CreateEvent(_ context.Context, fields eventstore.Fields) (string, error) {
	f.creates++
	if f.failCreate {
		return "", errors.New("create rejected")
	}
	f.nextID++
	id := fmt.Sprintf("ev-%d", f.nextID)
	f.events[id] = fields
	return id, nil
}

func (f *fakeCollection) UpdateEvent(_ context.Context, id string, fields eventstore.Fields) error {
	f.updates++
	if f.failUpdate {
		return errors.New("update rejected")
	}
	if _, ok := f.events[id]; !ok {
		return eventstore.ErrNotFound
	}
	f.events[id] = fields
	return nil
}

func (f *fakeCollection) DeleteEvent(_ context.Context, id string) error {
	f.deletes++
	if f.failDelete {
		return errors.New("delete rejected")
	}
	if _, ok := f.events[id]; !ok {
		return eventstore.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeCollection) snapshot(t *testing.T) map[string]eventstore.Event {
	t.Helper()
	s, err := f.ListEvents(context.Background())
	require.NoError(t, err)
	return s
}

func timedIntent(title string, start, end time.Time) Intent {
	return Intent{
		Title:         title,
		Start:         start,
		End:           end,
		OriginalStart: start,
		OriginalEnd:   end,
	}
}

var (
	nineAM   = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	nine30AM = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
)

func TestReconcile_CreatesNewEvents(t *testing.T) {
	col := newFakeCollection()
	mapping := mapstore.Mapping{}
	intents := []Intent{timedIntent("Standup", nineAM, nine30AM)}

	report := Reconcile(context.Background(), col, col.snapshot(t), mapping, intents, Options{}, zap.NewNop())

	assert.Equal(t, Report{Created: 1}, report)
	require.Len(t, mapping, 1)

	entry := mapping["Standup_2024-01-02T09:00:00_2024-01-02T09:30:00"]
	assert.Equal(t, "ev-1", entry.UID)
	assert.Equal(t, "2024-01-02T09:00:00", entry.OriginalStart)
	assert.Equal(t, "2024-01-02T09:30:00", entry.OriginalEnd)

	assert.Equal(t, "Standup", col.events["ev-1"].Summary)
}

func TestReconcile_SecondRunIsIdempotent(t *testing.T) {
	col := newFakeCollection()
	mapping := mapstore.Mapping{}
	intents := []Intent{
		timedIntent("A", nineAM, nine30AM),
		timedIntent("B", nineAM.Add(time.Hour), nine30AM.Add(time.Hour)),
	}

	first := Reconcile(context.Background(), col, col.snapshot(t), mapping, intents, Options{}, zap.NewNop())
	assert.Equal(t, 2, first.Created)

	second := Reconcile(context.Background(), col, col.snapshot(t), mapping, intents, Options{}, zap.NewNop())
	assert.Equal(t, Report{Unchanged: 2}, second)
	assert.Len(t, col.events, 2)
}

func TestReconcile_MetadataChangeUpdatesInPlace(t *testing.T) {
	col := newFakeCollection()
	mapping := mapstore.Mapping{}
	intent := timedIntent("Standup", nineAM, nine30AM)

	Reconcile(context.Background(), col, col.snapshot(t), mapping, []Intent{intent}, Options{}, zap.NewNop())

	intent.Location = "Room 2"
	report := Reconcile(context.Background(), col, col.snapshot(t), mapping, []Intent{intent}, Options{}, zap.NewNop())

	assert.Equal(t, Report{Updated: 1}, report)
	assert.Len(t, col.events, 1)
	assert.Equal(t, "Room 2", col.events["ev-1"].Location)
	assert.Equal(t, "ev-1", mapping[Key(intent)].UID)
}

func TestReconcile_RenameReplacesEvent(t *testing.T) {
	col := newFakeCollection()
	mapping := mapstore.Mapping{}
	intent := timedIntent("Standup", nineAM, nine30AM)

	Reconcile(context.Background(), col, col.snapshot(t), mapping, []Intent{intent}, Options{}, zap.NewNop())

	renamed := intent
	renamed.Title = "Daily standup"
	report := Reconcile(context.Background(), col, col.snapshot(t), mapping, []Intent{renamed}, Options{}, zap.NewNop())

	// A new identity means a new event plus removal of the old one.
	assert.Equal(t, Report{Created: 1, Deleted: 1}, report)
	require.Len(t, mapping, 1)
	assert.Equal(t, "ev-2", mapping[Key(renamed)].UID)
	assert.Len(t, col.events, 1)
	assert.Equal(t, "Daily standup", col.events["ev-2"].Summary)
}

func TestReconcile_RemovedRowDeletesEvent(t *testing.T) {
	col := newFakeCollection()
	mapping := mapstore.Mapping{}
	intents := []Intent{
		timedIntent("A", nineAM, nine30AM),
		timedIntent("B", nineAM.Add(time.Hour), nine30AM.Add(time.Hour)),
	}

	Reconcile(context.Background(), col, col.snapshot(t), mapping, intents, Options{}, zap.NewNop())

	report := Reconcile(context.Background(), col, col.snapshot(t), mapping, intents[:1], Options{}, zap.NewNop())

	assert.Equal(t, Report{Unchanged: 1, Deleted: 1}, report)
	assert.Len(t, mapping, 1)
	assert.Len(t, col.events, 1)
}

func TestReconcile_MappedEventMissingFromStoreIsRecreated(t *testing.T) {
	col := newFakeCollection()
	intent := timedIntent("Standup", nineAM, nine30AM)
	mapping := mapstore.Mapping{
		Key(intent): {UID: "gone", OriginalStart: "2024-01-02T09:00:00", OriginalEnd: "2024-01-02T09:30:00"},
	}

	report := Reconcile(context.Background(), col, col.snapshot(t), mapping, []Intent{intent}, Options{}, zap.NewNop())

	assert.Equal(t, Report{Created: 1}, report)
	assert.Equal(t, "ev-1", mapping[Key(intent)].UID)
}

func TestReconcile_CreateFailureLeavesMappingAlone(t *testing.T) {
	col := newFakeCollection()
	col.failCreate = true
	mapping := mapstore.Mapping{}
	intent := timedIntent("Standup", nineAM, nine30AM)

	report := Reconcile(context.Background(), col, col.snapshot(t), mapping, []Intent{intent}, Options{}, zap.NewNop())

	assert.Equal(t, Report{Failed: 1}, report)
	assert.Empty(t, mapping)
}

func TestReconcile_UpdateFailureKeepsMappingEntry(t *testing.T) {
	col := newFakeCollection()
	mapping := mapstore.Mapping{}
	intent := timedIntent("Standup", nineAM, nine30AM)

	Reconcile(context.Background(), col, col.snapshot(t), mapping, []Intent{intent}, Options{}, zap.NewNop())

	col.failUpdate = true
	intent.Description = "changed"
	report := Reconcile(context.Background(), col, col.snapshot(t), mapping, []Intent{intent}, Options{}, zap.NewNop())

	assert.Equal(t, Report{Failed: 1}, report)
	assert.Equal(t, "ev-1", mapping[Key(intent)].UID)
}

func TestReconcile_DeleteFailureStillDropsMappingEntry(t *testing.T) {
	col := newFakeCollection()
	mapping := mapstore.Mapping{}
	intent := timedIntent("Standup", nineAM, nine30AM)

	Reconcile(context.Background(), col, col.snapshot(t), mapping, []Intent{intent}, Options{}, zap.NewNop())

	col.failDelete = true
	report := Reconcile(context.Background(), col, col.snapshot(t), mapping, nil, Options{}, zap.NewNop())

	assert.Equal(t, Report{Failed: 1}, report)
	// The key can never come back, so the dead entry is not kept around.
	assert.Empty(t, mapping)
}

func TestReconcile_StaleEntryWithoutLiveEventIsPruned(t *testing.T) {
	col := newFakeCollection()
	mapping := mapstore.Mapping{
		"Gone_2024-01-01T00:00:00_2024-01-01T01:00:00": {UID: "never-existed"},
	}

	report := Reconcile(context.Background(), col, col.snapshot(t), mapping, nil, Options{}, zap.NewNop())

	assert.Equal(t, Report{}, report)
	assert.Empty(t, mapping)
	assert.Zero(t, col.deletes)
}

func TestReconcile_DryRunMutatesNothing(t *testing.T) {
	col := newFakeCollection()
	mapping := mapstore.Mapping{}
	existing := timedIntent("Old", nineAM, nine30AM)

	Reconcile(context.Background(), col, col.snapshot(t), mapping, []Intent{existing}, Options{}, zap.NewNop())
	require.Len(t, mapping, 1)

	changed := existing
	changed.Description = "edited"
	planned := []Intent{
		changed,
		timedIntent("New", nineAM.Add(time.Hour), nine30AM.Add(time.Hour)),
	}

	// Drop "Old" is impossible here since it is still present as "changed";
	// instead plan an update, a create, and implicitly no delete.
	report := Reconcile(context.Background(), col, col.snapshot(t), mapping, planned, Options{DryRun: true}, zap.NewNop())

	assert.Equal(t, Report{Created: 1, Updated: 1}, report)
	assert.Len(t, mapping, 1)
	assert.Len(t, col.events, 1)
	assert.Equal(t, 1, col.creates) // only the initial seeding call

	// A dry run with no intents plans the delete without performing it.
	report = Reconcile(context.Background(), col, col.snapshot(t), mapping, nil, Options{DryRun: true}, zap.NewNop())
	assert.Equal(t, Report{Deleted: 1}, report)
	assert.Len(t, mapping, 1)
	assert.Len(t, col.events, 1)
}
