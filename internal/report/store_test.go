package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory settings backend with failure injection for
// exercising the store's error paths.
type fakeBackend struct {
	lists   map[string][]string
	getErr  error
	setErr  error
	setCall int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{lists: map[string][]string{}}
}

func (b *fakeBackend) GetList(_ context.Context, key string) ([]string, bool, error) {
	if b.getErr != nil {
		return nil, false, b.getErr
	}
	values, ok := b.lists[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out, true, nil
}

func (b *fakeBackend) SetList(_ context.Context, key string, values []string) error {
	b.setCall++
	if b.setErr != nil {
		return b.setErr
	}
	stored := make([]string, len(values))
	copy(stored, values)
	b.lists[key] = stored
	return nil
}

func mustToken(t *testing.T, r Report) string {
	t.Helper()
	token, err := EncodeToken(r)
	require.NoError(t, err)
	return token
}

func TestLoadTreatsAbsentKeyAsEmptyList(t *testing.T) {
	t.Parallel()

	store := NewStore(newFakeBackend(), StoreOptions{})
	require.NoError(t, store.Load(context.Background()))
	require.Empty(t, store.Snapshot())
}

func TestAppendPreservesSubmissionOrder(t *testing.T) {
	t.Parallel()

	store := NewStore(newFakeBackend(), StoreOptions{})
	ctx := context.Background()

	first, err := store.Append(ctx, "Fire", "Smoke seen", 12.34, 56.78)
	require.NoError(t, err)
	second, err := store.Append(ctx, "Flood", "Water rising", -1.5, 30.25)
	require.NoError(t, err)

	require.Equal(t, []Report{first, second}, store.Snapshot())
}

func TestDeleteAtShiftsLaterReportsLeft(t *testing.T) {
	t.Parallel()

	store := NewStore(newFakeBackend(), StoreOptions{})
	ctx := context.Background()

	a, err := store.Append(ctx, "A", "first", 1, 1)
	require.NoError(t, err)
	_, err = store.Append(ctx, "B", "second", 2, 2)
	require.NoError(t, err)
	c, err := store.Append(ctx, "C", "third", 3, 3)
	require.NoError(t, err)

	require.NoError(t, store.DeleteAt(ctx, 1))
	require.Equal(t, []Report{a, c}, store.Snapshot())
}

func TestDeleteAtRejectsOutOfRangeIndexes(t *testing.T) {
	t.Parallel()

	store := NewStore(newFakeBackend(), StoreOptions{})
	ctx := context.Background()
	_, err := store.Append(ctx, "Only", "entry", 0, 0)
	require.NoError(t, err)
	before := store.Snapshot()

	require.ErrorIs(t, store.DeleteAt(ctx, 1), ErrIndexOutOfRange)
	require.ErrorIs(t, store.DeleteAt(ctx, -1), ErrIndexOutOfRange)
	require.Equal(t, before, store.Snapshot())
}

func TestLoadIsIdempotentWithoutBackendMutation(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	store := NewStore(backend, StoreOptions{})
	ctx := context.Background()
	_, err := store.Append(ctx, "Fire", "Smoke seen", 12.34, 56.78)
	require.NoError(t, err)

	require.NoError(t, store.Load(ctx))
	first := store.Snapshot()
	require.NoError(t, store.Load(ctx))
	require.Equal(t, first, store.Snapshot())
}

func TestPersistenceSurvivesFreshStore(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	ctx := context.Background()

	store := NewStore(backend, StoreOptions{})
	_, err := store.Append(ctx, "Fire", "Smoke seen", 12.34, 56.78)
	require.NoError(t, err)

	reopened := NewStore(backend, StoreOptions{})
	require.NoError(t, reopened.Load(ctx))
	require.Equal(t, []Report{{
		Title:       "Fire",
		Description: "Smoke seen",
		Latitude:    12.34,
		Longitude:   56.78,
	}}, reopened.Snapshot())
}

func TestAppendRejectsInvalidInputWithoutStateChange(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	store := NewStore(backend, StoreOptions{})
	ctx := context.Background()

	_, err := store.Append(ctx, "", "x", 0, 0)
	require.ErrorIs(t, err, ErrInvalidReport)
	require.Zero(t, store.Len())
	require.Zero(t, backend.setCall)
}

func TestLoadSkipsMalformedTokens(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	good := Report{Title: "Fire", Description: "Smoke seen", Latitude: 12.34, Longitude: 56.78}
	backend.lists[DefaultKey] = []string{mustToken(t, good), "{corrupted"}

	store := NewStore(backend, StoreOptions{})
	require.NoError(t, store.Load(context.Background()))
	require.Equal(t, []Report{good}, store.Snapshot())
}

func TestLoadSurfacesBackendReadFailure(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.getErr = errors.New("disk on fire")
	store := NewStore(backend, StoreOptions{})

	require.ErrorIs(t, store.Load(context.Background()), ErrBackendIO)
}

func TestAppendKeepsInMemoryStateWhenPersistFails(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.setErr = errors.New("storage unavailable")
	store := NewStore(backend, StoreOptions{})

	r, err := store.Append(context.Background(), "Fire", "Smoke seen", 12.34, 56.78)
	require.ErrorIs(t, err, ErrBackendIO)
	require.Equal(t, []Report{r}, store.Snapshot())

	// A retry after the backend recovers persists the surviving state.
	backend.setErr = nil
	require.NoError(t, store.PersistAll(context.Background()))
	require.Len(t, backend.lists[DefaultKey], 1)
}

func TestSnapshotIsDetachedFromStoreState(t *testing.T) {
	t.Parallel()

	store := NewStore(newFakeBackend(), StoreOptions{})
	ctx := context.Background()
	_, err := store.Append(ctx, "Fire", "Smoke seen", 12.34, 56.78)
	require.NoError(t, err)

	snap := store.Snapshot()
	snap[0].Title = "tampered"
	require.Equal(t, "Fire", store.Snapshot()[0].Title)
}

func TestStoresWithDistinctKeysDoNotInterfere(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	ctx := context.Background()

	incidents := NewStore(backend, StoreOptions{Key: "incidents"})
	drafts := NewStore(backend, StoreOptions{Key: "drafts"})

	_, err := incidents.Append(ctx, "Fire", "Smoke seen", 12.34, 56.78)
	require.NoError(t, err)

	require.NoError(t, drafts.Load(ctx))
	require.Empty(t, drafts.Snapshot())
	require.Len(t, backend.lists["incidents"], 1)
}

func TestChangedSignalFiresAfterMutations(t *testing.T) {
	t.Parallel()

	store := NewStore(newFakeBackend(), StoreOptions{})
	ctx := context.Background()

	_, err := store.Append(ctx, "Fire", "Smoke seen", 12.34, 56.78)
	require.NoError(t, err)

	select {
	case <-store.Changed():
	default:
		t.Fatal("expected a change signal after append")
	}

	require.NoError(t, store.DeleteAt(ctx, 0))
	select {
	case <-store.Changed():
	default:
		t.Fatal("expected a change signal after delete")
	}
}
