package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinytrack/internal/config"
	"tinytrack/internal/model"
)

func testProfile(id string) *model.Profile {
	p := model.NewProfile(id)
	p.Stage = model.StageActive
	p.ChildName = "Noa"
	p.Events = append(p.Events, model.Event{
		ID:        "ev-1",
		Type:      model.EventBottle,
		Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Details:   model.EventDetails{AmountML: 120},
	})
	return p
}

// backends that need no external service
func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	file, err := NewFileStore(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)
	sqlite, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   file,
		"sqlite": sqlite,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "972500000001")
			assert.ErrorIs(t, err, ErrNotFound)

			p := testProfile("972500000001")
			require.NoError(t, s.Upsert(ctx, p))

			got, err := s.Get(ctx, "972500000001")
			require.NoError(t, err)
			if diff := cmp.Diff(p, got); diff != "" {
				t.Errorf("profile mismatch (-want +got):\n%s", diff)
			}

			require.NoError(t, s.Remove(ctx, "972500000001"))
			_, err = s.Get(ctx, "972500000001")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreDelegateLookup(t *testing.T) {
	ctx := context.Background()
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			p := testProfile("972500000001")
			p.DelegateID = "972500000002"
			require.NoError(t, s.Upsert(ctx, p))

			got, err := s.FindByDelegate(ctx, "972500000002")
			require.NoError(t, err)
			assert.Equal(t, "972500000001", got.ID)

			_, err = s.FindByDelegate(ctx, "972500000099")
			assert.ErrorIs(t, err, ErrNotFound)

			// Lookup falls through primary to delegate
			viaLookup, err := Lookup(ctx, s, "972500000002")
			require.NoError(t, err)
			assert.Equal(t, "972500000001", viaLookup.ID)
		})
	}
}

func TestStoreCopySemantics(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := testProfile("972500000001")
	require.NoError(t, s.Upsert(ctx, p))

	// mutating the caller's copy must not leak into the store
	p.ChildName = "changed"
	got, err := s.Get(ctx, "972500000001")
	require.NoError(t, err)
	assert.Equal(t, "Noa", got.ChildName)
}

func TestFileStoreReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "profiles.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Upsert(ctx, testProfile("972500000001")))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, "972500000001")
	require.NoError(t, err)
	assert.Equal(t, "Noa", got.ChildName)
}

func TestFactory(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.StoreConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = New(ctx, config.StoreConfig{Backend: "bogus"})
	assert.Error(t, err)
}
