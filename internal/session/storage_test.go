package session

import (
	"sync"
	"testing"
	"time"

	"goincome/domain/statement"
	"goincome/domain/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsValid(t *testing.T) {
	id := NewID()
	assert.True(t, ValidID(id))
	assert.NotEqual(t, id, NewID())
	assert.False(t, ValidID("not-a-session"))
}

func TestUpdateCreatesSession(t *testing.T) {
	store := NewMemoryStore(time.Hour, nil)

	_, ok := store.Get("a")
	assert.False(t, ok)

	got := store.Update("a", func(s view.State) view.State {
		return view.Load(s, []statement.Record{{Date: "2023-01-01"}})
	})
	assert.True(t, got.Loaded)

	stored, ok := store.Get("a")
	require.True(t, ok)
	assert.Len(t, stored.Visible, 1)
	assert.Equal(t, 1, store.Len())

	store.Delete("a")
	assert.Equal(t, 0, store.Len())
}

func TestUpdateIsAtomic(t *testing.T) {
	store := NewMemoryStore(time.Hour, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update("a", func(s view.State) view.State {
				s.Visible = append(s.Visible, statement.Record{})
				return s
			})
		}()
	}
	wg.Wait()

	s, _ := store.Get("a")
	assert.Len(t, s.Visible, 50)
}

func TestCleanupExpired(t *testing.T) {
	store := NewMemoryStore(time.Minute, nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Update("old", func(s view.State) view.State { return s })
	now = now.Add(2 * time.Minute)
	store.Update("fresh", func(s view.State) view.State { return s })

	assert.Equal(t, 1, store.CleanupExpired())
	_, ok := store.Get("fresh")
	assert.True(t, ok)
	_, ok = store.Get("old")
	assert.False(t, ok)
}
