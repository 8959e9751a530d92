// Package storetest holds the behaviour every secondary.WebhookStore adapter must share.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// Factory returns a fresh, empty store. Cleanup is registered on t.
type Factory func(t *testing.T) secondary.WebhookStore

var base = time.Date(2025, 11, 5, 15, 35, 58, 0, time.UTC)

// Record builds a request in session stamped offset after a fixed base time.
func Record(session string, offset time.Duration, body string) *entity.CapturedRequest {
	rec := &entity.CapturedRequest{
		SessionID: session,
		Method:    "POST",
		Headers:   map[string]string{"content-type": "application/json"},
		CreatedAt: base.Add(offset),
	}
	if body != "" {
		rec.Body = &body
	}
	return rec
}

// Run executes the conformance suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("insert assigns increasing ids", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		first := Record("s1", 0, `{"n":1}`)
		second := Record("s2", time.Second, `{"n":2}`)
		require.NoError(t, store.Insert(ctx, first))
		require.NoError(t, store.Insert(ctx, second))

		assert.NotZero(t, first.ID)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("list round trips fields in capture order", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Insert(ctx, Record("s1", 2*time.Second, "third")))
		require.NoError(t, store.Insert(ctx, Record("s1", 0, `{"event":"x"}`)))
		require.NoError(t, store.Insert(ctx, Record("s1", time.Second, "")))
		require.NoError(t, store.Insert(ctx, Record("other", 0, "x")))

		got, err := store.ListBySession(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, got, 3)

		require.NotNil(t, got[0].Body)
		assert.Equal(t, `{"event":"x"}`, *got[0].Body)
		assert.Nil(t, got[1].Body)
		require.NotNil(t, got[2].Body)
		assert.Equal(t, "third", *got[2].Body)

		assert.Equal(t, "s1", got[0].SessionID)
		assert.Equal(t, "POST", got[0].Method)
		assert.Equal(t, map[string]string{"content-type": "application/json"}, got[0].Headers)
		assert.True(t, got[0].CreatedAt.Equal(base), "created_at = %v, want %v", got[0].CreatedAt, base)
	})

	t.Run("equal timestamps keep insertion order", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for i := 1; i <= 5; i++ {
			require.NoError(t, store.Insert(ctx, Record("same", 0, fmt.Sprintf(`{"order":%d}`, i))))
		}

		got, err := store.ListBySession(ctx, "same")
		require.NoError(t, err)
		require.Len(t, got, 5)
		for i, rec := range got {
			assert.Equal(t, fmt.Sprintf(`{"order":%d}`, i+1), *rec.Body)
		}
	})

	t.Run("unknown session lists empty and counts zero", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		got, err := store.ListBySession(ctx, "never-used")
		require.NoError(t, err)
		assert.Empty(t, got)

		count, err := store.CountBySession(ctx, "never-used")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("count and delete are per session", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			require.NoError(t, store.Insert(ctx, Record("a", time.Duration(i)*time.Second, "x")))
		}
		require.NoError(t, store.Insert(ctx, Record("b", 0, "y")))

		count, err := store.CountBySession(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		deleted, err := store.DeleteBySession(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 3, deleted)

		deleted, err = store.DeleteBySession(ctx, "a")
		require.NoError(t, err)
		assert.Zero(t, deleted)

		remaining, err := store.ListBySession(ctx, "b")
		require.NoError(t, err)
		assert.Len(t, remaining, 1)

		gone, err := store.ListBySession(ctx, "a")
		require.NoError(t, err)
		assert.Empty(t, gone)
	})

	t.Run("ids are not reused after delete", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		first := Record("a", 0, "x")
		require.NoError(t, store.Insert(ctx, first))
		_, err := store.DeleteBySession(ctx, "a")
		require.NoError(t, err)

		second := Record("a", time.Second, "x")
		require.NoError(t, store.Insert(ctx, second))
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("sessions are ordered by last activity", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Insert(ctx, Record("old", 0, "x")))
		require.NoError(t, store.Insert(ctx, Record("busy", time.Second, "x")))
		require.NoError(t, store.Insert(ctx, Record("busy", 3*time.Second, "x")))
		require.NoError(t, store.Insert(ctx, Record("mid", 2*time.Second, "x")))

		got, err := store.Sessions(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, "busy", got[0].SessionID)
		assert.Equal(t, 2, got[0].Count)
		assert.True(t, got[0].LastCapturedAt.Equal(base.Add(3*time.Second)))

		assert.Equal(t, "mid", got[1].SessionID)
		assert.Equal(t, 1, got[1].Count)

		assert.Equal(t, "old", got[2].SessionID)
		assert.True(t, got[2].LastCapturedAt.Equal(base))
	})

	t.Run("sessions is empty on an empty store", func(t *testing.T) {
		store := newStore(t)

		got, err := store.Sessions(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("insert if below stops at the limit", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for want := 0; want < 2; want++ {
			rec := Record("fail-2x-then-ok-a", time.Duration(want)*time.Second, "x")
			attempts, inserted, err := store.InsertIfBelow(ctx, rec, 2)
			require.NoError(t, err)
			assert.True(t, inserted)
			assert.Equal(t, want, attempts)
			assert.NotZero(t, rec.ID)
		}

		rec := Record("fail-2x-then-ok-a", 5*time.Second, "x")
		attempts, inserted, err := store.InsertIfBelow(ctx, rec, 2)
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.Equal(t, 2, attempts)
		assert.Zero(t, rec.ID)

		count, err := store.CountBySession(ctx, "fail-2x-then-ok-a")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("insert if below with zero limit never inserts", func(t *testing.T) {
		store := newStore(t)

		attempts, inserted, err := store.InsertIfBelow(context.Background(), Record("z", 0, "x"), 0)
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.Zero(t, attempts)
	})

	t.Run("concurrent insert if below never exceeds the limit", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		const (
			limit   = 4
			workers = 16
		)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			ordinals = map[int]int{}
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				attempts, inserted, err := store.InsertIfBelow(ctx, Record("race", time.Duration(i)*time.Millisecond, "x"), limit)
				if !assert.NoError(t, err) {
					return
				}
				if inserted {
					mu.Lock()
					ordinals[attempts]++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		assert.Len(t, ordinals, limit)
		for n := 0; n < limit; n++ {
			assert.Equal(t, 1, ordinals[n], "ordinal %d", n)
		}

		count, err := store.CountBySession(ctx, "race")
		require.NoError(t, err)
		assert.Equal(t, limit, count)
	})
}
