package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, sub *Subscription) Change {
	t.Helper()
	select {
	case c := <-sub.C:
		return c
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
		return Change{}
	}
}

func TestEmitSequencesAndBroadcasts(t *testing.T) {
	m := NewManager(nil)
	sub, err := m.Subscribe()
	require.NoError(t, err)
	defer sub.Cancel()

	ctx := context.Background()
	first, err := m.Emit(ctx, DomainProjects, ActionCreate, "7")
	require.NoError(t, err)
	second, err := m.Emit(ctx, DomainHero, ActionUpdate, "")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)
	assert.False(t, first.Time.IsZero())

	got := recv(t, sub)
	assert.Equal(t, first, got)
	got = recv(t, sub)
	assert.Equal(t, DomainHero, got.Domain)
	assert.Equal(t, ActionUpdate, got.Action)
}

func TestConcurrentEmitKeepsOrder(t *testing.T) {
	m := NewManager(nil)
	sub, err := m.Subscribe()
	require.NoError(t, err)
	defer sub.Cancel()

	const writers, perWriter = 8, 25
	ctx := context.Background()
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := m.Emit(ctx, DomainProjects, ActionUpdate, "1")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	for want := int64(1); want <= writers*perWriter; want++ {
		got := recv(t, sub)
		require.Equal(t, want, got.Seq)
	}
}

func TestReplayFromCursor(t *testing.T) {
	m := NewManager(nil)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := m.Emit(ctx, DomainSkills, ActionUpdate, "frontend")
		require.NoError(t, err)
	}

	var seqs []int64
	err := m.Replay(ctx, 2, func(c Change) error {
		seqs = append(seqs, c.Seq)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 5}, seqs)
}

func TestMemoryLogLimit(t *testing.T) {
	l := NewMemoryLog(2)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, err := l.Persist(ctx, Change{Domain: DomainAbout, Action: ActionUpdate})
		require.NoError(t, err)
	}

	var seqs []int64
	require.NoError(t, l.Replay(ctx, 0, func(c Change) error {
		seqs = append(seqs, c.Seq)
		return nil
	}))
	assert.Equal(t, []int64{3, 4}, seqs)
}

func TestCancelClosesDone(t *testing.T) {
	m := NewManager(nil)
	sub, err := m.Subscribe()
	require.NoError(t, err)
	assert.Equal(t, 1, m.Subscribers())

	sub.Cancel()
	sub.Cancel()

	_, open := <-sub.Done
	assert.False(t, open)
	assert.Equal(t, 0, m.Subscribers())
}

func TestSlowSubscriberDropped(t *testing.T) {
	m := NewManager(nil)
	sub, err := m.Subscribe()
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < subscriberBuffer+1; i++ {
		_, err := m.Emit(ctx, DomainTestimonials, ActionCreate, "1")
		require.NoError(t, err)
	}

	select {
	case <-sub.Done:
	case <-time.After(time.Second):
		t.Fatal("slow subscriber was not dropped")
	}
	assert.Equal(t, 0, m.Subscribers())
}

func TestShutdown(t *testing.T) {
	m := NewManager(nil)
	sub, err := m.Subscribe()
	require.NoError(t, err)

	m.Shutdown()
	<-sub.Done

	_, err = m.Subscribe()
	assert.ErrorIs(t, err, ErrClosed)
}
