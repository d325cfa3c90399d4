package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/rowanmb/jobsite/internal/domain/project"
)

type saveRecorder struct {
	mu    sync.Mutex
	saves []project.Project
	err   error
}

func (r *saveRecorder) save(_ context.Context, _ string, snapshot project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, snapshot)
	return r.err
}

func (r *saveRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func (r *saveRecorder) last(t *testing.T) project.Project {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.saves)
	return r.saves[len(r.saves)-1]
}

func snapshot(id, name string) project.Project {
	p := project.New(name)
	p.ID = id
	p.RowID = id
	return *p
}

func waitForSaves(t *testing.T, rec *saveRecorder, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return rec.count() == want },
		time.Second, time.Millisecond)
}

func TestCoalescer_BurstCollapsesToOneWrite(t *testing.T) {
	mockClock := clock.NewMock()
	rec := &saveRecorder{}
	c := New(600*time.Millisecond, mockClock, rec.save, nil)

	first := snapshot("p1", "Kitchen")
	c.Schedule("u1", first)

	mockClock.Add(100 * time.Millisecond)

	second := snapshot("p1", "Kitchen v2")
	c.Schedule("u1", second)

	// 699ms total: the replacement timer set at t=100 has not expired.
	mockClock.Add(599 * time.Millisecond)
	require.Equal(t, 0, rec.count())
	require.Equal(t, 1, c.Pending())

	mockClock.Add(1 * time.Millisecond)
	waitForSaves(t, rec, 1)
	require.Equal(t, "Kitchen v2", rec.last(t).Name)
	require.Equal(t, 0, c.Pending())
}

func TestCoalescer_ReschedulesAfterFire(t *testing.T) {
	mockClock := clock.NewMock()
	rec := &saveRecorder{}
	c := New(600*time.Millisecond, mockClock, rec.save, nil)

	c.Schedule("u1", snapshot("p1", "v1"))
	mockClock.Add(600 * time.Millisecond)
	waitForSaves(t, rec, 1)

	c.Schedule("u1", snapshot("p1", "v2"))
	mockClock.Add(600 * time.Millisecond)
	waitForSaves(t, rec, 2)
	require.Equal(t, "v2", rec.last(t).Name)
}

func TestCoalescer_IndependentKeys(t *testing.T) {
	mockClock := clock.NewMock()
	rec := &saveRecorder{}
	c := New(600*time.Millisecond, mockClock, rec.save, nil)

	c.Schedule("u1", snapshot("p1", "A"))
	mockClock.Add(300 * time.Millisecond)
	c.Schedule("u1", snapshot("p2", "B"))

	require.Equal(t, 2, c.Pending())

	mockClock.Add(300 * time.Millisecond)
	waitForSaves(t, rec, 1)

	mockClock.Add(300 * time.Millisecond)
	waitForSaves(t, rec, 2)
	require.Equal(t, 0, c.Pending())
}

func TestCoalescer_FlushWritesEverythingNow(t *testing.T) {
	mockClock := clock.NewMock()
	rec := &saveRecorder{}
	c := New(600*time.Millisecond, mockClock, rec.save, nil)

	c.Schedule("u1", snapshot("p1", "A"))
	c.Schedule("u1", snapshot("p2", "B"))
	require.Equal(t, 2, c.Pending())

	c.Flush()
	require.Equal(t, 2, rec.count())
	require.Equal(t, 0, c.Pending())

	// Stopped timers must not fire a second write later.
	mockClock.Add(time.Second)
	require.Equal(t, 2, rec.count())
}

func TestCoalescer_SaveFailureIsDropped(t *testing.T) {
	mockClock := clock.NewMock()
	rec := &saveRecorder{err: errors.New("disk full")}
	c := New(600*time.Millisecond, mockClock, rec.save, nil)

	c.Schedule("u1", snapshot("p1", "A"))
	mockClock.Add(600 * time.Millisecond)

	waitForSaves(t, rec, 1)
	require.Equal(t, 0, c.Pending(), "a failed write is not retried")
}

func TestCoalescer_Defaults(t *testing.T) {
	c := New(0, nil, func(context.Context, string, project.Project) error { return nil }, nil)
	require.Equal(t, DefaultDelay, c.delay)
}
