package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rowanmb/jobsite/internal/domain/project"
)

func newProject(id, name string) *project.Project {
	p := project.New(name)
	p.ID = id
	p.RowID = id
	return p
}

func TestStore_PutGet(t *testing.T) {
	s := New()

	s.Put(newProject("p1", "Kitchen"))
	got, ok := s.Get("p1")
	require.True(t, ok)
	require.Equal(t, "Kitchen", got.Name)

	_, ok = s.Get("p2")
	require.False(t, ok)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := New()
	s.Put(newProject("p1", "Kitchen"))

	got, _ := s.Get("p1")
	got.Name = "changed"
	got.Notes = append(got.Notes, project.Note{ID: "n1", Text: "x"})

	fresh, _ := s.Get("p1")
	require.Equal(t, "Kitchen", fresh.Name)
	require.Empty(t, fresh.Notes)
}

func TestStore_Apply(t *testing.T) {
	s := New()
	s.Put(newProject("p1", "Kitchen"))

	snap, ok := s.Apply("p1", func(p *project.Project) {
		p.Status = project.StatusComplete
	})
	require.True(t, ok)
	require.Equal(t, project.StatusComplete, snap.Status)

	stored, _ := s.Get("p1")
	require.Equal(t, project.StatusComplete, stored.Status)

	_, ok = s.Apply("missing", func(p *project.Project) {})
	require.False(t, ok)
}

func TestStore_Replace(t *testing.T) {
	s := New()
	s.Put(newProject("old", "Old"))

	s.Replace([]*project.Project{
		newProject("p1", "A"),
		newProject("p2", "B"),
	})

	require.Equal(t, 2, s.Len())
	_, ok := s.Get("old")
	require.False(t, ok)
	require.Len(t, s.All(), 2)
}

func TestStore_RemoveAndReset(t *testing.T) {
	s := New()
	s.Put(newProject("p1", "A"))
	s.Put(newProject("p2", "B"))

	s.Remove("p1")
	require.Equal(t, 1, s.Len())

	s.Reset()
	require.Equal(t, 0, s.Len())
}

func TestStore_ConcurrentApply(t *testing.T) {
	s := New()
	s.Put(newProject("p1", "Kitchen"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Apply("p1", func(p *project.Project) {
				p.Tasks = append(p.Tasks, project.Task{ID: "t", Text: "x"})
			})
		}()
	}
	wg.Wait()

	got, _ := s.Get("p1")
	require.Len(t, got.Tasks, 50)
}
