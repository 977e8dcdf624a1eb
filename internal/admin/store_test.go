package admin

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/primal-host/primal-folio/internal/content"
	"github.com/primal-host/primal-folio/internal/credential"
	"github.com/primal-host/primal-folio/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRemote = errors.New("remote down")

type fakeSection[T any] struct {
	mu  sync.Mutex
	v   T
	err error
}

func (f *fakeSection[T]) Get(context.Context) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.v, f.err
}

func (f *fakeSection[T]) Set(_ context.Context, v T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		var zero T
		return zero, f.err
	}
	f.v = v
	return v, nil
}

type fakeCollection[T content.Item[T]] struct {
	*content.MemoryItems[T]
	err error
}

func newFakeCollection[T content.Item[T]]() *fakeCollection[T] {
	return &fakeCollection[T]{MemoryItems: content.NewMemoryItems[T]("item")}
}

func (f *fakeCollection[T]) List(ctx context.Context) ([]T, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.MemoryItems.List(ctx)
}

func (f *fakeCollection[T]) Create(ctx context.Context, v T) (T, error) {
	if f.err != nil {
		var zero T
		return zero, f.err
	}
	return f.MemoryItems.Create(ctx, v)
}

func (f *fakeCollection[T]) Update(ctx context.Context, id int64, v T) (T, error) {
	if f.err != nil {
		var zero T
		return zero, f.err
	}
	return f.MemoryItems.Update(ctx, id, v)
}

func (f *fakeCollection[T]) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	_, err := f.MemoryItems.Delete(ctx, id)
	return err
}

type fakeSkills struct {
	*content.MemorySkills
	listErr, createErr, updateErr, deleteErr error
	calls                                    []string
}

func (f *fakeSkills) List(ctx context.Context) (map[string]content.SkillsCategory, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.MemorySkills.List(ctx)
}

func (f *fakeSkills) Create(ctx context.Context, id string, c content.SkillsCategory) (content.SkillsCategory, error) {
	f.calls = append(f.calls, "create "+id)
	if f.createErr != nil {
		return content.SkillsCategory{}, f.createErr
	}
	return f.MemorySkills.Create(ctx, id, c)
}

func (f *fakeSkills) Update(ctx context.Context, id string, c content.SkillsCategory) (content.SkillsCategory, error) {
	f.calls = append(f.calls, "update "+id)
	if f.updateErr != nil {
		return content.SkillsCategory{}, f.updateErr
	}
	return f.MemorySkills.Upsert(ctx, id, c)
}

func (f *fakeSkills) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete "+id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	_, err := f.MemorySkills.Delete(ctx, id)
	return err
}

type fakes struct {
	hero         *fakeSection[content.Hero]
	about        *fakeSection[content.About]
	contact      *fakeSection[content.Contact]
	skills       *fakeSkills
	projects     *fakeCollection[content.Project]
	experiences  *fakeCollection[content.Experience]
	testimonials *fakeCollection[content.Testimonial]
}

func (f *fakes) remote() Remote {
	return Remote{
		Hero:         f.hero,
		About:        f.about,
		Contact:      f.contact,
		Skills:       f.skills,
		Projects:     f.projects,
		Experiences:  f.experiences,
		Testimonials: f.testimonials,
	}
}

func newFakes() *fakes {
	return &fakes{
		hero:         &fakeSection[content.Hero]{},
		about:        &fakeSection[content.About]{},
		contact:      &fakeSection[content.Contact]{},
		skills:       &fakeSkills{MemorySkills: content.NewMemorySkills()},
		projects:     newFakeCollection[content.Project](),
		experiences:  newFakeCollection[content.Experience](),
		testimonials: newFakeCollection[content.Testimonial](),
	}
}

func localGate(t *testing.T) LocalGate {
	t.Helper()
	creds, err := credential.NewMemory("admin123")
	require.NoError(t, err)
	return LocalGate{Credentials: creds}
}

// newStore returns a hydrated, logged-in store over fresh fakes.
func newStore(t *testing.T) (*Store, *fakes) {
	t.Helper()
	f := newFakes()
	s := New(f.remote(), localGate(t))
	require.NoError(t, s.Hydrate(context.Background()))
	ok, err := s.Login(context.Background(), "admin123")
	require.NoError(t, err)
	require.True(t, ok)
	return s, f
}

func TestNewStartsWithDefaults(t *testing.T) {
	s := New(newFakes().remote(), localGate(t))
	assert.Equal(t, PhaseDefaults, s.Phase())
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, content.Defaults().Hero, s.Hero().Get())
	assert.Len(t, s.Skills(), len(content.Defaults().Skills))
}

func TestHydrateAllOrNothing(t *testing.T) {
	f := newFakes()
	f.hero.v = content.Hero{Title: "Remote"}
	f.experiences.err = errRemote

	s := New(f.remote(), localGate(t))
	before := s.Snapshot()

	err := s.Hydrate(context.Background())
	var be *BootstrapError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, events.DomainExperiences, be.Domain)
	assert.ErrorIs(t, err, errRemote)
	assert.Equal(t, PhaseDefaults, s.Phase())
	assert.Equal(t, before, s.Snapshot())

	f.experiences.err = nil
	require.NoError(t, s.Hydrate(context.Background()))
	assert.Equal(t, PhaseReady, s.Phase())
	assert.Equal(t, "Remote", s.Hero().Get().Title)
	assert.Equal(t, []string{}, s.Hero().Get().Tags)
	assert.Empty(t, s.Projects().List())
}

func TestMutationsRequireLogin(t *testing.T) {
	s := New(newFakes().remote(), localGate(t))
	ctx := context.Background()

	_, err := s.Hero().Set(ctx, content.Hero{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = s.Projects().Create(ctx, content.Project{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = s.AddCategory(ctx, "Tools")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestLoginLogout(t *testing.T) {
	marker := &MemoryMarker{}
	s := New(newFakes().remote(), localGate(t), WithMarker(marker))
	ctx := context.Background()

	ok, err := s.Login(ctx, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated())

	ok, err = s.Login(ctx, "admin123")
	require.NoError(t, err)
	assert.True(t, ok)
	session, _ := marker.Load()
	assert.Equal(t, localSession, session)

	require.NoError(t, s.Logout())
	assert.False(t, s.IsAuthenticated())
	session, _ = marker.Load()
	assert.Empty(t, session)
}

func TestRestoreFromFileMarker(t *testing.T) {
	marker := FileMarker{Path: filepath.Join(t.TempDir(), "folio", "session")}
	s := New(newFakes().remote(), localGate(t), WithMarker(marker))

	ok, err := s.Restore()
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Login(context.Background(), "admin123")
	require.NoError(t, err)
	require.True(t, ok)

	again := New(newFakes().remote(), localGate(t), WithMarker(marker))
	ok, err = again.Restore()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, again.IsAuthenticated())

	require.NoError(t, again.Logout())
	require.NoError(t, again.Logout())
}

func TestChangePassword(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.ChangePassword(ctx, "admin123", "short"), credential.ErrPasswordTooShort)
	assert.ErrorIs(t, s.ChangePassword(ctx, "nope-nope", "long-enough"), credential.ErrInvalidPassword)
	require.NoError(t, s.ChangePassword(ctx, "admin123", "long-enough"))

	ok, err := s.Login(ctx, "long-enough")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCollectionCreateAppendsServerItem(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	p, err := s.Projects().Create(ctx, content.Project{ID: 42, Title: "Orbit"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)

	q, err := s.Projects().Create(ctx, content.Project{Title: "Drift"})
	require.NoError(t, err)

	list := s.Projects().List()
	require.Len(t, list, 2)
	assert.Equal(t, p.ID, list[0].ID)
	assert.Equal(t, q.ID, list[1].ID)
}

func TestCollectionFailureLeavesStateUnchanged(t *testing.T) {
	s, f := newStore(t)
	ctx := context.Background()

	p, err := s.Projects().Create(ctx, content.Project{Title: "Orbit", Tags: []string{"Go"}})
	require.NoError(t, err)
	before := s.Snapshot()

	f.projects.err = errRemote
	_, err = s.Projects().Update(ctx, p.ID, content.Project{Title: "Changed"})
	require.ErrorIs(t, err, errRemote)
	assert.Equal(t, before, s.Snapshot())

	_, err = s.Projects().Create(ctx, content.Project{Title: "New"})
	require.ErrorIs(t, err, errRemote)
	require.ErrorIs(t, s.Projects().Delete(ctx, p.ID), errRemote)
	assert.Equal(t, before, s.Snapshot())
}

func TestCollectionUpdatePreservesID(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	e, err := s.Experiences().Create(ctx, content.Experience{Company: "Acme"})
	require.NoError(t, err)

	updated, err := s.Experiences().Update(ctx, e.ID, content.Experience{ID: 999, Company: "Acme Corp"})
	require.NoError(t, err)
	assert.Equal(t, e.ID, updated.ID)

	got, ok := s.Experiences().Find(e.ID)
	require.True(t, ok)
	assert.Equal(t, "Acme Corp", got.Company)
	_, ok = s.Experiences().Find(999)
	assert.False(t, ok)
}

func TestSnapshotIsolation(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, err := s.Testimonials().Create(ctx, content.Testimonial{Text: "a"})
	require.NoError(t, err)
	snap := s.Testimonials().List()

	_, err = s.Testimonials().Create(ctx, content.Testimonial{Text: "b"})
	require.NoError(t, err)
	require.NoError(t, s.Testimonials().Delete(ctx, 1))

	assert.Len(t, snap, 1)
	assert.Equal(t, "a", snap[0].Text)
}

func TestSectionSetFailureKeepsValue(t *testing.T) {
	s, f := newStore(t)
	ctx := context.Background()

	_, err := s.Contact().Set(ctx, content.Contact{Name: "Alex"})
	require.NoError(t, err)

	f.contact.err = errRemote
	_, err = s.Contact().Set(ctx, content.Contact{Name: "Other"})
	require.ErrorIs(t, err, errRemote)
	assert.Equal(t, "Alex", s.Contact().Get().Name)
}

func TestAddCategorySuffixesCollisions(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	id, err := s.AddCategory(ctx, "Frontend")
	require.NoError(t, err)
	assert.Equal(t, "frontend", id)

	id, err = s.AddCategory(ctx, "Frontend")
	require.NoError(t, err)
	assert.Equal(t, "frontend-1", id)

	id, err = s.AddCategory(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmptyValue)
	assert.Empty(t, id)

	id, err = s.AddCategory(ctx, "!!!")
	require.NoError(t, err)
	assert.Equal(t, "new-category", id)
}

func TestRenameSameSlugOnlyRelabels(t *testing.T) {
	s, f := newStore(t)
	ctx := context.Background()

	_, err := s.AddCategory(ctx, "frontend")
	require.NoError(t, err)
	f.skills.calls = nil

	id, err := s.RenameCategory(ctx, "frontend", "Frontend")
	require.NoError(t, err)
	assert.Equal(t, "frontend", id)
	assert.Equal(t, []string{"update frontend"}, f.skills.calls)

	cat, ok := s.Category("frontend")
	require.True(t, ok)
	assert.Equal(t, "Frontend", cat.Label)
	_, ok = s.Category("frontend-1")
	assert.False(t, ok)
}

func TestRenameTrueCollision(t *testing.T) {
	s, f := newStore(t)
	ctx := context.Background()

	_, err := s.AddCategory(ctx, "Frontend")
	require.NoError(t, err)
	_, err = s.AddCategory(ctx, "Tools")
	require.NoError(t, err)
	_, err = s.AddSkill(ctx, "tools", "Git")
	require.NoError(t, err)
	f.skills.calls = nil

	id, err := s.RenameCategory(ctx, "tools", "Frontend")
	require.NoError(t, err)
	assert.Equal(t, "frontend-1", id)
	assert.Equal(t, []string{"create frontend-1", "delete tools"}, f.skills.calls)

	_, ok := s.Category("tools")
	assert.False(t, ok)
	cat, ok := s.Category("frontend-1")
	require.True(t, ok)
	assert.Equal(t, []string{"Git"}, cat.Skills)

	remote, err := f.skills.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, remote, "tools")
}

func TestRenamePartialFailure(t *testing.T) {
	s, f := newStore(t)
	ctx := context.Background()

	_, err := s.AddCategory(ctx, "Tools")
	require.NoError(t, err)
	f.skills.deleteErr = errRemote

	id, err := s.RenameCategory(ctx, "tools", "Engines")
	var pe *PartialMutationError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "tools", pe.OldID)
	assert.Equal(t, "engines", pe.NewID)
	assert.Equal(t, "engines", id)
	assert.ErrorIs(t, err, errRemote)

	skills := s.Skills()
	assert.Contains(t, skills, "tools")
	assert.Contains(t, skills, "engines")
}

func TestRenameCreateFailureChangesNothing(t *testing.T) {
	s, f := newStore(t)
	ctx := context.Background()

	_, err := s.AddCategory(ctx, "Tools")
	require.NoError(t, err)
	before := s.Snapshot()
	f.skills.createErr = errRemote

	_, err = s.RenameCategory(ctx, "tools", "Engines")
	require.ErrorIs(t, err, errRemote)
	assert.Equal(t, before, s.Snapshot())

	_, err = s.RenameCategory(ctx, "missing", "X")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestSkillAndAchievementEdits(t *testing.T) {
	s, f := newStore(t)
	ctx := context.Background()

	id, err := s.AddCategory(ctx, "C++ & Systems")
	require.NoError(t, err)
	assert.Equal(t, "c-and-systems", id)

	cat, err := s.AddSkill(ctx, id, "  RUST ")
	require.NoError(t, err)
	assert.Equal(t, []string{"RUST"}, cat.Skills)

	_, err = s.AddSkill(ctx, id, "   ")
	assert.ErrorIs(t, err, ErrEmptyValue)

	_, err = s.AddSkill(ctx, id, "Zig")
	require.NoError(t, err)
	cat, err = s.RemoveSkill(ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zig"}, cat.Skills)

	_, err = s.RemoveSkill(ctx, id, 5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	cat, err = s.AddAchievement(ctx, id, "Shipped an engine")
	require.NoError(t, err)
	assert.Equal(t, []string{"Shipped an engine"}, cat.Achievements)
	cat, err = s.RemoveAchievement(ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{}, cat.Achievements)

	remote, err := f.skills.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zig"}, remote.Skills)

	f.skills.updateErr = errRemote
	_, err = s.AddSkill(ctx, id, "Odin")
	require.ErrorIs(t, err, errRemote)
	cat, _ = s.Category(id)
	assert.Equal(t, []string{"Zig"}, cat.Skills)

	_, err = s.AddSkill(ctx, "missing", "x")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestDeleteCategory(t *testing.T) {
	s, f := newStore(t)
	ctx := context.Background()

	_, err := s.AddCategory(ctx, "Tools")
	require.NoError(t, err)

	f.skills.deleteErr = errRemote
	require.ErrorIs(t, s.DeleteCategory(ctx, "tools"), errRemote)
	_, ok := s.Category("tools")
	assert.True(t, ok)

	f.skills.deleteErr = nil
	require.NoError(t, s.DeleteCategory(ctx, "tools"))
	_, ok = s.Category("tools")
	assert.False(t, ok)
	assert.ErrorIs(t, s.DeleteCategory(ctx, "tools"), ErrUnknownCategory)
}

func TestRefresh(t *testing.T) {
	s, f := newStore(t)
	ctx := context.Background()

	f.hero.v = content.Hero{Title: "Changed elsewhere"}
	_, err := f.testimonials.MemoryItems.Create(ctx, content.Testimonial{Text: "elsewhere"})
	require.NoError(t, err)

	require.NoError(t, s.Refresh(ctx, events.DomainHero))
	require.NoError(t, s.Refresh(ctx, events.DomainTestimonials))
	assert.Equal(t, "Changed elsewhere", s.Hero().Get().Title)
	require.Len(t, s.Testimonials().List(), 1)
	assert.Equal(t, 5, s.Testimonials().List()[0].Rating)

	assert.Error(t, s.Refresh(ctx, "auth"))
}

type fakeFeed struct {
	changes []events.Change
	calls   int
}

func (f *fakeFeed) Watch(ctx context.Context, cursor int64, fn func(events.Change) error) (int64, error) {
	f.calls++
	last := cursor
	for _, ch := range f.changes {
		if ch.Seq <= cursor {
			continue
		}
		if err := fn(ch); err != nil {
			return last, err
		}
		last = ch.Seq
	}
	<-ctx.Done()
	return last, ctx.Err()
}

func TestFollowRefreshesChangedDomain(t *testing.T) {
	s, f := newStore(t)
	f.about.v = content.About{Title: "Updated"}

	ctx, cancel := context.WithCancel(context.Background())
	feed := &fakeFeed{changes: []events.Change{{Seq: 1, Domain: events.DomainAbout, Action: events.ActionUpdate}}}

	done := make(chan error, 1)
	go func() { done <- s.Follow(ctx, feed) }()

	require.Eventually(t, func() bool { return s.About().Get().Title == "Updated" },
		2*time.Second, 10*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
