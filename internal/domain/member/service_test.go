package member_test

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rowanmb/jobsite/internal/domain/member"
	"github.com/rowanmb/jobsite/internal/repository"
	"github.com/rowanmb/jobsite/internal/repository/mocks"
)

func newTestService(t *testing.T) (*member.Service, *mocks.MemberRepository, *clock.Mock) {
	t.Helper()
	repo := &mocks.MemberRepository{}
	clk := clock.NewMock()
	clk.Set(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	return member.NewService(repo, clk, nil), repo, clk
}

func TestShare(t *testing.T) {
	svc, repo, clk := newTestService(t)

	repo.On("GetProfileByEmail", mock.Anything, "bob@example.com").
		Return(&member.Profile{ID: "u2", Email: "bob@example.com"}, nil).
		Once()
	repo.On("AddMember", mock.Anything, mock.AnythingOfType("*member.Membership")).
		Return(nil).
		Once()

	m, err := svc.Share(context.Background(), "p1", "  Bob@Example.com ", member.RoleEditor)
	require.NoError(t, err)
	require.Equal(t, "p1", m.ProjectID)
	require.Equal(t, "u2", m.UserID)
	require.Equal(t, member.RoleEditor, m.Role)
	require.Equal(t, clk.Now(), m.CreatedAt)
	repo.AssertExpectations(t)
}

func TestShare_UnknownEmail(t *testing.T) {
	svc, repo, _ := newTestService(t)

	repo.On("GetProfileByEmail", mock.Anything, "ghost@example.com").
		Return(nil, repository.ErrNotFound).
		Once()

	_, err := svc.Share(context.Background(), "p1", "ghost@example.com", member.RoleViewer)
	require.ErrorIs(t, err, member.ErrUserNotFound)
	repo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
}

func TestShare_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Share(context.Background(), "p1", "", member.RoleEditor)
	require.ErrorIs(t, err, member.ErrInvalidInput)

	_, err = svc.Share(context.Background(), "p1", "bob@example.com", "superuser")
	require.ErrorIs(t, err, member.ErrInvalidInput)
}

func TestEnsureProfile(t *testing.T) {
	svc, repo, _ := newTestService(t)

	repo.On("UpsertProfile", mock.Anything, &member.Profile{ID: "u1", Email: "ann@example.com"}).
		Return(nil).
		Once()

	require.NoError(t, svc.EnsureProfile(context.Background(), "u1", " Ann@Example.COM "))
	repo.AssertExpectations(t)
}

func TestEnsureProfile_MissingPrincipal(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.EnsureProfile(context.Background(), "", "ann@example.com")
	require.ErrorIs(t, err, member.ErrInvalidInput)
}

func TestMembers(t *testing.T) {
	svc, repo, clk := newTestService(t)

	want := []member.Membership{
		{ProjectID: "p1", UserID: "u2", Role: member.RoleEditor, CreatedAt: clk.Now()},
	}
	repo.On("ListMembers", mock.Anything, "p1").Return(want, nil).Once()

	got, err := svc.Members(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, want, got)
}
