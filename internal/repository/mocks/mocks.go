package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rowanmb/jobsite/internal/domain/member"
	"github.com/rowanmb/jobsite/internal/domain/project"
)

var (
	_ project.Repository = (*ProjectRepository)(nil)
	_ member.Repository  = (*MemberRepository)(nil)
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Insert(ctx context.Context, row *project.Row) (*project.Row, error) {
	args := m.Called(ctx, row)
	if out, ok := args.Get(0).(*project.Row); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Upsert(ctx context.Context, row *project.Row) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, principalID, id string) (*project.Row, error) {
	args := m.Called(ctx, principalID, id)
	if out, ok := args.Get(0).(*project.Row); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ListVisible(ctx context.Context, principalID string) ([]project.Row, error) {
	args := m.Called(ctx, principalID)
	if out, ok := args.Get(0).([]project.Row); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Delete(ctx context.Context, principalID, id string) error {
	args := m.Called(ctx, principalID, id)
	return args.Error(0)
}

// MemberRepository is a mock for member.Repository.
type MemberRepository struct {
	mock.Mock
}

func (m *MemberRepository) UpsertProfile(ctx context.Context, profile *member.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MemberRepository) GetProfileByEmail(ctx context.Context, email string) (*member.Profile, error) {
	args := m.Called(ctx, email)
	if out, ok := args.Get(0).(*member.Profile); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) AddMember(ctx context.Context, membership *member.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MemberRepository) ListMembers(ctx context.Context, projectID string) ([]member.Membership, error) {
	args := m.Called(ctx, projectID)
	if out, ok := args.Get(0).([]member.Membership); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
