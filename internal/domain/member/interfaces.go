package member

import "context"

// Repository provides persistence for profiles and project memberships.
type Repository interface {
	UpsertProfile(ctx context.Context, profile *Profile) error
	GetProfileByEmail(ctx context.Context, email string) (*Profile, error)
	AddMember(ctx context.Context, m *Membership) error
	ListMembers(ctx context.Context, projectID string) ([]Membership, error)
}
