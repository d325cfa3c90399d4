package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rowanmb/jobsite/internal/domain/member"
	"github.com/rowanmb/jobsite/internal/repository"
)

var _ member.Repository = (*MemberRepository)(nil)

// MemberRepository implements member.Repository for SQLite
type MemberRepository struct {
	db *DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// UpsertProfile inserts or refreshes a principal's email mapping
func (r *MemberRepository) UpsertProfile(ctx context.Context, profile *member.Profile) error {
	query := `
		INSERT INTO profiles (id, email)
		VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET email = excluded.email
	`

	if _, err := r.db.ExecContext(ctx, query, profile.ID, profile.Email); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// GetProfileByEmail finds the profile registered under email
func (r *MemberRepository) GetProfileByEmail(ctx context.Context, email string) (*member.Profile, error) {
	var profile member.Profile
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email FROM profiles WHERE email = ?`, email).
		Scan(&profile.ID, &profile.Email)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// AddMember grants a principal access to a project, updating the role on
// re-share
func (r *MemberRepository) AddMember(ctx context.Context, m *member.Membership) error {
	query := `
		INSERT INTO project_members (project_id, user_id, role, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(project_id, user_id) DO UPDATE SET role = excluded.role
	`

	_, err := r.db.ExecContext(ctx, query, m.ProjectID, m.UserID, m.Role, m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// ListMembers returns everyone with access to the project
func (r *MemberRepository) ListMembers(ctx context.Context, projectID string) ([]member.Membership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT project_id, user_id, role, created_at FROM project_members WHERE project_id = ? ORDER BY created_at ASC`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []member.Membership
	for rows.Next() {
		var m member.Membership
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", err)
	}

	return members, nil
}
