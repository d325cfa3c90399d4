package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rowanmb/jobsite/internal/domain/member"
	"github.com/rowanmb/jobsite/internal/repository"
)

var _ member.Repository = (*MemberRepository)(nil)

// MemberRepository implements member.Repository for PostgreSQL
type MemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// UpsertProfile inserts or refreshes a principal's email mapping
func (r *MemberRepository) UpsertProfile(ctx context.Context, profile *member.Profile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email"}),
		}).
		Create(&profileModel{ID: profile.ID, Email: profile.Email}).Error
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// GetProfileByEmail finds the profile registered under email
func (r *MemberRepository) GetProfileByEmail(ctx context.Context, email string) (*member.Profile, error) {
	var model profileModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &member.Profile{ID: model.ID, Email: model.Email}, nil
}

// AddMember grants a principal access to a project, updating the role on
// re-share
func (r *MemberRepository) AddMember(ctx context.Context, m *member.Membership) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role"}),
		}).
		Create(&memberModel{
			ProjectID: m.ProjectID,
			UserID:    m.UserID,
			Role:      string(m.Role),
			CreatedAt: m.CreatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// ListMembers returns everyone with access to the project
func (r *MemberRepository) ListMembers(ctx context.Context, projectID string) ([]member.Membership, error) {
	var models []memberModel
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	members := make([]member.Membership, 0, len(models))
	for _, model := range models {
		members = append(members, member.Membership{
			ProjectID: model.ProjectID,
			UserID:    model.UserID,
			Role:      member.Role(model.Role),
			CreatedAt: model.CreatedAt,
		})
	}
	return members, nil
}
